package store

import "errors"

// errNoActiveBatch is the underlying sentinel for a mutating call made
// outside a batch. Wrapped in an ierrors.PersistenceError at each call
// site so callers can still errors.Is against it through Unwrap.
var errNoActiveBatch = errors.New("No active batch. Call start_batch() first")

// errBatchAlreadyActive reports an attempt to start a second batch while
// one is still open; the store allows only one batch process-wide.
var errBatchAlreadyActive = errors.New("a batch is already active; commit or roll it back first")

// errDocumentNotFound reports a lookup against a SymbolID that has no
// stored document.
var errDocumentNotFound = errors.New("document not found")
