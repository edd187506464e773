// Package ierrors defines the kind-tagged error taxonomy shared by every
// component: each error carries a stable string code for programmatic
// handling (JSON responses, MCP tool errors) plus human recovery
// suggestions.
package ierrors

import (
	"fmt"
	"time"

	"github.com/codeintel/symgraph/internal/types"
)

// Kind identifies which error taxonomy a given error belongs to.
type Kind string

const (
	KindConfig      Kind = "config"
	KindParse       Kind = "parse"
	KindResolution  Kind = "resolution"
	KindPersistence Kind = "persistence"
	KindQuery       Kind = "query"
	KindCache       Kind = "cache"
)

// taggedError is the shape every concrete error type below embeds:
// a stable code, recovery suggestions, an underlying cause, and a
// timestamp for log correlation.
type taggedError struct {
	Kind        Kind
	Code        string
	Suggestions []string
	Underlying  error
	Timestamp   time.Time
}

func (e *taggedError) Unwrap() error { return e.Underlying }

// RecoverySuggestions returns the list of suggested remediations.
func (e *taggedError) RecoverySuggestions() []string { return e.Suggestions }

// StatusCode returns the stable machine-readable error code.
func (e *taggedError) StatusCode() string { return e.Code }

// ConfigError reports a malformed or missing configuration value.
type ConfigError struct {
	taggedError
	Field string
	Value string
}

func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		taggedError: taggedError{
			Kind: KindConfig,
			Code: "CONFIG_INVALID_FIELD",
			Suggestions: []string{
				"Check settings.toml for a typo in the field name",
				"Consult the configuration schema for accepted values",
			},
			Underlying: err,
			Timestamp:  time.Now(),
		},
		Field: field,
		Value: value,
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: field %q (value %q): %v", e.Field, e.Value, e.Underlying)
}

// ParseError reports a parser adapter failure at a specific location.
type ParseError struct {
	taggedError
	File     types.FileID
	Path     string
	Line     int
	Column   int
	Language types.LanguageID
}

func NewParseError(file types.FileID, path string, lang types.LanguageID, line, col int, err error) *ParseError {
	return &ParseError{
		taggedError: taggedError{
			Kind: KindParse,
			Code: "PARSE_FAILED",
			Suggestions: []string{
				"Verify the file is valid " + string(lang) + " source",
				"Check for unterminated strings, comments, or brackets near the reported position",
			},
			Underlying: err,
			Timestamp:  time.Now(),
		},
		File:     file,
		Path:     path,
		Line:     line,
		Column:   col,
		Language: lang,
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s:%d:%d (%s): %v", e.Path, e.Line, e.Column, e.Language, e.Underlying)
}

// ResolutionWarning reports a symbol reference that could not be resolved.
// It is a warning, not a hard failure: indexing continues and the
// relationship is recorded with ToUnresolvedName set.
type ResolutionWarning struct {
	taggedError
	Name string
	File types.FileID
}

func NewResolutionWarning(name string, file types.FileID) *ResolutionWarning {
	return &ResolutionWarning{
		taggedError: taggedError{
			Kind: KindResolution,
			Code: "RESOLUTION_UNRESOLVED_REFERENCE",
			Suggestions: []string{
				"The symbol may be defined in a file outside the indexed workspace",
				"Re-run indexing after the defining file is added",
			},
			Timestamp: time.Now(),
		},
		Name: name,
		File: file,
	}
}

func (e *ResolutionWarning) Error() string {
	return fmt.Sprintf("resolution: could not resolve %q referenced from %s", e.Name, e.File)
}

// PersistenceError reports a store-layer failure: disk I/O, a batch
// invariant violation, or a corrupt segment.
type PersistenceError struct {
	taggedError
	Operation string
}

func NewPersistenceError(op, code string, suggestions []string, err error) *PersistenceError {
	return &PersistenceError{
		taggedError: taggedError{
			Kind:        KindPersistence,
			Code:        code,
			Suggestions: suggestions,
			Underlying:  err,
			Timestamp:   time.Now(),
		},
		Operation: op,
	}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Operation, e.Underlying)
}

// QueryError reports a malformed or unsatisfiable query request.
type QueryError struct {
	taggedError
	Query string
}

func NewQueryError(query string, err error) *QueryError {
	return &QueryError{
		taggedError: taggedError{
			Kind: KindQuery,
			Code: "QUERY_INVALID",
			Suggestions: []string{
				"Check the query parameters against the published schema",
			},
			Underlying: err,
			Timestamp:  time.Now(),
		},
		Query: query,
	}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q failed: %v", e.Query, e.Underlying)
}

// CacheError reports a project-resolver on-disk memo failure, in one of
// two kinds: an I/O failure reading or writing the sidecar, or a sidecar
// whose contents don't decode or whose format version is stale.
type CacheError struct {
	taggedError
	Path string
}

// NewCacheIOError reports a failure reading or writing the resolution
// cache sidecar file at path.
func NewCacheIOError(path string, err error) *CacheError {
	return &CacheError{
		taggedError: taggedError{
			Kind: KindCache,
			Code: "RESOLUTION_CACHE_IO",
			Suggestions: []string{
				"Ensure the cache directory exists and is writable",
				"Check disk space and permissions",
				"Delete the on-disk cache to force a rebuild",
			},
			Underlying: err,
			Timestamp:  time.Now(),
		},
		Path: path,
	}
}

// NewInvalidCacheError reports a cache sidecar whose contents could not
// be decoded or whose format version does not match.
func NewInvalidCacheError(path, details string) *CacheError {
	return &CacheError{
		taggedError: taggedError{
			Kind: KindCache,
			Code: "RESOLUTION_INVALID_CACHE",
			Suggestions: []string{
				"Delete the on-disk cache to force a rebuild",
				"Verify the cache format version matches this build",
			},
			Underlying: fmt.Errorf("invalid cache: %s", details),
			Timestamp:  time.Now(),
		},
		Path: path,
	}
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error at %q: %v", e.Path, e.Underlying)
}
