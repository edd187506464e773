package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/codeintel/symgraph/internal/indexer"
	"github.com/codeintel/symgraph/internal/types"
)

// Batch buffers document mutations until CommitBatch applies them to the
// store atomically. Only one batch may be open at a time process-wide,
// enforced by Store; mutating outside an open batch fails with
// NoActiveBatch.
type Batch struct {
	store *Store

	addedFiles   []fileRecord
	addedSymbols []types.Symbol
	addedRels    []types.Relationship
	addedImports []types.Import
	deletedIDs   []types.SymbolID

	closed bool
}

// StartBatch opens the process-wide batch. It fails if one is already
// open; callers must Commit or Rollback the existing one first.
func (s *Store) StartBatch() (*Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeBatch != nil {
		return nil, newPersistenceError("start_batch", "PERSISTENCE_BATCH_ALREADY_ACTIVE",
			[]string{"Commit or roll back the open batch before starting another"}, errBatchAlreadyActive)
	}
	b := &Batch{store: s}
	s.activeBatch = b
	return b, nil
}

// BeginBatch adapts StartBatch to the indexer.Store boundary: the
// indexer only needs the typed Put*/Commit/Rollback surface.
func (s *Store) BeginBatch() (indexer.Batch, error) {
	return s.StartBatch()
}

func (b *Batch) checkOpen() error {
	if b.closed || b.store.activeBatch != b {
		return newPersistenceError("batch", "PERSISTENCE_NO_ACTIVE_BATCH",
			[]string{"Call StartBatch (or BeginBatch) before mutating the store"}, errNoActiveBatch)
	}
	return nil
}

// Add stages a new document. doc must be one of fileRecord, types.Symbol,
// types.Relationship, or types.Import.
func (b *Batch) Add(doc any) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	switch v := doc.(type) {
	case fileRecord:
		b.addedFiles = append(b.addedFiles, v)
	case types.Symbol:
		b.addedSymbols = append(b.addedSymbols, v)
	case types.Relationship:
		b.addedRels = append(b.addedRels, v)
	case types.Import:
		b.addedImports = append(b.addedImports, v)
	default:
		return newPersistenceError("add", "PERSISTENCE_INVALID_DOCUMENT",
			[]string{"Add only accepts fileRecord/Symbol/Relationship/Import documents"}, nil)
	}
	return nil
}

// Update stages a symbol overwrite; it is staged the same as Add since
// both resolve to a map write keyed by SymbolID at commit time.
func (b *Batch) Update(sym types.Symbol) error {
	return b.Add(sym)
}

// Delete stages removal of a symbol document by id.
func (b *Batch) Delete(id types.SymbolID) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	b.deletedIDs = append(b.deletedIDs, id)
	return nil
}

// PutFile stages a file document and returns its allocated FileID,
// satisfying indexer.Batch.
func (b *Batch) PutFile(path string, language types.LanguageID, contentHash string) (types.FileID, error) {
	if err := b.checkOpen(); err != nil {
		return 0, err
	}
	id := b.store.NextFileID()
	if err := b.Add(fileRecord{ID: id, Path: path, Language: language, ContentHash: contentHash}); err != nil {
		return 0, err
	}
	return id, nil
}

func (b *Batch) PutSymbol(sym types.Symbol) error             { return b.Add(sym) }
func (b *Batch) PutRelationship(rel types.Relationship) error { return b.Add(rel) }
func (b *Batch) PutImport(imp types.Import) error             { return b.Add(imp) }

// Commit satisfies indexer.Batch by delegating to CommitBatch.
func (b *Batch) Commit() error { return b.CommitBatch() }

// CommitBatch applies every staged mutation to the store under a single
// critical section, then flushes a new segment atomically (write to a
// temp file, then rename over the previous one), so readers never
// observe a partially-written segment.
func (b *Batch) CommitBatch() error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	b.store.mu.Lock()
	for _, f := range b.addedFiles {
		b.store.files[f.ID] = f
	}
	for _, sym := range b.addedSymbols {
		b.store.indexSymbolLocked(sym)
	}
	for _, rel := range b.addedRels {
		b.store.relationships = append(b.store.relationships, rel)
	}
	for _, imp := range b.addedImports {
		b.store.imports = append(b.store.imports, imp)
		b.store.postings.IndexFile(imp.File, []byte(imp.Path))
	}
	for _, id := range b.deletedIDs {
		b.store.deleteSymbolLocked(id)
	}
	snapshot := b.store.snapshotLocked()
	b.store.activeBatch = nil
	b.closed = true
	b.store.mu.Unlock()

	return b.store.flush(snapshot)
}

// Rollback discards every staged mutation without touching the store.
func (b *Batch) Rollback() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	if b.store.activeBatch == b {
		b.store.activeBatch = nil
	}
	b.closed = true
	b.addedFiles, b.addedSymbols, b.addedRels, b.addedImports, b.deletedIDs = nil, nil, nil, nil, nil
	return nil
}

// indexSymbolLocked writes sym into the document map and every inverted
// index. Callers must hold s.mu.
func (s *Store) indexSymbolLocked(sym types.Symbol) {
	s.symbols[sym.ID] = sym
	s.byName[sym.Name] = append(s.byName[sym.Name], sym.ID)
	lower := strings.ToLower(sym.Name)
	s.byNameLower[lower] = append(s.byNameLower[lower], sym.ID)
	s.byKind[sym.Kind] = append(s.byKind[sym.Kind], sym.ID)
	s.byFile[sym.File] = append(s.byFile[sym.File], sym.ID)
	s.byLanguage[sym.Language] = append(s.byLanguage[sym.Language], sym.ID)
}

// deleteSymbolLocked removes a symbol document from the store and every
// inverted index that references it. Callers must hold s.mu.
func (s *Store) deleteSymbolLocked(id types.SymbolID) {
	sym, ok := s.symbols[id]
	if !ok {
		return
	}
	delete(s.symbols, id)
	s.byName[sym.Name] = removeID(s.byName[sym.Name], id)
	lower := strings.ToLower(sym.Name)
	s.byNameLower[lower] = removeID(s.byNameLower[lower], id)
	s.byKind[sym.Kind] = removeID(s.byKind[sym.Kind], id)
	s.byFile[sym.File] = removeID(s.byFile[sym.File], id)
	s.byLanguage[sym.Language] = removeID(s.byLanguage[sym.Language], id)
}

func removeID(ids []types.SymbolID, target types.SymbolID) []types.SymbolID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// segment is the on-disk shape of one flushed snapshot.
type segment struct {
	Files         []fileRecord
	Symbols       []types.Symbol
	Relationships []types.Relationship
	Imports       []types.Import
	Counters      map[MetadataKey]uint64
}

// snapshotLocked copies every document into a segment for flushing.
// Callers must hold s.mu.
func (s *Store) snapshotLocked() segment {
	seg := segment{Counters: make(map[MetadataKey]uint64, len(s.counters))}
	for _, f := range s.files {
		seg.Files = append(seg.Files, f)
	}
	for _, sym := range s.symbols {
		seg.Symbols = append(seg.Symbols, sym)
	}
	seg.Relationships = append(seg.Relationships, s.relationships...)
	seg.Imports = append(seg.Imports, s.imports...)
	for k, v := range s.counters {
		seg.Counters[k] = v
	}
	return seg
}

// flush writes seg to the segment path atomically: write to "<path>.tmp",
// then os.Rename over the real path, so a reader opening the segment
// mid-write either sees the old file or the new one, never a
// half-written one.
func (s *Store) flush(seg segment) error {
	if s.indexPath == "" {
		return nil
	}
	path := s.segmentPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return newPersistenceError("flush", "PERSISTENCE_IO", []string{"Check that the index directory is writable"}, err)
	}

	data, err := json.Marshal(seg)
	if err != nil {
		return newPersistenceError("flush", "PERSISTENCE_SERIALIZATION", nil, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return newPersistenceError("flush", "PERSISTENCE_IO", []string{"Check disk space and permissions"}, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return newPersistenceError("flush", "PERSISTENCE_IO", []string{"The segment rename failed; retry the commit"}, err)
	}
	return nil
}

// Load restores a store's documents and counters from its segment file,
// if one exists. A missing segment is not an error: a fresh index
// starts empty.
func (s *Store) Load() error {
	if s.indexPath == "" {
		return nil
	}
	data, err := os.ReadFile(s.segmentPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return newPersistenceError("load", "PERSISTENCE_IO", []string{"Check that the segment file is readable"}, err)
	}

	var seg segment
	if err := json.Unmarshal(data, &seg); err != nil {
		return newPersistenceError("load", "PERSISTENCE_SERIALIZATION", []string{"The segment file may be corrupt; delete it to rebuild"}, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range seg.Files {
		s.files[f.ID] = f
	}
	for _, sym := range seg.Symbols {
		s.indexSymbolLocked(sym)
	}
	s.relationships = append(s.relationships, seg.Relationships...)
	s.imports = append(s.imports, seg.Imports...)
	for k, v := range seg.Counters {
		s.counters[k] = v
	}
	return nil
}
