// Package store implements the persistence layer: a document store keyed
// by SymbolID with inverted indices on name/kind/file/language, metadata
// counters, and a single process-wide transactional batch. A single
// coarse lock guards all of it rather than per-shard striping, since
// writes only happen in a batch commit and reads are cheap map lookups.
// Segment flush uses a write-to-temp-then-rename idiom so a reader never
// observes a partially-written segment.
package store

import (
	"path/filepath"
	"sync"

	"github.com/codeintel/symgraph/internal/ierrors"
	"github.com/codeintel/symgraph/internal/types"
)

// fileRecord is the document stored per indexed file.
type fileRecord struct {
	ID          types.FileID
	Path        string
	Language    types.LanguageID
	ContentHash string
}

// Store holds every document and inverted index in memory, guarded by a
// single mutex. Only one batch may be open at a time process-wide, so
// there is no benefit to finer-grained locking here.
type Store struct {
	mu sync.Mutex

	indexPath string

	files         map[types.FileID]fileRecord
	symbols       map[types.SymbolID]types.Symbol
	relationships []types.Relationship
	imports       []types.Import

	byName      map[string][]types.SymbolID
	byNameLower map[string][]types.SymbolID
	byKind      map[types.SymbolKind][]types.SymbolID
	byFile      map[types.FileID][]types.SymbolID
	byLanguage  map[types.LanguageID][]types.SymbolID

	counters map[MetadataKey]uint64

	postings *PostingsIndex

	activeBatch *Batch
}

// New creates a Store that flushes committed segments under indexPath
// (typically <workspace>/.symgraph/index).
func New(indexPath string) *Store {
	return &Store{
		indexPath:   indexPath,
		files:       make(map[types.FileID]fileRecord),
		symbols:     make(map[types.SymbolID]types.Symbol),
		byName:      make(map[string][]types.SymbolID),
		byNameLower: make(map[string][]types.SymbolID),
		byKind:      make(map[types.SymbolKind][]types.SymbolID),
		byFile:      make(map[types.FileID][]types.SymbolID),
		byLanguage:  make(map[types.LanguageID][]types.SymbolID),
		counters:    make(map[MetadataKey]uint64),
		postings:    NewPostingsIndex(),
	}
}

// GetMetadata reads a counter's current value.
func (s *Store) GetMetadata(key MetadataKey) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[key]
}

// NextFileID increments and returns the file_counter. Batch.PutFile
// draws every file document's id from it, including the files the
// indexer persists.
func (s *Store) NextFileID() types.FileID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[MetadataFileCounter]++
	return types.FileID(s.counters[MetadataFileCounter])
}

// NextSymbolID increments and returns the symbol_counter.
func (s *Store) NextSymbolID() types.SymbolID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[MetadataSymbolCounter]++
	return types.SymbolID(s.counters[MetadataSymbolCounter])
}

// GetSymbol retrieves a symbol document by id.
func (s *Store) GetSymbol(id types.SymbolID) (types.Symbol, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sym, ok := s.symbols[id]
	return sym, ok
}

// SymbolOrError is GetSymbol's error-returning counterpart, for callers
// (the query layer) that need a PersistenceError rather than a bool.
func (s *Store) SymbolOrError(id types.SymbolID) (types.Symbol, error) {
	if sym, ok := s.GetSymbol(id); ok {
		return sym, nil
	}
	return types.Symbol{}, newPersistenceError("get_symbol", "PERSISTENCE_DOCUMENT_NOT_FOUND",
		[]string{"Verify the symbol id comes from a completed index run"}, errDocumentNotFound)
}

// SymbolsByName returns every symbol document registered under the exact
// (case-sensitive) name.
func (s *Store) SymbolsByName(name string) []types.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveIDs(s.byName[name])
}

// SymbolsByNameLower is the lowercase secondary index used for
// case-insensitive user queries.
func (s *Store) SymbolsByNameLower(lower string) []types.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveIDs(s.byNameLower[lower])
}

// SymbolsByKind returns every symbol of the given kind.
func (s *Store) SymbolsByKind(kind types.SymbolKind) []types.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveIDs(s.byKind[kind])
}

// SymbolsByFile returns every symbol declared in the given file.
func (s *Store) SymbolsByFile(file types.FileID) []types.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveIDs(s.byFile[file])
}

// SymbolsByLanguage returns every symbol parsed from the given language.
func (s *Store) SymbolsByLanguage(lang types.LanguageID) []types.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveIDs(s.byLanguage[lang])
}

// RelationshipsFrom returns every relationship whose FromSymbol is id.
func (s *Store) RelationshipsFrom(id types.SymbolID) []types.Relationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Relationship
	for _, rel := range s.relationships {
		if rel.FromSymbol == id {
			out = append(out, rel)
		}
	}
	return out
}

// RelationshipsTo returns every relationship whose ToSymbol is id
// (get_references' core lookup).
func (s *Store) RelationshipsTo(id types.SymbolID) []types.Relationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Relationship
	for _, rel := range s.relationships {
		if rel.ToSymbol == id {
			out = append(out, rel)
		}
	}
	return out
}

// File returns the file document for id.
func (s *Store) File(id types.FileID) (path string, language types.LanguageID, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, exists := s.files[id]
	if !exists {
		return "", "", false
	}
	return rec.Path, rec.Language, true
}

// AllSymbolNames returns every distinct registered symbol name, the
// candidate pool the query layer's fuzzy fallback ranks against when an
// exact and lowercase lookup both come back empty.
func (s *Store) AllSymbolNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	return names
}

// SearchTokens returns files whose indexed tokens include every token
// (ASCII, length >= 3, case-folded) in tokens. CommitBatch feeds the
// postings index the path of each committed import only; file contents
// are not tokenized.
func (s *Store) SearchTokens(tokens []string) []types.FileID {
	return s.postings.Lookup(tokens)
}

func (s *Store) resolveIDs(ids []types.SymbolID) []types.Symbol {
	out := make([]types.Symbol, 0, len(ids))
	for _, id := range ids {
		if sym, ok := s.symbols[id]; ok {
			out = append(out, sym)
		}
	}
	return out
}

// segmentPath is the file a committed batch flushes to, under
// <index_path>/documents/.
func (s *Store) segmentPath() string {
	return filepath.Join(s.indexPath, "documents", "segment.json")
}

func newPersistenceError(op, code string, suggestions []string, err error) *ierrors.PersistenceError {
	return ierrors.NewPersistenceError(op, code, suggestions, err)
}
