package indexer

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/debugx"
	"github.com/codeintel/symgraph/internal/ierrors"
	"github.com/codeintel/symgraph/internal/inheritance"
	"github.com/codeintel/symgraph/internal/intern"
	"github.com/codeintel/symgraph/internal/projectresolver"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/types"
)

// Store is the persistence boundary the indexer writes through. Accepting
// this narrow interface rather than a concrete *store.Store lets the
// indexer be tested with a fake and keeps internal/store free to evolve
// its on-disk layout independently.
type Store interface {
	BeginBatch() (Batch, error)
}

// Batch is one file's worth of writes, committed or rolled back as a
// unit: a file's symbols/relationships are never partially visible.
type Batch interface {
	PutFile(path string, language types.LanguageID, contentHash string) (types.FileID, error)
	PutSymbol(types.Symbol) error
	PutRelationship(types.Relationship) error
	PutImport(types.Import) error
	Commit() error
	Rollback() error
}

// Stats summarizes one Run.
type Stats struct {
	FilesScanned  int
	FilesIndexed  int
	FilesSkipped  int
	ParseWarnings int
}

// stagedFile holds one file's parse output after its local symbol
// ordinals have been remapped to globally unique SymbolIDs, but before
// cross-file relationship resolution.
type stagedFile struct {
	path     string
	fileID   types.FileID
	language types.LanguageID
	symbols  []types.Symbol
	rels     []types.Relationship
	imports  []types.Import
}

// Indexer drives the discover→plan→parse→stage→resolve→persist pipeline
// over one workspace root.
type Indexer struct {
	registry *registry.Registry
	settings *config.Settings
	store    Store
	names    *NameTable
	graph    *inheritance.Graph
	table    *intern.Table

	nextFileID   uint32
	nextSymbolID uint32
}

func New(reg *registry.Registry, settings *config.Settings, store Store) *Indexer {
	table := intern.NewTable()
	return &Indexer{
		registry: reg,
		settings: settings,
		store:    store,
		names:    NewNameTable(),
		graph:    inheritance.NewGraph(table),
		table:    table,
	}
}

// Graph exposes the inheritance graph built during Run, for query-layer
// consumers (AnalyzeImpact, resolve_method-style lookups).
func (idx *Indexer) Graph() *inheritance.Graph { return idx.graph }

func (idx *Indexer) allocFileID() types.FileID {
	return types.FileID(atomic.AddUint32(&idx.nextFileID, 1))
}

func (idx *Indexer) allocSymbolID() types.SymbolID {
	return types.SymbolID(atomic.AddUint32(&idx.nextSymbolID, 1))
}

// Run executes one full pass: discover files under root, parse them with
// a bounded worker pool, stage their output under globally unique ids,
// resolve cross-file references against the name table and inheritance
// graph, then persist every file's batch.
func (idx *Indexer) Run(ctx context.Context, root string) (Stats, error) {
	var stats Stats

	scanner := NewScanner(idx.settings)
	paths, err := scanner.Discover(ctx, root)
	if err != nil {
		return stats, ierrors.NewConfigError("workspace_root", root, err)
	}
	stats.FilesScanned = len(paths)

	type planned struct {
		path string
		def  registry.LanguageDefinition
	}
	var plan []planned
	for _, p := range paths {
		def, ok := idx.registry.DefinitionForPath(p)
		if !ok || !def.IsEnabled(idx.settings) {
			stats.FilesSkipped++
			continue
		}
		plan = append(plan, planned{path: p, def: def})
	}

	workers := idx.settings.ParallelThreads
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	var mu sync.Mutex
	var staged []stagedFile
	var warnings int32

	for _, item := range plan {
		item := item
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			source, err := os.ReadFile(item.path)
			if err != nil {
				atomic.AddInt32(&warnings, 1)
				debugx.LogIndex("read %s: %v", item.path, err)
				return nil
			}

			fileID := idx.allocFileID()
			parser := item.def.NewParser()
			result, err := parser.Parse(fileID, item.path, source)
			if err != nil {
				atomic.AddInt32(&warnings, 1)
				debugx.LogIndex("parse %s: %v", item.path, err)
				return nil
			}

			sf := idx.stageFile(item.path, fileID, item.def.ID(), result)

			mu.Lock()
			staged = append(staged, sf)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	stats.ParseWarnings = int(warnings)

	idx.resolve(staged)

	for _, sf := range staged {
		if err := idx.persist(sf); err != nil {
			debugx.LogIndex("persist %s: %v", sf.path, err)
			continue
		}
		stats.FilesIndexed++
	}

	return stats, nil
}

// stageFile remaps a parse result's per-file local symbol ordinals to
// globally unique SymbolIDs and records every declared name in the
// cross-file name table, so a later file's unresolved reference to it
// can be resolved in the resolve phase.
func (idx *Indexer) stageFile(path string, fileID types.FileID, lang types.LanguageID, result registry.ParseResult) stagedFile {
	localToGlobal := make(map[types.SymbolID]types.SymbolID, len(result.Symbols))

	symbols := make([]types.Symbol, len(result.Symbols))
	for i, sym := range result.Symbols {
		global := idx.allocSymbolID()
		localToGlobal[sym.ID] = global
		sym.ID = global
		sym.File = fileID
		symbols[i] = sym
		idx.names.Put(sym.Name, global)
	}

	rels := make([]types.Relationship, len(result.Relationships))
	for i, rel := range result.Relationships {
		if g, ok := localToGlobal[rel.FromSymbol]; ok {
			rel.FromSymbol = g
		}
		if rel.ToSymbol != 0 {
			if g, ok := localToGlobal[rel.ToSymbol]; ok {
				rel.ToSymbol = g
			}
		}
		rel.FromFile = fileID
		rels[i] = rel
	}

	imports := make([]types.Import, len(result.Imports))
	for i, imp := range result.Imports {
		imp.File = fileID
		imports[i] = imp
	}

	for _, rel := range rels {
		if rel.Kind != types.RelExtends && rel.Kind != types.RelImplements {
			continue
		}
		if rel.ToUnresolvedName == "" {
			continue
		}
		fromName := symbolNameByID(symbols, rel.FromSymbol)
		if fromName == "" {
			continue
		}
		kind := inheritance.EdgeExtends
		if rel.Kind == types.RelImplements {
			kind = inheritance.EdgeImplements
		}
		idx.graph.AddEdge(fromName, rel.ToUnresolvedName, kind)
	}
	for _, sym := range symbols {
		if sym.Kind == types.KindMethod {
			owner := sym.Scope.OwnerName
			if owner != "" {
				idx.graph.AddMethod(owner, sym.Name, sym.ID, owner)
			}
		}
	}

	return stagedFile{path: path, fileID: fileID, language: lang, symbols: symbols, rels: rels, imports: imports}
}

func symbolNameByID(symbols []types.Symbol, id types.SymbolID) string {
	for _, s := range symbols {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}

// resolve fills in ToSymbol for every relationship the parse phase left
// unresolved (Calls/Uses referencing a name outside the declaring file's
// own lexical scope), consulting the cross-file name table built during
// staging.
func (idx *Indexer) resolve(staged []stagedFile) {
	for i := range staged {
		for j := range staged[i].rels {
			rel := &staged[i].rels[j]
			if rel.ToSymbol != 0 || rel.ToUnresolvedName == "" {
				continue
			}
			if id, ok := idx.names.Get(rel.ToUnresolvedName); ok {
				rel.ToSymbol = id
			}
		}
	}
}

func (idx *Indexer) persist(sf stagedFile) error {
	batch, err := idx.store.BeginBatch()
	if err != nil {
		return err
	}

	hash, err := projectresolver.Sha256File(sf.path)
	if err != nil {
		_ = batch.Rollback()
		return err
	}
	fileID, err := batch.PutFile(sf.path, sf.language, hash)
	if err != nil {
		_ = batch.Rollback()
		return err
	}
	for _, sym := range sf.symbols {
		sym.File = fileID
		if err := batch.PutSymbol(sym); err != nil {
			_ = batch.Rollback()
			return err
		}
	}
	for _, rel := range sf.rels {
		rel.FromFile = fileID
		if err := batch.PutRelationship(rel); err != nil {
			_ = batch.Rollback()
			return err
		}
	}
	for _, imp := range sf.imports {
		imp.File = fileID
		if err := batch.PutImport(imp); err != nil {
			_ = batch.Rollback()
			return err
		}
	}
	return batch.Commit()
}
