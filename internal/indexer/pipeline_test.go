package indexer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/rust"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/types"
)

// TestMain verifies Run's errgroup+semaphore worker pool leaves no
// goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeBatch and fakeStore back the indexer's narrow Store/Batch
// interfaces with an in-memory map, so the pipeline can be exercised
// without internal/store (which itself depends on this package for the
// indexer.Batch type, so importing it here would be circular for the
// product code even though it's fine for a different package's tests).
type fakeBatch struct {
	mu      *sync.Mutex
	files   *[]string
	symbols *[]types.Symbol
	nextID  *uint32
}

func (b *fakeBatch) PutFile(path string, language types.LanguageID, contentHash string) (types.FileID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	*b.nextID++
	*b.files = append(*b.files, path)
	return types.FileID(*b.nextID), nil
}

func (b *fakeBatch) PutSymbol(sym types.Symbol) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	*b.symbols = append(*b.symbols, sym)
	return nil
}

func (b *fakeBatch) PutRelationship(types.Relationship) error { return nil }
func (b *fakeBatch) PutImport(types.Import) error              { return nil }
func (b *fakeBatch) Commit() error                             { return nil }
func (b *fakeBatch) Rollback() error                           { return nil }

type fakeStore struct {
	mu      sync.Mutex
	files   []string
	symbols []types.Symbol
	nextID  uint32
}

func (s *fakeStore) BeginBatch() (Batch, error) {
	return &fakeBatch{mu: &s.mu, files: &s.files, symbols: &s.symbols, nextID: &s.nextID}, nil
}

func TestIndexer_Run_IndexesRustFiles(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "src/main.rs", "fn connect() -> i32 { 0 }\n")
	writeTestFile(t, root, "src/lib.rs", "fn bootstrap() { connect(); }\n")

	reg := registry.New()
	require.NoError(t, reg.Register(rust.Definition{}))

	settings := config.Default()
	settings.WorkspaceRoot = root
	settings.Exclude = config.DefaultExcludes()

	st := &fakeStore{}
	idx := New(reg, settings, st)

	stats, err := idx.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesScanned)
	assert.Equal(t, 2, stats.FilesIndexed)
	assert.Zero(t, stats.FilesSkipped)
	assert.Zero(t, stats.ParseWarnings)
	assert.NotEmpty(t, st.symbols)
}

func TestIndexer_Run_SkipsDisabledLanguage(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "src/main.rs", "fn connect() -> i32 { 0 }\n")

	reg := registry.New()
	require.NoError(t, reg.Register(rust.Definition{}))

	settings := config.Default()
	settings.WorkspaceRoot = root
	settings.Exclude = config.DefaultExcludes()
	settings.Languages[string(types.LangRust)] = config.LanguageSettings{Enabled: false}

	st := &fakeStore{}
	idx := New(reg, settings, st)

	stats, err := idx.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Zero(t, stats.FilesIndexed)
}
