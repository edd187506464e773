package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/types"
)

func TestBatch_AddOutsideBatchFails(t *testing.T) {
	s := New("")
	b := &Batch{store: s}
	err := b.Add(types.Symbol{ID: 1, Name: "Foo"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNoActiveBatch))
}

func TestBatch_StartTwiceFails(t *testing.T) {
	s := New("")
	b1, err := s.StartBatch()
	require.NoError(t, err)
	defer b1.Rollback()

	_, err = s.StartBatch()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBatchAlreadyActive))
}

func TestBatch_CommitIndexesSymbol(t *testing.T) {
	s := New("")
	b, err := s.StartBatch()
	require.NoError(t, err)

	fileID, err := b.PutFile("main.go", types.LangRust, "deadbeef")
	require.NoError(t, err)

	sym := types.Symbol{ID: s.NextSymbolID(), File: fileID, Language: types.LangRust, Name: "Connect", Kind: types.KindFunction}
	require.NoError(t, b.PutSymbol(sym))
	require.NoError(t, b.CommitBatch())

	got, ok := s.GetSymbol(sym.ID)
	require.True(t, ok)
	assert.Equal(t, "Connect", got.Name)

	byName := s.SymbolsByName("Connect")
	require.Len(t, byName, 1)

	byLower := s.SymbolsByNameLower("connect")
	require.Len(t, byLower, 1)

	byKind := s.SymbolsByKind(types.KindFunction)
	require.Len(t, byKind, 1)
}

func TestBatch_RollbackDiscardsMutations(t *testing.T) {
	s := New("")
	b, err := s.StartBatch()
	require.NoError(t, err)

	require.NoError(t, b.PutSymbol(types.Symbol{ID: 99, Name: "Ghost"}))
	require.NoError(t, b.Rollback())

	_, ok := s.GetSymbol(99)
	assert.False(t, ok)

	// A fresh batch can be started immediately after rollback.
	_, err = s.StartBatch()
	require.NoError(t, err)
}

func TestBatch_MutatingAfterCommitFails(t *testing.T) {
	s := New("")
	b, err := s.StartBatch()
	require.NoError(t, err)
	require.NoError(t, b.CommitBatch())

	err = b.Add(types.Symbol{ID: 1, Name: "Late"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNoActiveBatch))
}

func TestStore_DeleteRemovesFromEveryIndex(t *testing.T) {
	s := New("")
	b, err := s.StartBatch()
	require.NoError(t, err)

	sym := types.Symbol{ID: 7, Name: "Temp", Kind: types.KindVariable, File: 1, Language: types.LangPython}
	require.NoError(t, b.PutSymbol(sym))
	require.NoError(t, b.CommitBatch())

	b2, err := s.StartBatch()
	require.NoError(t, err)
	require.NoError(t, b2.Delete(7))
	require.NoError(t, b2.CommitBatch())

	_, ok := s.GetSymbol(7)
	assert.False(t, ok)
	assert.Empty(t, s.SymbolsByName("Temp"))
	assert.Empty(t, s.SymbolsByKind(types.KindVariable))
}

func TestStore_SymbolOrError(t *testing.T) {
	s := New("")
	_, err := s.SymbolOrError(123)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDocumentNotFound))
}

func TestPostingsIndex_LookupRequiresAllTokens(t *testing.T) {
	pi := NewPostingsIndex()
	pi.IndexFile(1, []byte("func Connect(conn Connection) error"))
	pi.IndexFile(2, []byte("func Close() error"))

	files := pi.Lookup([]string{"connect", "connection"})
	require.Len(t, files, 1)
	assert.Equal(t, types.FileID(1), files[0])

	assert.Empty(t, pi.Lookup([]string{"nonexistent"}))
}

func TestPostingsIndex_ReindexUnchangedContentIsNoop(t *testing.T) {
	pi := NewPostingsIndex()
	content := []byte("func Connect(conn Connection) error")

	pi.IndexFile(1, content)
	require.Len(t, pi.Lookup([]string{"connect"}), 1)

	pi.tokens["connect"][1] = false
	delete(pi.tokens["connect"], 1)

	// Re-indexing the exact same bytes is skipped via the xxhash
	// fingerprint check, so the token dropped above is not restored.
	pi.IndexFile(1, content)
	assert.Empty(t, pi.Lookup([]string{"connect"}))

	pi.IndexFile(1, []byte("func Connect(conn Connection, extra int) error"))
	require.Len(t, pi.Lookup([]string{"connect"}), 1)
}
