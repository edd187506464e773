package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/store"
	"github.com/codeintel/symgraph/internal/types"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	s := store.New("")
	b, err := s.StartBatch()
	require.NoError(t, err)

	fileID, err := b.PutFile("db.rs", types.LangRust, "hash1")
	require.NoError(t, err)

	connect := types.Symbol{ID: 1, File: fileID, Language: types.LangRust, Name: "Connect", Kind: types.KindFunction}
	caller := types.Symbol{ID: 2, File: fileID, Language: types.LangRust, Name: "Bootstrap", Kind: types.KindFunction}
	require.NoError(t, b.PutSymbol(connect))
	require.NoError(t, b.PutSymbol(caller))
	require.NoError(t, b.PutRelationship(types.Relationship{Kind: types.RelCalls, FromSymbol: caller.ID, ToSymbol: connect.ID}))
	require.NoError(t, b.CommitBatch())

	return NewEngine(s), s
}

func TestFindSymbol_ExactMatch(t *testing.T) {
	e, _ := newTestEngine(t)
	env := e.FindSymbol("Connect")
	require.Len(t, env.Items, 1)
	assert.Equal(t, EntitySymbol, env.EntityType)
	assert.Nil(t, env.Error)
}

func TestFindSymbol_CaseInsensitiveFallback(t *testing.T) {
	e, _ := newTestEngine(t)
	env := e.FindSymbol("connect")
	require.Len(t, env.Items, 1)
}

func TestFindSymbol_FuzzyFallback(t *testing.T) {
	e, _ := newTestEngine(t)
	env := e.FindSymbol("Connnect") // one extra letter, close to "Connect"
	require.NotEmpty(t, env.Items)
}

func TestFindSymbol_NotFound(t *testing.T) {
	e, _ := newTestEngine(t)
	env := e.FindSymbol("CompletelyUnrelatedName9000")
	assert.Empty(t, env.Items)
	require.NotNil(t, env.Error)
	assert.Equal(t, "QUERY_SYMBOL_NOT_FOUND", env.Error.Code)
}

func TestGetReferences(t *testing.T) {
	e, _ := newTestEngine(t)
	env := e.GetReferences(types.SymbolID(1))
	require.Len(t, env.Items, 1)
	rel, ok := env.Items[0].(types.Relationship)
	require.True(t, ok)
	assert.EqualValues(t, 2, rel.FromSymbol)
}

func TestAnalyzeImpact_OneHop(t *testing.T) {
	e, _ := newTestEngine(t)
	env := e.AnalyzeImpact(types.SymbolID(1), 1)
	require.Len(t, env.Items, 1)
	sym, ok := env.Items[0].(types.Symbol)
	require.True(t, ok)
	assert.Equal(t, "Bootstrap", sym.Name)
}

func TestSemanticSearch_StubReportsOutOfScope(t *testing.T) {
	e, _ := newTestEngine(t)
	env := e.SemanticSearch("how does auth work", 10)
	require.NotNil(t, env.Error)
	assert.Equal(t, "QUERY_OUT_OF_CORE_SCOPE", env.Error.Code)
}
