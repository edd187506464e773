package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/query"
	"github.com/codeintel/symgraph/internal/store"
	"github.com/codeintel/symgraph/internal/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := store.New("")
	b, err := s.StartBatch()
	require.NoError(t, err)

	fileID, err := b.PutFile("db.rs", types.LangRust, "hash1")
	require.NoError(t, err)
	require.NoError(t, b.PutSymbol(types.Symbol{ID: 1, File: fileID, Language: types.LangRust, Name: "Connect", Kind: types.KindFunction}))
	require.NoError(t, b.CommitBatch())

	return NewServer(query.NewEngine(s), "symgraph-test", "0.0.0")
}

func callTool(t *testing.T, handler func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error), params any) query.Envelope {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)

	result, err := handler(context.Background(), &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: data}})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var env query.Envelope
	require.NoError(t, json.Unmarshal([]byte(text.Text), &env))
	return env
}

func TestHandleFindSymbol(t *testing.T) {
	s := newTestServer(t)
	env := callTool(t, s.handleFindSymbol, findSymbolParams{Name: "Connect"})
	require.Nil(t, env.Error)
	require.Len(t, env.Items, 1)
}

func TestHandleFindSymbol_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleFindSymbol(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: []byte("not json")},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestHandleGetReferences(t *testing.T) {
	s := newTestServer(t)
	env := callTool(t, s.handleGetReferences, getReferencesParams{SymbolID: 1})
	require.Nil(t, env.Error)
}

func TestHandleAnalyzeImpact(t *testing.T) {
	s := newTestServer(t)
	env := callTool(t, s.handleAnalyzeImpact, analyzeImpactParams{SymbolID: 1, Depth: 1})
	require.Nil(t, env.Error)
}

func TestHandleSemanticSearch_OutOfScope(t *testing.T) {
	s := newTestServer(t)
	env := callTool(t, s.handleSemanticSearch, semanticSearchParams{NaturalQuery: "how does auth work", Limit: 5})
	require.NotNil(t, env.Error)
	require.Equal(t, "QUERY_OUT_OF_CORE_SCOPE", env.Error.Code)
}
