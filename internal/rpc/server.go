package rpc

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codeintel/symgraph/internal/query"
	"github.com/codeintel/symgraph/internal/types"
)

// Server wraps an mcp.Server exposing the four primary queries as MCP
// tools.
type Server struct {
	mcp    *mcp.Server
	engine *query.Engine
}

// NewServer builds an MCP server bound to engine and registers its
// tools. name/version identify this server in the MCP handshake.
func NewServer(engine *query.Engine, name, version string) *Server {
	s := &Server{
		mcp:    mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		engine: engine,
	}
	s.registerTools()
	return s
}

// Run serves MCP requests over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	schemas := query.ToolSchemas()

	s.mcp.AddTool(&mcp.Tool{
		Name:        "find_symbol",
		Description: "Find a symbol by name: exact match, then case-insensitive, then fuzzy (Jaro-Winkler)",
		InputSchema: schemas["find_symbol"],
	}, s.handleFindSymbol)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_references",
		Description: "List every relationship that references a symbol id",
		InputSchema: schemas["get_references"],
	}, s.handleGetReferences)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "analyze_impact",
		Description: "Find transitive callers of a symbol up to a given call-graph depth",
		InputSchema: schemas["analyze_impact"],
	}, s.handleAnalyzeImpact)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "semantic_search",
		Description: "Natural-language code search (delegated externally; out of core scope)",
		InputSchema: schemas["semantic_search"],
	}, s.handleSemanticSearch)
}

func jsonResult(env query.Envelope) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: env.Error != nil,
	}, nil
}

type findSymbolParams struct {
	Name string `json:"name"`
}

func (s *Server) handleFindSymbol(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findSymbolParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return jsonResult(errorEnvelope("find_symbol", err))
	}
	return jsonResult(s.engine.FindSymbol(p.Name))
}

type getReferencesParams struct {
	SymbolID uint32 `json:"symbol_id"`
}

func (s *Server) handleGetReferences(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getReferencesParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return jsonResult(errorEnvelope("get_references", err))
	}
	return jsonResult(s.engine.GetReferences(types.SymbolID(p.SymbolID)))
}

type analyzeImpactParams struct {
	SymbolID uint32 `json:"symbol_id"`
	Depth    int    `json:"depth"`
}

func (s *Server) handleAnalyzeImpact(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p analyzeImpactParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return jsonResult(errorEnvelope("analyze_impact", err))
	}
	return jsonResult(s.engine.AnalyzeImpact(types.SymbolID(p.SymbolID), p.Depth))
}

type semanticSearchParams struct {
	NaturalQuery string `json:"natural_query"`
	Limit        int    `json:"limit"`
}

func (s *Server) handleSemanticSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p semanticSearchParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return jsonResult(errorEnvelope("semantic_search", err))
	}
	return jsonResult(s.engine.SemanticSearch(p.NaturalQuery, p.Limit))
}

func errorEnvelope(tool string, err error) query.Envelope {
	return query.Envelope{
		EntityType: query.EntitySearchHit,
		Meta:       query.Meta{Tool: tool},
		Error: &query.ErrorInfo{
			Code:    "QUERY_INVALID_PARAMS",
			Message: "invalid parameters: " + err.Error(),
		},
	}
}
