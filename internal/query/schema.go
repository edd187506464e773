package query

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// ToolSchemas returns the input schema for each of the four primary
// queries, keyed by tool name, for JSON Schema emission to machine
// clients. Every numeric parameter uses Type "integer" rather than a
// "format" constraint, since neither JSON Schema nor this library
// defines an unsigned-integer format.
func ToolSchemas() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"find_symbol": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"name": {
					Type:        "string",
					Description: "Symbol name to look up, tried exact, then case-insensitive, then fuzzy",
				},
			},
			Required: []string{"name"},
		},
		"get_references": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol_id": {
					Type:        "integer",
					Description: "Symbol id returned by a prior find_symbol call",
				},
			},
			Required: []string{"symbol_id"},
		},
		"analyze_impact": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol_id": {
					Type:        "integer",
					Description: "Symbol id to analyze transitive callers of",
				},
				"depth": {
					Type:        "integer",
					Description: "Maximum number of call-graph hops to walk backwards (default 1)",
				},
			},
			Required: []string{"symbol_id"},
		},
		"semantic_search": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"natural_query": {
					Type:        "string",
					Description: "Natural-language query, delegated to an external embedding index",
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum number of results to return",
				},
			},
			Required: []string{"natural_query"},
		},
	}
}
