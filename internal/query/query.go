// Package query implements the four primary read operations over an
// indexed workspace behind a uniform output envelope: find_symbol,
// get_references, analyze_impact, and a semantic_search stub.
// FindSymbol falls back from an exact match to a case-insensitive one
// to go-edlib's Jaro-Winkler ranking rather than hand-rolling edit
// distance.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"

	"github.com/codeintel/symgraph/internal/store"
	"github.com/codeintel/symgraph/internal/types"
)

// EntityType tags the shape of Envelope.Items so a generic client can
// dispatch on it without sniffing individual item fields.
type EntityType string

const (
	EntitySymbol       EntityType = "Symbol"
	EntityReference    EntityType = "Reference"
	EntityFile         EntityType = "File"
	EntityRelationship EntityType = "Relationship"
	EntitySearchHit    EntityType = "SearchHit"
)

// Meta carries the bookkeeping every response needs regardless of
// payload: how many items, which tool answered, the original query
// text, and how long it took.
type Meta struct {
	Count      int    `json:"count"`
	Tool       string `json:"tool"`
	Query      string `json:"query"`
	DurationMS int64  `json:"duration_ms"`
}

// ErrorInfo is the structured error a response carries instead of (or
// alongside) a truncated item list.
type ErrorInfo struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Envelope is the uniform output shape shared by every query, in both
// text and JSON client modes.
type Envelope struct {
	Items      []any      `json:"items"`
	EntityType EntityType `json:"entity_type"`
	Meta       Meta       `json:"meta"`
	Error      *ErrorInfo `json:"error,omitempty"`
}

// FuzzyThreshold is the minimum Jaro-Winkler similarity score a
// candidate name must reach to appear in a fuzzy FindSymbol fallback.
const FuzzyThreshold = 0.80

// MaxFuzzyResults bounds how many fuzzy candidates a single FindSymbol
// call returns, so an unbound workspace name list never floods a client.
const MaxFuzzyResults = 20

// Engine answers queries against one indexed workspace's store.
type Engine struct {
	store *store.Store
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

func envelope(tool, q string, start time.Time, entityType EntityType, items []any) Envelope {
	return Envelope{
		Items:      items,
		EntityType: entityType,
		Meta: Meta{
			Count:      len(items),
			Tool:       tool,
			Query:      q,
			DurationMS: time.Since(start).Milliseconds(),
		},
	}
}

// FindSymbol resolves name against the case-sensitive primary index
// first, then the lowercase secondary index, and only when both come
// back empty falls back to Jaro-Winkler ranking over every known symbol
// name.
func (e *Engine) FindSymbol(name string) Envelope {
	start := time.Now()

	if syms := e.store.SymbolsByName(name); len(syms) > 0 {
		return envelope("find_symbol", name, start, EntitySymbol, toItems(syms))
	}

	lower := strings.ToLower(name)
	if syms := e.store.SymbolsByNameLower(lower); len(syms) > 0 {
		return envelope("find_symbol", name, start, EntitySymbol, toItems(syms))
	}

	fuzzy := e.fuzzyCandidates(name)
	var items []any
	for _, candidate := range fuzzy {
		items = append(items, toItems(e.store.SymbolsByName(candidate))...)
	}
	env := envelope("find_symbol", name, start, EntitySymbol, items)
	if len(items) == 0 {
		env.Error = &ErrorInfo{
			Code:    "QUERY_SYMBOL_NOT_FOUND",
			Message: "no symbol matched \"" + name + "\" exactly, case-insensitively, or fuzzily",
			Suggestions: []string{
				"Check the spelling or try a partial name",
				"Re-run indexing if the symbol was added recently",
			},
		}
	}
	return env
}

type fuzzyRank struct {
	name  string
	score float32
}

func (e *Engine) fuzzyCandidates(name string) []string {
	var ranked []fuzzyRank
	for _, candidate := range e.store.AllSymbolNames() {
		score, err := edlib.StringsSimilarity(name, candidate, edlib.JaroWinkler)
		if err != nil || float64(score) < FuzzyThreshold {
			continue
		}
		ranked = append(ranked, fuzzyRank{name: candidate, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > MaxFuzzyResults {
		ranked = ranked[:MaxFuzzyResults]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}
	return out
}

// GetReferences returns every relationship that targets id — "who calls,
// extends, implements, or uses this symbol".
func (e *Engine) GetReferences(id types.SymbolID) Envelope {
	start := time.Now()
	rels := e.store.RelationshipsTo(id)
	items := make([]any, len(rels))
	for i, r := range rels {
		items[i] = r
	}
	env := envelope("get_references", id.String(), start, EntityRelationship, items)
	if len(rels) == 0 {
		if _, ok := e.store.GetSymbol(id); !ok {
			env.Error = &ErrorInfo{
				Code:        "QUERY_SYMBOL_NOT_FOUND",
				Message:     "no symbol with id " + id.String() + " is indexed",
				Suggestions: []string{"Verify the id came from a find_symbol result in this workspace"},
			}
		}
	}
	return env
}

// AnalyzeImpact walks the caller graph backwards from id up to depth
// hops, returning every symbol that transitively calls it — "what
// breaks if I change this". depth <= 0 is treated as 1.
func (e *Engine) AnalyzeImpact(id types.SymbolID, depth int) Envelope {
	start := time.Now()
	if depth <= 0 {
		depth = 1
	}

	visited := map[types.SymbolID]bool{id: true}
	frontier := []types.SymbolID{id}
	var callers []types.Symbol

	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []types.SymbolID
		for _, cur := range frontier {
			for _, rel := range e.store.RelationshipsTo(cur) {
				if rel.Kind != types.RelCalls || visited[rel.FromSymbol] {
					continue
				}
				visited[rel.FromSymbol] = true
				if sym, ok := e.store.GetSymbol(rel.FromSymbol); ok {
					callers = append(callers, sym)
				}
				next = append(next, rel.FromSymbol)
			}
		}
		frontier = next
	}

	return envelope("analyze_impact", id.String(), start, EntitySymbol, toItems(callers))
}

// SemanticSearch delegates to an external embedding index outside this
// module's scope, so this stub reports that rather than approximating a
// result.
func (e *Engine) SemanticSearch(naturalQuery string, limit int) Envelope {
	start := time.Now()
	env := envelope("semantic_search", naturalQuery, start, EntitySearchHit, nil)
	env.Error = &ErrorInfo{
		Code:    "QUERY_OUT_OF_CORE_SCOPE",
		Message: "semantic_search delegates to an external embedding index not implemented in core",
		Suggestions: []string{
			"Use find_symbol for exact/fuzzy name lookup instead",
			"Integrate an external semantic index and route this query to it",
		},
	}
	return env
}

func toItems(syms []types.Symbol) []any {
	items := make([]any, len(syms))
	for i, s := range syms {
		items[i] = s
	}
	return items
}
