// Package registry is the language registry: the table that maps file
// extensions to a LanguageDefinition capable of producing a Parser and a
// Behavior for that language.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/types"
)

// Range mirrors types.Range to avoid every adapter importing types just
// for node positions when walking a tree; adapters convert at the
// boundary where a Symbol/Relationship is actually built.
type Range = types.Range

// Parser turns a file's bytes into symbols and relationships, and exposes
// the same information pre-sliced by relationship kind: callers that only
// want the call graph, the use graph, the implements/extends graph, or the
// import list can ask for exactly that without re-walking the tree.
type Parser interface {
	Parse(file types.FileID, path string, source []byte) (ParseResult, error)

	// FindCalls returns every call edge: the enclosing named symbol (or
	// the language's script-scope sentinel for a module-level call) paired
	// with the callee name it invokes.
	FindCalls(source []byte) ([]CallEdge, error)

	// FindUses returns every Uses edge: the referencing symbol paired with
	// the name it refers to. Of the bundled adapters only TypeScript emits
	// Uses edges (JSX component uses); type references and GDScript
	// preloads produce no Uses edge.
	FindUses(source []byte) ([]UseEdge, error)

	// FindImplementations returns every extends/implements/trait-impl
	// edge: the implementing type paired with its base or interface.
	FindImplementations(source []byte) ([]ImplEdge, error)

	// FindImports returns the file's import statements standalone,
	// without the rest of a full Parse.
	FindImports(file types.FileID, source []byte) ([]types.Import, error)
}

// ParseResult is everything a single-file parse produced, before
// cross-file resolution.
type ParseResult struct {
	Symbols       []types.Symbol
	Relationships []types.Relationship
	Imports       []types.Import
}

// CallEdge is one local call-graph edge: caller calls callee at Range.
type CallEdge struct {
	Caller string
	Callee string
	Range  Range
}

// UseEdge is one type-reference/use edge: source refers to target at Range.
type UseEdge struct {
	Source string
	Target string
	Range  Range
}

// ImplEdge is one extends/implements/trait-impl edge: Implementor derives
// from or implements Base at Range.
type ImplEdge struct {
	Implementor string
	Base        string
	Range       Range
}

// namesByID builds a local SymbolID -> Name lookup from a single parse's
// own symbol list, scoped to that one file.
func namesByID(symbols []types.Symbol) map[types.SymbolID]string {
	names := make(map[types.SymbolID]string, len(symbols))
	for _, sym := range symbols {
		names[sym.ID] = sym.Name
	}
	return names
}

// endpointNames resolves a relationship's two endpoints to names, falling
// back to the script-scope sentinel for an unbound caller/source and to
// ToUnresolvedName for a callee/target that never resolved to a symbol.
func endpointNames(rel types.Relationship, names map[types.SymbolID]string) (from, to string) {
	from = names[rel.FromSymbol]
	if from == "" {
		from = types.ScriptScopeSentinel
	}
	if rel.Unresolved() {
		to = rel.ToUnresolvedName
	} else {
		to = names[rel.ToSymbol]
	}
	return from, to
}

// callsFromResult filters a ParseResult's relationships down to the call
// graph, shared by every language adapter's FindCalls.
func callsFromResult(res ParseResult) []CallEdge {
	names := namesByID(res.Symbols)
	var out []CallEdge
	for _, rel := range res.Relationships {
		if rel.Kind != types.RelCalls {
			continue
		}
		caller, callee := endpointNames(rel, names)
		out = append(out, CallEdge{Caller: caller, Callee: callee, Range: rel.Range})
	}
	return out
}

// usesFromResult filters a ParseResult's relationships down to Uses
// edges, shared by every adapter's FindUses.
func usesFromResult(res ParseResult) []UseEdge {
	names := namesByID(res.Symbols)
	var out []UseEdge
	for _, rel := range res.Relationships {
		if rel.Kind != types.RelUses {
			continue
		}
		source, target := endpointNames(rel, names)
		out = append(out, UseEdge{Source: source, Target: target, Range: rel.Range})
	}
	return out
}

// implementationsFromResult filters a ParseResult's relationships down to
// extends/implements/trait-impl edges, shared by every adapter's
// FindImplementations.
func implementationsFromResult(res ParseResult) []ImplEdge {
	names := namesByID(res.Symbols)
	var out []ImplEdge
	for _, rel := range res.Relationships {
		if rel.Kind != types.RelExtends && rel.Kind != types.RelImplements {
			continue
		}
		implementor, base := endpointNames(rel, names)
		out = append(out, ImplEdge{Implementor: implementor, Base: base, Range: rel.Range})
	}
	return out
}

// FindCallsFrom runs p.Parse and slices its relationships down to the call
// graph. Every language adapter's FindCalls delegates here so the
// filtering logic lives once instead of once per language.
func FindCallsFrom(p Parser, source []byte) ([]CallEdge, error) {
	res, err := p.Parse(0, "", source)
	if err != nil {
		return nil, err
	}
	return callsFromResult(res), nil
}

// FindUsesFrom runs p.Parse and slices its relationships down to Uses
// edges. Every adapter's FindUses delegates here.
func FindUsesFrom(p Parser, source []byte) ([]UseEdge, error) {
	res, err := p.Parse(0, "", source)
	if err != nil {
		return nil, err
	}
	return usesFromResult(res), nil
}

// FindImplementationsFrom runs p.Parse and slices its relationships down
// to extends/implements edges. Every adapter's FindImplementations
// delegates here.
func FindImplementationsFrom(p Parser, source []byte) ([]ImplEdge, error) {
	res, err := p.Parse(0, "", source)
	if err != nil {
		return nil, err
	}
	return implementationsFromResult(res), nil
}

// FindImportsFrom runs p.Parse and returns just its import list. Every
// adapter's FindImports delegates here.
func FindImportsFrom(p Parser, file types.FileID, source []byte) ([]types.Import, error) {
	res, err := p.Parse(file, "", source)
	if err != nil {
		return nil, err
	}
	return res.Imports, nil
}

// Behavior captures per-language policy that isn't about turning source
// into symbols: how qualified names split, which names are built-ins, and
// similar language-specific knowledge the resolver and inheritance
// resolver consult.
type Behavior interface {
	// SplitQualifiedName splits "pkg.Type.method" style names into parts
	// using the language's own separator ("::" for Rust, "." for Python).
	SplitQualifiedName(name string) []string

	// IsBuiltin reports whether name is a language built-in that should
	// never be treated as an unresolved reference.
	IsBuiltin(name string) bool
}

// LanguageDefinition is the self-contained description of one supported
// language: its identity, its file extensions, and factories for the
// parser/behavior pair the rest of the pipeline uses.
type LanguageDefinition interface {
	ID() types.LanguageID
	Name() string
	Extensions() []string
	IsEnabled(settings *config.Settings) bool
	NewParser() Parser
	NewBehavior() Behavior
}

// Registry maps file extensions and language ids to LanguageDefinitions.
// Registration happens once at startup and is append-only afterward.
type Registry struct {
	mu    sync.RWMutex
	byID  map[types.LanguageID]LanguageDefinition
	byExt map[string]LanguageDefinition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID:  make(map[types.LanguageID]LanguageDefinition),
		byExt: make(map[string]LanguageDefinition),
	}
}

// Register adds def to the registry. First-in wins: a language id that is
// already registered is rejected with an error and nothing of def is
// added; an extension already claimed by another language is skipped and
// reported in the returned error, while def's id and its unclaimed
// extensions are still registered. An existing entry is never replaced,
// and Register never panics.
func (r *Registry) Register(def LanguageDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[def.ID()]; exists {
		return fmt.Errorf("registry: language id %q already registered", def.ID())
	}
	r.byID[def.ID()] = def

	var conflicts []string
	for _, ext := range def.Extensions() {
		key := normalizeExt(ext)
		if _, exists := r.byExt[key]; exists {
			conflicts = append(conflicts, key)
			continue
		}
		r.byExt[key] = def
	}
	if len(conflicts) > 0 {
		return fmt.Errorf("registry: extensions already claimed by another language, skipped: %v", conflicts)
	}
	return nil
}

// Lookup returns the LanguageDefinition for a file extension (with or
// without a leading dot), case-insensitively.
func (r *Registry) Lookup(ext string) (LanguageDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byExt[normalizeExt(ext)]
	return def, ok
}

// LookupByID returns the LanguageDefinition registered under id.
func (r *Registry) LookupByID(id types.LanguageID) (LanguageDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byID[id]
	return def, ok
}

// DefinitionForPath resolves the language for a file path by its
// extension.
func (r *Registry) DefinitionForPath(path string) (LanguageDefinition, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return nil, false
	}
	return r.Lookup(path[i+1:])
}

// Enabled returns the definitions that settings has not explicitly
// disabled.
func (r *Registry) Enabled(settings *config.Settings) []LanguageDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]LanguageDefinition, 0, len(r.byID))
	for _, def := range r.byID {
		if def.IsEnabled(settings) {
			out = append(out, def)
		}
	}
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	return strings.TrimPrefix(ext, ".")
}
