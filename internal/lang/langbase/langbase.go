// Package langbase factors out the parts of a language adapter that are
// identical across all nine languages: a local-symbol counter, the
// scope.Manager lifecycle, and node-kind dispatch over a single
// depth-first walk.
package langbase

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

// Context is threaded through every node handler during one file's walk.
type Context struct {
	File     types.FileID
	Language types.LanguageID
	Source   []byte
	Scope    *scope.Manager

	Symbols       []types.Symbol
	Relationships []types.Relationship
	Imports       []types.Import

	local uint32
}

// NextLocal returns the next per-file local symbol ordinal, stored as a
// SymbolID. The indexer remaps local ordinals to globally unique
// SymbolIDs from its own counter while staging a file (see
// internal/indexer).
func (c *Context) NextLocal() types.SymbolID {
	c.local++
	return types.SymbolID(c.local)
}

// Emit appends sym to the accumulated result and returns its id for
// convenience at the call site (e.g. immediately binding it in scope).
func (c *Context) Emit(sym types.Symbol) types.SymbolID {
	c.Symbols = append(c.Symbols, sym)
	return sym.ID
}

// Handler processes one AST node of a registered kind. Returning false
// tells the walk to skip this node's children (the handler chose to
// recurse itself, e.g. to control scope entry/exit order).
type Handler func(ctx *Context, node *sitter.Node) bool

// Walker drives a single depth-first pass over a parsed tree, dispatching
// each node to the handler registered for its Kind() rather than a
// per-language switch statement.
type Walker struct {
	handlers map[string]Handler
	fallback Handler
}

// NewWalker creates a Walker. fallback (may be nil) runs for node kinds
// with no registered handler and decides whether to keep descending.
func NewWalker(fallback Handler) *Walker {
	return &Walker{handlers: make(map[string]Handler), fallback: fallback}
}

// On registers handler for the given tree-sitter node kind.
func (w *Walker) On(kind string, handler Handler) *Walker {
	w.handlers[kind] = handler
	return w
}

// Run walks node and its descendants, dispatching each to its handler.
func (w *Walker) Run(ctx *Context, node *sitter.Node) {
	if node == nil {
		return
	}

	descend := true
	if h, ok := w.handlers[node.Kind()]; ok {
		descend = h(ctx, node)
	} else if w.fallback != nil {
		descend = w.fallback(ctx, node)
	}

	if !descend {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		w.Run(ctx, node.Child(i))
	}
}

// NewParser builds a go-tree-sitter Parser configured for language, or
// nil if the grammar failed to load — callers treat a nil parser as
// "this language is unavailable in this build" rather than panicking.
func NewParser(language *sitter.Language) *sitter.Parser {
	p := sitter.NewParser()
	if err := p.SetLanguage(language); err != nil {
		return nil
	}
	return p
}
