// Package c implements the parser adapter for C, walking tree-sitter-c's
// grammar, where a function definition's name sits inside a
// function_declarator nested under a "declarator" field rather than a
// flat "name" field.
package c

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/langbase"
	"github.com/codeintel/symgraph/internal/lang/tsutil"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

type Definition struct{}

func (Definition) ID() types.LanguageID          { return types.LangC }
func (Definition) Name() string                  { return "C" }
func (Definition) Extensions() []string          { return []string{"c", "h"} }
func (Definition) NewBehavior() registry.Behavior { return Behavior{} }
func (Definition) NewParser() registry.Parser     { return NewParser() }

func (Definition) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled(types.LangC)
}

type Behavior struct{}

func (Behavior) SplitQualifiedName(name string) []string { return []string{name} }

var builtins = map[string]bool{
	"printf": true, "malloc": true, "free": true, "NULL": true, "sizeof": true,
	"int": true, "char": true, "void": true, "size_t": true,
}

func (Behavior) IsBuiltin(name string) bool { return builtins[name] }

type Parser struct {
	ts *sitter.Parser
}

func NewParser() *Parser {
	lang := sitter.NewLanguage(tree_sitter_c.Language())
	return &Parser{ts: langbase.NewParser(lang)}
}

func (p *Parser) Parse(file types.FileID, path string, source []byte) (registry.ParseResult, error) {
	if p.ts == nil {
		return registry.ParseResult{}, nil
	}

	tree := p.ts.Parse(source, nil)
	if tree == nil {
		return registry.ParseResult{}, nil
	}
	defer tree.Close()

	ctx := &langbase.Context{File: file, Language: types.LangC, Source: source, Scope: scope.NewManager()}

	w := langbase.NewWalker(func(ctx *langbase.Context, node *sitter.Node) bool { return true })
	w.On("function_definition", handleFunction)
	w.On("struct_specifier", handleStruct)
	w.On("preproc_include", handleInclude)
	w.On("call_expression", handleCall)

	w.Run(ctx, tree.RootNode())

	return registry.ParseResult{Symbols: ctx.Symbols, Relationships: ctx.Relationships, Imports: ctx.Imports}, nil
}

func (p *Parser) FindCalls(source []byte) ([]registry.CallEdge, error) {
	return registry.FindCallsFrom(p, source)
}

func (p *Parser) FindUses(source []byte) ([]registry.UseEdge, error) {
	return registry.FindUsesFrom(p, source)
}

func (p *Parser) FindImplementations(source []byte) ([]registry.ImplEdge, error) {
	return registry.FindImplementationsFrom(p, source)
}

func (p *Parser) FindImports(file types.FileID, source []byte) ([]types.Import, error) {
	return registry.FindImportsFrom(p, file, source)
}

func handleFunction(ctx *langbase.Context, node *sitter.Node) bool {
	declarator := tsutil.ChildByFieldName(node, "declarator")
	nameNode := functionDeclaratorName(declarator)
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangC,
		Name: name, Kind: types.KindFunction, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

	ctx.Scope.EnterScope(scope.FrameFunction, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		tsutil.Walk(body, func(n *sitter.Node) bool {
			if n.Kind() == "call_expression" {
				handleCall(ctx, n)
			}
			return true
		})
	}
	ctx.Scope.ExitScope()
	return false
}

// functionDeclaratorName unwraps pointer_declarator/function_declarator
// nesting (e.g. "char *foo(...)" wraps function_declarator inside a
// pointer_declarator) down to the plain identifier.
func functionDeclaratorName(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "identifier":
			return node
		case "function_declarator", "pointer_declarator", "parenthesized_declarator":
			node = tsutil.ChildByFieldName(node, "declarator")
		default:
			return nil
		}
	}
	return nil
}

func handleStruct(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangC,
		Name: name, Kind: types.KindStruct, Range: tsutil.Range(node),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)
	return true
}

func handleCall(ctx *langbase.Context, node *sitter.Node) bool {
	fn := tsutil.ChildByFieldName(node, "function")
	name := tsutil.Text(fn, ctx.Source)
	if name == "" {
		return true
	}

	fromSym, _ := ctx.Scope.Current().EnclosingNamedSymbol()
	rel := ctx.Scope.ResolveRelationship(types.RelCalls, fromSym, ctx.File, name, tsutil.Range(node))
	ctx.Relationships = append(ctx.Relationships, rel)
	return true
}

// handleInclude records a #include target, tagging an angle-bracket
// include ("<stdio.h>") with Alias "system" so callers can tell it apart
// from a quoted, project-relative include ("\"util.h\"").
func handleInclude(ctx *langbase.Context, node *sitter.Node) bool {
	pathNode := tsutil.ChildByFieldName(node, "path")
	raw := tsutil.Text(pathNode, ctx.Source)
	if len(raw) < 2 {
		return true
	}
	alias := ""
	if raw[0] == '<' {
		alias = "system"
	}
	path := raw[1 : len(raw)-1]
	if path == "" {
		return true
	}
	ctx.Imports = append(ctx.Imports, types.Import{Path: path, Alias: alias, File: ctx.File, Range: tsutil.Range(node)})
	return true
}
