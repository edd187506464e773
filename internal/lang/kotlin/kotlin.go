// Package kotlin implements the parser adapter for Kotlin: class/function
// declaration dispatch and qualified-call resolution over
// tree-sitter-kotlin's own field names.
package kotlin

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/langbase"
	"github.com/codeintel/symgraph/internal/lang/tsutil"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

type Definition struct{}

func (Definition) ID() types.LanguageID          { return types.LangKotlin }
func (Definition) Name() string                  { return "Kotlin" }
func (Definition) Extensions() []string          { return []string{"kt", "kts"} }
func (Definition) NewBehavior() registry.Behavior { return Behavior{} }
func (Definition) NewParser() registry.Parser     { return NewParser() }

func (Definition) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled(types.LangKotlin)
}

type Behavior struct{}

func (Behavior) SplitQualifiedName(name string) []string {
	var out []string
	start := 0
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			out = append(out, name[start:i])
			start = i + 1
		}
	}
	return append(out, name[start:])
}

var builtins = map[string]bool{
	"String": true, "Int": true, "Boolean": true, "List": true, "Map": true,
	"println": true, "null": true, "true": true, "false": true, "Unit": true, "Any": true,
}

func (Behavior) IsBuiltin(name string) bool { return builtins[name] }

type Parser struct {
	ts *sitter.Parser
}

func NewParser() *Parser {
	lang := sitter.NewLanguage(tree_sitter_kotlin.Language())
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

	ctx := &langbase.Context{File: file, Language: types.LangKotlin, Source: source, Scope: scope.NewManager()}

	w := langbase.NewWalker(func(ctx *langbase.Context, node *sitter.Node) bool { return true })
	w.On("class_declaration", handleClass)
	w.On("object_declaration", handleClass)
	w.On("function_declaration", handleFunction)
	w.On("import_header", handleImport)
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

func handleClass(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	if nameNode == nil {
		nameNode = tsutil.Child(node, "type_identifier")
	}
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangKotlin,
		Name: name, Kind: types.KindClass, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

	if delegations := tsutil.Child(node, "delegation_specifiers"); delegations != nil {
		for i := uint(0); i < delegations.ChildCount(); i++ {
			spec := delegations.Child(i)
			var identNode *sitter.Node
			switch spec.Kind() {
			case "delegation_specifier", "constructor_invocation", "explicit_delegation":
				identNode = tsutil.Child(spec, "user_type")
				if identNode == nil {
					identNode = tsutil.Child(spec, "type_identifier")
				}
			case "user_type", "type_identifier":
				identNode = spec
			}
			if identNode == nil {
				continue
			}
			baseName := tsutil.Text(identNode, ctx.Source)
			if baseName == "" {
				continue
			}
			rel := ctx.Scope.ResolveRelationship(types.RelExtends, id, ctx.File, baseName, tsutil.Range(identNode))
			ctx.Relationships = append(ctx.Relationships, rel)
		}
	}

	ctx.Scope.EnterScope(scope.FrameClass, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.Child(node, "class_body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "function_declaration":
				handleFunction(ctx, child)
			case "class_declaration", "object_declaration":
				handleClass(ctx, child)
			}
		}
	}
	ctx.Scope.ExitScope()
	return false
}

func handleFunction(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	if nameNode == nil {
		nameNode = tsutil.Child(node, "simple_identifier")
	}
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	parent := ctx.Scope.Current()
	kind := types.KindFunction
	sc := types.ScopeContext{Kind: types.ScopeContextModule}
	if parent.Kind == scope.FrameClass {
		kind = types.KindMethod
		sc = types.ScopeContext{Kind: types.ScopeContextClass, OwnerName: parent.Name, ParentKind: types.KindClass}
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangKotlin,
		Name: name, Kind: kind, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
		Scope:      sc,
	})
	ctx.Scope.AddSymbol(name, id, levelFor(parent.Kind))

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

func handleCall(ctx *langbase.Context, node *sitter.Node) bool {
	fn := tsutil.Child(node, "simple_identifier")
	if fn == nil {
		if nav := tsutil.Child(node, "navigation_expression"); nav != nil {
			suffix := tsutil.Child(nav, "navigation_suffix")
			fn = tsutil.Child(suffix, "simple_identifier")
		}
	}
	name := tsutil.Text(fn, ctx.Source)
	if name == "" {
		return true
	}

	fromSym, _ := ctx.Scope.Current().EnclosingNamedSymbol()
	rel := ctx.Scope.ResolveRelationship(types.RelCalls, fromSym, ctx.File, name, tsutil.Range(node))
	ctx.Relationships = append(ctx.Relationships, rel)
	return true
}

func handleImport(ctx *langbase.Context, node *sitter.Node) bool {
	id := tsutil.Child(node, "identifier")
	path := tsutil.Text(id, ctx.Source)
	if path == "" {
		return true
	}
	ctx.Imports = append(ctx.Imports, types.Import{Path: path, File: ctx.File, Range: tsutil.Range(node)})
	return true
}

func levelFor(frameKind scope.FrameKind) scope.Level {
	switch frameKind {
	case scope.FrameModule:
		return scope.LevelModule
	case scope.FrameClass:
		return scope.LevelClass
	default:
		return scope.LevelFunction
	}
}
