// Package csharp implements the parser adapter for C#: class/interface/
// struct/method node-kind dispatch and dotted namespace-qualified name
// splitting.
package csharp

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/langbase"
	"github.com/codeintel/symgraph/internal/lang/tsutil"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

type Definition struct{}

func (Definition) ID() types.LanguageID          { return types.LangCSharp }
func (Definition) Name() string                  { return "C#" }
func (Definition) Extensions() []string          { return []string{"cs"} }
func (Definition) NewBehavior() registry.Behavior { return Behavior{} }
func (Definition) NewParser() registry.Parser     { return NewParser() }

func (Definition) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled(types.LangCSharp)
}

type Behavior struct{}

func (Behavior) SplitQualifiedName(name string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(name); i++ {
		if name[i] == '.' {
			out = append(out, name[start:i])
			start = i + 1
		}
	}
	return append(out, name[start:])
}

var builtins = map[string]bool{
	"string": true, "int": true, "bool": true, "object": true, "void": true,
	"var": true, "List": true, "Dictionary": true, "Task": true,
	"Console": true, "Exception": true, "null": true, "true": true, "false": true,
}

func (Behavior) IsBuiltin(name string) bool { return builtins[name] }

type Parser struct {
	ts *sitter.Parser
}

func NewParser() *Parser {
	lang := sitter.NewLanguage(tree_sitter_csharp.Language())
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

	ctx := &langbase.Context{File: file, Language: types.LangCSharp, Source: source, Scope: scope.NewManager()}

	w := langbase.NewWalker(func(ctx *langbase.Context, node *sitter.Node) bool { return true })
	w.On("namespace_declaration", handleNamespace)
	w.On("class_declaration", handleClass)
	w.On("interface_declaration", handleInterface)
	w.On("struct_declaration", handleStruct)
	w.On("method_declaration", handleMethod)
	w.On("constructor_declaration", handleMethod)
	w.On("using_directive", handleUsing)
	w.On("invocation_expression", handleInvocation)

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

func handleNamespace(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangCSharp,
		Name: name, Kind: types.KindNamespace, Range: tsutil.Range(node),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)
	return true
}

func handleClass(ctx *langbase.Context, node *sitter.Node) bool {
	return declareType(ctx, node, types.KindClass)
}

func handleInterface(ctx *langbase.Context, node *sitter.Node) bool {
	return declareType(ctx, node, types.KindInterface)
}

func handleStruct(ctx *langbase.Context, node *sitter.Node) bool {
	return declareType(ctx, node, types.KindStruct)
}

// declareType handles class/interface/struct declarations: they share the
// same base_list-for-inheritance and declaration_list-for-body shape in
// the C# grammar.
func declareType(ctx *langbase.Context, node *sitter.Node, kind types.SymbolKind) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangCSharp,
		Name: name, Kind: kind, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

	// base_list mixes a single base class with any number of interfaces;
	// the C# grammar does not disambiguate them syntactically, so the
	// first entry is treated as Extends and the rest as Implements,
	// matching conventional C# style of listing the base class first.
	if bases := tsutil.Child(node, "base_list"); bases != nil {
		first := true
		for i := uint(0); i < bases.ChildCount(); i++ {
			c := bases.Child(i)
			if c.Kind() != "identifier" && c.Kind() != "generic_name" {
				continue
			}
			baseName := tsutil.Text(c, ctx.Source)
			relKind := types.RelImplements
			if first {
				relKind = types.RelExtends
				first = false
			}
			rel := ctx.Scope.ResolveRelationship(relKind, id, ctx.File, baseName, tsutil.Range(c))
			ctx.Relationships = append(ctx.Relationships, rel)
		}
	}

	ctx.Scope.EnterScope(scope.FrameClass, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.Child(node, "declaration_list"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "method_declaration", "constructor_declaration":
				handleMethod(ctx, child)
			case "class_declaration":
				handleClass(ctx, child)
			case "interface_declaration":
				handleInterface(ctx, child)
			case "struct_declaration":
				handleStruct(ctx, child)
			}
		}
	}
	ctx.Scope.ExitScope()
	return false
}

func handleMethod(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	parent := ctx.Scope.Current()
	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangCSharp,
		Name: name, Kind: types.KindMethod, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
		Scope:      types.ScopeContext{Kind: types.ScopeContextClass, OwnerName: parent.Name, ParentKind: types.KindClass},
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelClass)

	ctx.Scope.EnterScope(scope.FrameFunction, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		tsutil.Walk(body, func(n *sitter.Node) bool {
			if n.Kind() == "invocation_expression" {
				handleInvocation(ctx, n)
			}
			return true
		})
	}
	ctx.Scope.ExitScope()
	return false
}

func handleInvocation(ctx *langbase.Context, node *sitter.Node) bool {
	fn := tsutil.ChildByFieldName(node, "function")
	if fn == nil {
		return true
	}

	var name string
	switch fn.Kind() {
	case "identifier":
		name = tsutil.Text(fn, ctx.Source)
	case "member_access_expression":
		nameNode := tsutil.ChildByFieldName(fn, "name")
		name = tsutil.Text(nameNode, ctx.Source)
	}
	if name == "" {
		return true
	}

	fromSym, _ := ctx.Scope.Current().EnclosingNamedSymbol()
	rel := ctx.Scope.ResolveRelationship(types.RelCalls, fromSym, ctx.File, name, tsutil.Range(node))
	ctx.Relationships = append(ctx.Relationships, rel)
	return true
}

func handleUsing(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	path := tsutil.Text(nameNode, ctx.Source)
	if path == "" {
		return true
	}

	alias := ""
	if eq := tsutil.Child(node, "name_equals"); eq != nil {
		alias = tsutil.Text(tsutil.ChildByFieldName(eq, "name"), ctx.Source)
	}

	ctx.Imports = append(ctx.Imports, types.Import{
		Path: path, Alias: alias, File: ctx.File, Range: tsutil.Range(node),
	})
	return true
}
