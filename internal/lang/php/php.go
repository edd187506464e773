// Package php implements the parser adapter for PHP: namespace/use
// extraction, class/interface/trait/method/function dispatch, and
// namespace-qualified name splitting on "\\". PHP's Class::method scoped
// call syntax cannot be resolved purely from lexical scope (the callee
// lives in another type's method table), so this adapter emits the
// qualified name "Type::method" as the relationship's raw target;
// resolving it against the inheritance graph is the indexer/resolution
// stage's job, not the parser's.
package php

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/langbase"
	"github.com/codeintel/symgraph/internal/lang/tsutil"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

type Definition struct{}

func (Definition) ID() types.LanguageID          { return types.LangPHP }
func (Definition) Name() string                  { return "PHP" }
func (Definition) Extensions() []string          { return []string{"php"} }
func (Definition) NewBehavior() registry.Behavior { return Behavior{} }
func (Definition) NewParser() registry.Parser     { return NewParser() }

func (Definition) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled(types.LangPHP)
}

type Behavior struct{}

func (Behavior) SplitQualifiedName(name string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(name); i++ {
		if name[i] == '\\' || (name[i] == ':' && name[i+1] == ':') {
			out = append(out, name[start:i])
			if name[i] == ':' {
				i++
			}
			start = i + 1
		}
	}
	return append(out, name[start:])
}

var builtins = map[string]bool{
	"array": true, "string": true, "int": true, "bool": true, "null": true,
	"echo": true, "print": true, "isset": true, "unset": true, "self": true, "parent": true, "static": true,
}

func (Behavior) IsBuiltin(name string) bool { return builtins[name] }

type Parser struct {
	ts *sitter.Parser
}

func NewParser() *Parser {
	lang := sitter.NewLanguage(tree_sitter_php.LanguagePHP())
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

	ctx := &langbase.Context{File: file, Language: types.LangPHP, Source: source, Scope: scope.NewManager()}

	w := langbase.NewWalker(func(ctx *langbase.Context, node *sitter.Node) bool { return true })
	w.On("function_definition", handleFunction)
	w.On("method_declaration", handleMethod)
	w.On("class_declaration", handleClass)
	w.On("interface_declaration", handleInterface)
	w.On("trait_declaration", handleTrait)
	w.On("namespace_use_declaration", handleUse)
	w.On("function_call_expression", handleCall)
	w.On("scoped_call_expression", handleScopedCall)
	w.On("member_call_expression", handleMemberCall)

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
	return declareFunctionLike(ctx, node, types.KindFunction)
}

func handleMethod(ctx *langbase.Context, node *sitter.Node) bool {
	return declareFunctionLike(ctx, node, types.KindMethod)
}

func declareFunctionLike(ctx *langbase.Context, node *sitter.Node, kind types.SymbolKind) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	parent := ctx.Scope.Current()
	sc := types.ScopeContext{Kind: types.ScopeContextModule}
	if kind == types.KindMethod {
		sc = types.ScopeContext{Kind: types.ScopeContextClass, OwnerName: parent.Name, ParentKind: types.KindClass}
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangPHP,
		Name: name, Kind: kind, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
		Scope:      sc,
	})
	level := scope.LevelModule
	if kind == types.KindMethod {
		level = scope.LevelClass
	}
	ctx.Scope.AddSymbol(name, id, level)

	ctx.Scope.EnterScope(scope.FrameFunction, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		tsutil.Walk(body, func(n *sitter.Node) bool {
			switch n.Kind() {
			case "function_call_expression":
				handleCall(ctx, n)
			case "scoped_call_expression":
				handleScopedCall(ctx, n)
			case "member_call_expression":
				handleMemberCall(ctx, n)
			}
			return true
		})
	}
	ctx.Scope.ExitScope()
	return false
}

func handleClass(ctx *langbase.Context, node *sitter.Node) bool {
	return declareType(ctx, node, types.KindClass)
}

func handleInterface(ctx *langbase.Context, node *sitter.Node) bool {
	return declareType(ctx, node, types.KindInterface)
}

func handleTrait(ctx *langbase.Context, node *sitter.Node) bool {
	return declareType(ctx, node, types.KindTrait)
}

func declareType(ctx *langbase.Context, node *sitter.Node, kind types.SymbolKind) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangPHP,
		Name: name, Kind: kind, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

	if base := tsutil.ChildByFieldName(node, "base_clause"); base != nil {
		emitTypeRefs(ctx, base, id, types.RelExtends)
	}
	if iface := tsutil.ChildByFieldName(node, "interfaces"); iface != nil {
		emitTypeRefs(ctx, iface, id, types.RelImplements)
	}

	ctx.Scope.EnterScope(scope.FrameClass, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "method_declaration":
				handleMethod(ctx, child)
			case "class_declaration":
				handleClass(ctx, child)
			case "interface_declaration":
				handleInterface(ctx, child)
			case "trait_declaration":
				handleTrait(ctx, child)
			}
		}
	}
	ctx.Scope.ExitScope()
	return false
}

func emitTypeRefs(ctx *langbase.Context, listNode *sitter.Node, ownerID types.SymbolID, kind types.RelationshipKind) {
	for i := uint(0); i < listNode.ChildCount(); i++ {
		c := listNode.Child(i)
		if c.Kind() != "name" && c.Kind() != "qualified_name" {
			continue
		}
		baseName := tsutil.Text(c, ctx.Source)
		if baseName == "" {
			continue
		}
		rel := ctx.Scope.ResolveRelationship(kind, ownerID, ctx.File, baseName, tsutil.Range(c))
		ctx.Relationships = append(ctx.Relationships, rel)
	}
}

func handleCall(ctx *langbase.Context, node *sitter.Node) bool {
	fn := tsutil.ChildByFieldName(node, "function")
	name := tsutil.Text(fn, ctx.Source)
	if name == "" {
		return true
	}
	emitCallRelationship(ctx, node, name)
	return true
}

// handleScopedCall implements the PHP qualified-call scenario:
// Database::connect(...) is recorded with raw target "Database::connect"
// so the resolution stage can look it up in the inheritance graph's
// method table.
func handleScopedCall(ctx *langbase.Context, node *sitter.Node) bool {
	class := tsutil.ChildByFieldName(node, "scope")
	name := tsutil.ChildByFieldName(node, "name")
	className := tsutil.Text(class, ctx.Source)
	methodName := tsutil.Text(name, ctx.Source)
	if className == "" || methodName == "" {
		return true
	}
	emitCallRelationship(ctx, node, className+"::"+methodName)
	return true
}

func handleMemberCall(ctx *langbase.Context, node *sitter.Node) bool {
	name := tsutil.ChildByFieldName(node, "name")
	methodName := tsutil.Text(name, ctx.Source)
	if methodName == "" {
		return true
	}
	emitCallRelationship(ctx, node, methodName)
	return true
}

func emitCallRelationship(ctx *langbase.Context, node *sitter.Node, name string) {
	fromSym, _ := ctx.Scope.Current().EnclosingNamedSymbol()
	rel := ctx.Scope.ResolveRelationship(types.RelCalls, fromSym, ctx.File, name, tsutil.Range(node))
	ctx.Relationships = append(ctx.Relationships, rel)
}

func handleUse(ctx *langbase.Context, node *sitter.Node) bool {
	tsutil.Walk(node, func(n *sitter.Node) bool {
		if n.Kind() == "namespace_name" || n.Kind() == "qualified_name" {
			path := tsutil.Text(n, ctx.Source)
			if path != "" {
				ctx.Imports = append(ctx.Imports, types.Import{Path: path, File: ctx.File, Range: tsutil.Range(node)})
			}
			return false
		}
		return true
	})
	return true
}
