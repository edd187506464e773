// Package cpp implements the parser adapter for C++, reusing C's
// function_definition/declarator-unwrapping shape (internal/lang/c)
// since tree-sitter-cpp's grammar is a superset of tree-sitter-c's for
// these constructs, extended with class_specifier/namespace handling.
package cpp

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/langbase"
	"github.com/codeintel/symgraph/internal/lang/tsutil"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

type Definition struct{}

func (Definition) ID() types.LanguageID          { return types.LangCPP }
func (Definition) Name() string                  { return "C++" }
func (Definition) Extensions() []string          { return []string{"cpp", "cc", "cxx", "hpp", "hh", "hxx"} }
func (Definition) NewBehavior() registry.Behavior { return Behavior{} }
func (Definition) NewParser() registry.Parser     { return NewParser() }

func (Definition) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled(types.LangCPP)
}

type Behavior struct{}

func (Behavior) SplitQualifiedName(name string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(name); i++ {
		if name[i] == ':' && name[i+1] == ':' {
			out = append(out, name[start:i])
			i++
			start = i + 1
		}
	}
	return append(out, name[start:])
}

var builtins = map[string]bool{
	"std": true, "cout": true, "cin": true, "endl": true, "nullptr": true,
	"int": true, "char": true, "void": true, "bool": true, "auto": true,
	"string": true, "vector": true,
}

func (Behavior) IsBuiltin(name string) bool { return builtins[name] }

type Parser struct {
	ts *sitter.Parser
}

func NewParser() *Parser {
	lang := sitter.NewLanguage(tree_sitter_cpp.Language())
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

	ctx := &langbase.Context{File: file, Language: types.LangCPP, Source: source, Scope: scope.NewManager()}

	w := langbase.NewWalker(func(ctx *langbase.Context, node *sitter.Node) bool { return true })
	w.On("function_definition", handleFunction)
	w.On("class_specifier", handleClass)
	w.On("struct_specifier", handleClass)
	w.On("namespace_definition", handleNamespace)
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

	parent := ctx.Scope.Current()
	kind := types.KindFunction
	sc := types.ScopeContext{Kind: types.ScopeContextModule}
	if parent.Kind == scope.FrameClass {
		kind = types.KindMethod
		sc = types.ScopeContext{Kind: types.ScopeContextClass, OwnerName: parent.Name, ParentKind: types.KindClass}
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangCPP,
		Name: name, Kind: kind, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
		Scope:      sc,
	})
	level := scope.LevelModule
	if parent.Kind == scope.FrameClass {
		level = scope.LevelClass
	}
	ctx.Scope.AddSymbol(name, id, level)

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

func functionDeclaratorName(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "identifier", "field_identifier", "qualified_identifier":
			return node
		case "function_declarator", "pointer_declarator", "reference_declarator", "parenthesized_declarator":
			node = tsutil.ChildByFieldName(node, "declarator")
		default:
			return nil
		}
	}
	return nil
}

func handleClass(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	kind := types.KindClass
	if node.Kind() == "struct_specifier" {
		kind = types.KindStruct
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangCPP,
		Name: name, Kind: kind, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

	if bases := tsutil.Child(node, "base_class_clause"); bases != nil {
		for i := uint(0); i < bases.ChildCount(); i++ {
			c := bases.Child(i)
			if c.Kind() != "type_identifier" && c.Kind() != "qualified_identifier" {
				continue
			}
			baseName := tsutil.Text(c, ctx.Source)
			rel := ctx.Scope.ResolveRelationship(types.RelExtends, id, ctx.File, baseName, tsutil.Range(c))
			ctx.Relationships = append(ctx.Relationships, rel)
		}
	}

	ctx.Scope.EnterScope(scope.FrameClass, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.Child(node, "field_declaration_list"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "function_definition":
				handleFunction(ctx, child)
			case "class_specifier", "struct_specifier":
				handleClass(ctx, child)
			}
		}
	}
	ctx.Scope.ExitScope()
	return false
}

func handleNamespace(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}
	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangCPP,
		Name: name, Kind: types.KindNamespace, Range: tsutil.Range(node),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)
	return true
}

func handleCall(ctx *langbase.Context, node *sitter.Node) bool {
	fn := tsutil.ChildByFieldName(node, "function")
	if fn == nil {
		return true
	}
	var name string
	switch fn.Kind() {
	case "identifier", "qualified_identifier":
		name = tsutil.Text(fn, ctx.Source)
	case "field_expression":
		field := tsutil.ChildByFieldName(fn, "field")
		name = tsutil.Text(field, ctx.Source)
	}
	if name == "" {
		return true
	}

	fromSym, _ := ctx.Scope.Current().EnclosingNamedSymbol()
	rel := ctx.Scope.ResolveRelationship(types.RelCalls, fromSym, ctx.File, name, tsutil.Range(node))
	ctx.Relationships = append(ctx.Relationships, rel)
	return true
}

// handleInclude records a #include target, tagging an angle-bracket
// include ("<vector>") with Alias "system" so callers can tell it apart
// from a quoted, project-relative include ("\"util.hpp\"").
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
