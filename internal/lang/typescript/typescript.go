// Package typescript implements the parser adapter for TypeScript/TSX:
// arrow-function-as-variable naming, JSX element handling, and
// dotted-qualified-name splitting. Plain JavaScript is out of scope.
package typescript

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/langbase"
	"github.com/codeintel/symgraph/internal/lang/tsutil"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

type Definition struct{}

func (Definition) ID() types.LanguageID          { return types.LangTypeScript }
func (Definition) Name() string                  { return "TypeScript" }
func (Definition) Extensions() []string          { return []string{"ts", "tsx", "mts", "cts"} }
func (Definition) NewBehavior() registry.Behavior { return Behavior{} }
func (Definition) NewParser() registry.Parser     { return NewParser() }

func (Definition) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled(types.LangTypeScript)
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
	"console": true, "Array": true, "Object": true, "Promise": true,
	"String": true, "Number": true, "Boolean": true, "Map": true, "Set": true,
	"Error": true, "undefined": true, "null": true,
}

func (Behavior) IsBuiltin(name string) bool { return builtins[name] }

// Parser parses .ts/.tsx using the typescript or tsx grammar variant
// depending on extension.
type Parser struct {
	tsGrammar  *sitter.Parser
	tsxGrammar *sitter.Parser
}

func NewParser() *Parser {
	tsLang := sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	tsxLang := sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	return &Parser{
		tsGrammar:  langbase.NewParser(tsLang),
		tsxGrammar: langbase.NewParser(tsxLang),
	}
}

func (p *Parser) Parse(file types.FileID, path string, source []byte) (registry.ParseResult, error) {
	parser := p.tsGrammar
	if hasSuffix(path, ".tsx") {
		parser = p.tsxGrammar
	}
	if parser == nil {
		return registry.ParseResult{}, nil
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return registry.ParseResult{}, nil
	}
	defer tree.Close()

	ctx := &langbase.Context{File: file, Language: types.LangTypeScript, Source: source, Scope: scope.NewManager()}
	walkNode(ctx, tree.RootNode())

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

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func walkNode(ctx *langbase.Context, node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "function_declaration":
		handleFunction(ctx, node, tsutil.ChildByFieldName(node, "name"))
		return
	case "variable_declarator":
		if handleVariableDeclarator(ctx, node) {
			return
		}
	case "class_declaration":
		handleClass(ctx, node)
		return
	case "interface_declaration":
		handleInterface(ctx, node)
		return
	case "method_definition":
		handleMethod(ctx, node)
		return
	case "call_expression":
		handleCall(ctx, node)
	case "import_statement":
		handleImport(ctx, node)
	case "jsx_element", "jsx_self_closing_element":
		handleJSXUse(ctx, node)
	case "statement_block":
		ctx.Scope.EnterScope(scope.FrameBlock, "", int(node.StartByte()), int(node.EndByte()))
		for i := uint(0); i < node.ChildCount(); i++ {
			walkNode(ctx, node.Child(i))
		}
		ctx.Scope.ExitScope()
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkNode(ctx, node.Child(i))
	}
}

func handleFunction(ctx *langbase.Context, node, nameNode *sitter.Node) {
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangTypeScript,
		Name: name, Kind: types.KindFunction, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

	ctx.Scope.EnterScope(scope.FrameFunction, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			walkNode(ctx, body.Child(i))
		}
	}
	ctx.Scope.ExitScope()
}

// handleVariableDeclarator reports whether it consumed node itself
// (true) because its value was a function expression/arrow function,
// which is named after the variable it is assigned to rather than left
// anonymous. A plain variable returns false so the generic walk continues
// into its children.
func handleVariableDeclarator(ctx *langbase.Context, node *sitter.Node) bool {
	value := tsutil.ChildByFieldName(node, "value")
	if value == nil {
		return false
	}
	if value.Kind() != "arrow_function" && value.Kind() != "function_expression" {
		return false
	}

	nameNode := tsutil.ChildByFieldName(node, "name")
	handleFunction(ctx, value, nameNode)
	return true
}

func handleClass(ctx *langbase.Context, node *sitter.Node) {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangTypeScript,
		Name: name, Kind: types.KindClass, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

	if heritage := tsutil.Child(node, "class_heritage"); heritage != nil {
		tsutil_walkExtends(ctx, heritage, id)
	}

	ctx.Scope.EnterScope(scope.FrameClass, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			walkNode(ctx, body.Child(i))
		}
	}
	ctx.Scope.ExitScope()
}

func tsutil_walkExtends(ctx *langbase.Context, heritage *sitter.Node, classID types.SymbolID) {
	for i := uint(0); i < heritage.ChildCount(); i++ {
		c := heritage.Child(i)
		if c.Kind() == "extends_clause" {
			for j := uint(0); j < c.ChildCount(); j++ {
				id := c.Child(j)
				if id.Kind() == "identifier" {
					name := tsutil.Text(id, ctx.Source)
					rel := ctx.Scope.ResolveRelationship(types.RelExtends, classID, ctx.File, name, tsutil.Range(id))
					ctx.Relationships = append(ctx.Relationships, rel)
				}
			}
		}
	}
}

func handleInterface(ctx *langbase.Context, node *sitter.Node) {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return
	}
	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangTypeScript,
		Name: name, Kind: types.KindInterface, Range: tsutil.Range(node),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)
}

func handleMethod(ctx *langbase.Context, node *sitter.Node) {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return
	}

	parent := ctx.Scope.Current()
	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangTypeScript,
		Name: name, Kind: types.KindMethod, Range: tsutil.Range(node),
		Scope: types.ScopeContext{Kind: types.ScopeContextClass, OwnerName: parent.Name, ParentKind: types.KindClass},
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelClass)

	ctx.Scope.EnterScope(scope.FrameFunction, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			walkNode(ctx, body.Child(i))
		}
	}
	ctx.Scope.ExitScope()
}

func handleCall(ctx *langbase.Context, node *sitter.Node) {
	fn := tsutil.ChildByFieldName(node, "function")
	if fn == nil {
		return
	}
	var name string
	switch fn.Kind() {
	case "identifier":
		name = tsutil.Text(fn, ctx.Source)
	case "member_expression":
		prop := tsutil.ChildByFieldName(fn, "property")
		name = tsutil.Text(prop, ctx.Source)
	}
	if name == "" {
		return
	}

	fromSym, _ := ctx.Scope.Current().EnclosingNamedSymbol()
	rel := ctx.Scope.ResolveRelationship(types.RelCalls, fromSym, ctx.File, name, tsutil.Range(node))
	ctx.Relationships = append(ctx.Relationships, rel)
}

// handleJSXUse records a Uses relationship for a JSX element's tag name
// only when it is capitalized: a lowercase tag ("div", "span") is a
// host/intrinsic element, never a project symbol, so it is never
// recorded as a reference.
func handleJSXUse(ctx *langbase.Context, node *sitter.Node) {
	var opening *sitter.Node
	if node.Kind() == "jsx_self_closing_element" {
		opening = node
	} else {
		opening = tsutil.Child(node, "jsx_opening_element")
	}
	if opening == nil {
		return
	}
	nameNode := tsutil.ChildByFieldName(opening, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" || !isCapitalized(name) {
		return
	}

	fromSym, _ := ctx.Scope.Current().EnclosingNamedSymbol()
	rel := ctx.Scope.ResolveRelationship(types.RelUses, fromSym, ctx.File, name, tsutil.Range(opening))
	ctx.Relationships = append(ctx.Relationships, rel)
}

func isCapitalized(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

func handleImport(ctx *langbase.Context, node *sitter.Node) {
	source := tsutil.Child(node, "string")
	path := tsutil.Text(source, ctx.Source)
	if len(path) >= 2 {
		path = path[1 : len(path)-1]
	}
	if path == "" {
		return
	}

	isTypeOnly := false
	for i := uint(0); i < node.ChildCount(); i++ {
		c := node.Child(i)
		if c.Kind() == "type" {
			isTypeOnly = true
		}
	}

	ctx.Imports = append(ctx.Imports, types.Import{
		Path: path, IsTypeOnly: isTypeOnly, File: ctx.File, Range: tsutil.Range(node),
	})
}
