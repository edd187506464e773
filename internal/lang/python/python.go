// Package python implements the parser adapter and resolution behavior
// for Python source: import-statement handling, a recursive statement
// walk for nested defs/classes/calls, and dotted-module-path splitting
// for qualified-name resolution.
package python

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/langbase"
	"github.com/codeintel/symgraph/internal/lang/tsutil"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

// Definition registers Python with a registry.Registry.
type Definition struct{}

func (Definition) ID() types.LanguageID    { return types.LangPython }
func (Definition) Name() string            { return "Python" }
func (Definition) Extensions() []string    { return []string{"py", "pyi"} }
func (Definition) NewBehavior() registry.Behavior { return Behavior{} }
func (Definition) NewParser() registry.Parser     { return NewParser() }

func (Definition) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled(types.LangPython)
}

// Behavior implements Python-specific naming and builtin policy.
type Behavior struct{}

func (Behavior) SplitQualifiedName(name string) []string {
	return splitOn(name, '.')
}

var builtins = map[string]bool{
	"len": true, "print": true, "range": true, "str": true, "int": true,
	"float": true, "bool": true, "list": true, "dict": true, "set": true,
	"tuple": true, "type": true, "isinstance": true, "super": true,
	"object": true, "Exception": true, "None": true, "True": true, "False": true,
}

func (Behavior) IsBuiltin(name string) bool { return builtins[name] }

func splitOn(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// Parser implements registry.Parser for Python.
type Parser struct {
	ts *sitter.Parser
}

func NewParser() *Parser {
	lang := sitter.NewLanguage(tree_sitter_python.Language())
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

	ctx := &langbase.Context{File: file, Language: types.LangPython, Source: source, Scope: scope.NewManager()}

	w := langbase.NewWalker(func(ctx *langbase.Context, node *sitter.Node) bool { return true })
	w.On("function_definition", handleFunction)
	w.On("class_definition", handleClass)
	w.On("import_statement", handleImportStatement)
	w.On("import_from_statement", handleImportFromStatement)
	w.On("call", handleCall)

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
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	parentFrame := ctx.Scope.Current()
	kind := types.KindFunction
	sc := types.ScopeContext{Kind: types.ScopeContextModule}
	if parentFrame.Kind == scope.FrameClass {
		kind = types.KindMethod
		sc = types.ScopeContext{Kind: types.ScopeContextClass, OwnerName: parentFrame.Name, ParentKind: types.KindClass}
	} else if parentFrame.Kind == scope.FrameFunction {
		sc = types.ScopeContext{Kind: types.ScopeContextLocal, ParentName: parentFrame.Name, ParentKind: types.KindFunction}
	}

	id := ctx.NextLocal()
	sym := types.Symbol{
		ID: id, File: ctx.File, Language: types.LangPython,
		Name: name, Kind: kind, Range: tsutil.Range(node),
		DocComment: pythonDocstring(node, ctx.Source),
		Scope:      sc,
	}
	ctx.Emit(sym)
	ctx.Scope.AddSymbol(name, id, levelFor(parentFrame.Kind))

	ctx.Scope.EnterScope(scope.FrameFunction, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			walkStatement(ctx, body.Child(i))
		}
	}
	ctx.Scope.ExitScope()
	return false
}

func handleClass(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	sym := types.Symbol{
		ID: id, File: ctx.File, Language: types.LangPython,
		Name: name, Kind: types.KindClass, Range: tsutil.Range(node),
		DocComment: pythonDocstring(node, ctx.Source),
		Scope:      types.ScopeContext{Kind: types.ScopeContextModule},
	}
	ctx.Emit(sym)
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

	if superclasses := tsutil.ChildByFieldName(node, "superclasses"); superclasses != nil {
		for i := uint(0); i < superclasses.ChildCount(); i++ {
			arg := superclasses.Child(i)
			if arg != nil && arg.Kind() == "identifier" {
				baseName := tsutil.Text(arg, ctx.Source)
				rel := ctx.Scope.ResolveRelationship(types.RelExtends, id, ctx.File, baseName, tsutil.Range(arg))
				ctx.Relationships = append(ctx.Relationships, rel)
			}
		}
	}

	ctx.Scope.EnterScope(scope.FrameClass, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "function_definition":
				handleFunction(ctx, child)
			case "class_definition":
				handleClass(ctx, child)
			}
		}
	}
	ctx.Scope.ExitScope()
	return false
}

// walkStatement recurses into a function body looking for nested
// functions/classes and call expressions, without re-entering
// handleFunction's own scope management.
func walkStatement(ctx *langbase.Context, node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "function_definition":
		handleFunction(ctx, node)
		return
	case "class_definition":
		handleClass(ctx, node)
		return
	case "call":
		handleCall(ctx, node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkStatement(ctx, node.Child(i))
	}
}

func handleCall(ctx *langbase.Context, node *sitter.Node) bool {
	fn := tsutil.ChildByFieldName(node, "function")
	if fn == nil {
		return true
	}
	name := calleeName(fn, ctx.Source)
	if name == "" {
		return true
	}

	fromSym, _ := ctx.Scope.Current().EnclosingNamedSymbol()
	rel := ctx.Scope.ResolveRelationship(types.RelCalls, fromSym, ctx.File, name, tsutil.Range(node))
	ctx.Relationships = append(ctx.Relationships, rel)
	return true
}

func calleeName(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "identifier":
		return tsutil.Text(node, source)
	case "attribute":
		attr := tsutil.ChildByFieldName(node, "attribute")
		return tsutil.Text(attr, source)
	default:
		return ""
	}
}

func handleImportStatement(ctx *langbase.Context, node *sitter.Node) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "dotted_name" {
			ctx.Imports = append(ctx.Imports, types.Import{
				Path: tsutil.Text(child, ctx.Source), File: ctx.File, Range: tsutil.Range(node),
			})
		} else if child.Kind() == "aliased_import" {
			name := tsutil.ChildByFieldName(child, "name")
			alias := tsutil.ChildByFieldName(child, "alias")
			ctx.Imports = append(ctx.Imports, types.Import{
				Path: tsutil.Text(name, ctx.Source), Alias: tsutil.Text(alias, ctx.Source),
				File: ctx.File, Range: tsutil.Range(node),
			})
		}
	}
	return true
}

func handleImportFromStatement(ctx *langbase.Context, node *sitter.Node) bool {
	moduleNode := tsutil.ChildByFieldName(node, "module_name")
	module := tsutil.Text(moduleNode, ctx.Source)

	isGlob := false
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == "wildcard_import" {
			isGlob = true
		}
	}

	ctx.Imports = append(ctx.Imports, types.Import{
		Path: module, IsGlob: isGlob, File: ctx.File, Range: tsutil.Range(node),
	})
	return true
}

// pythonDocstring returns a def/class's docstring: the leading string
// expression statement of its body, Python's own doc-comment convention
// (there is no preceding-comment-block convention as in C-family
// languages).
func pythonDocstring(node *sitter.Node, source []byte) string {
	body := tsutil.ChildByFieldName(node, "body")
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}
	str := tsutil.Child(first, "string")
	if str == nil {
		return ""
	}
	return tsutil.Text(str, source)
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
