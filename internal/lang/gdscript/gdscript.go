// Package gdscript implements the parser adapter for Godot's GDScript:
// function/class declaration dispatch plus call-expression resolution,
// with two GDScript-specific rules: a preload("res://...") call is an
// import of that resource path, and a signal emission through
// emit_signal("name", ...) is a call to the signal named by its string
// literal argument rather than to emit_signal. For an emit(...) call the
// signal is likewise taken only from a string literal argument; the
// receiver x of x.emit(...) is not used as the signal name.
package gdscript

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_gdscript "github.com/tree-sitter-grammars/tree-sitter-gdscript/bindings/go"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/langbase"
	"github.com/codeintel/symgraph/internal/lang/tsutil"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

type Definition struct{}

func (Definition) ID() types.LanguageID          { return types.LangGDScript }
func (Definition) Name() string                  { return "GDScript" }
func (Definition) Extensions() []string          { return []string{"gd"} }
func (Definition) NewBehavior() registry.Behavior { return Behavior{} }
func (Definition) NewParser() registry.Parser     { return NewParser() }

func (Definition) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled(types.LangGDScript)
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
	"Node": true, "Node2D": true, "Node3D": true, "Vector2": true, "Vector3": true,
	"print": true, "self": true, "null": true, "true": true, "false": true,
	"preload": true, "load": true, "emit_signal": true,
}

func (Behavior) IsBuiltin(name string) bool { return builtins[name] }

type Parser struct {
	ts *sitter.Parser
}

func NewParser() *Parser {
	lang := sitter.NewLanguage(tree_sitter_gdscript.Language())
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

	ctx := &langbase.Context{File: file, Language: types.LangGDScript, Source: source, Scope: scope.NewManager()}

	w := langbase.NewWalker(func(ctx *langbase.Context, node *sitter.Node) bool { return true })
	w.On("function_definition", handleFunction)
	w.On("class_definition", handleClass)
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

	parent := ctx.Scope.Current()
	kind := types.KindFunction
	sc := types.ScopeContext{Kind: types.ScopeContextModule}
	if parent.Kind == scope.FrameClass {
		kind = types.KindMethod
		sc = types.ScopeContext{Kind: types.ScopeContextClass, OwnerName: parent.Name, ParentKind: types.KindClass}
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangGDScript,
		Name: name, Kind: kind, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "comment"),
		Scope:      sc,
	})
	ctx.Scope.AddSymbol(name, id, levelFor(parent.Kind))

	ctx.Scope.EnterScope(scope.FrameFunction, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		tsutil.Walk(body, func(n *sitter.Node) bool {
			if n.Kind() == "call" {
				handleCall(ctx, n)
			}
			return true
		})
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
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangGDScript,
		Name: name, Kind: types.KindClass, Range: tsutil.Range(node),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

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

// handleCall implements the GDScript call rules: preload(...) and
// load(...) with a string literal argument are recorded as an import of
// that resource path and never as a call; emit_signal(...) and emit(...)
// with a string literal argument are recorded as a Calls relationship to
// the signal the literal names; every other call is a Calls relationship
// to the callee name.
func handleCall(ctx *langbase.Context, node *sitter.Node) bool {
	fn := tsutil.ChildByFieldName(node, "function")
	if fn == nil {
		fn = tsutil.Child(node, "identifier")
	}
	if fn == nil {
		return true
	}

	name := calleeName(fn, ctx.Source)
	if name == "" {
		return true
	}

	if name == "preload" || name == "load" {
		if args := tsutil.ChildByFieldName(node, "arguments"); args != nil {
			if str := tsutil.Child(args, "string"); str != nil {
				path := tsutil.Text(str, ctx.Source)
				if len(path) >= 2 {
					path = path[1 : len(path)-1]
				}
				ctx.Imports = append(ctx.Imports, types.Import{Path: path, File: ctx.File, Range: tsutil.Range(node)})
			}
		}
		return true
	}

	target := name
	if name == "emit_signal" || name == "emit" {
		if args := tsutil.ChildByFieldName(node, "arguments"); args != nil {
			if str := tsutil.Child(args, "string"); str != nil {
				signal := tsutil.Text(str, ctx.Source)
				if len(signal) >= 2 {
					target = signal[1 : len(signal)-1]
				}
			}
		}
	}

	fromSym, _ := ctx.Scope.Current().EnclosingNamedSymbol()
	rel := ctx.Scope.ResolveRelationship(types.RelCalls, fromSym, ctx.File, target, tsutil.Range(node))
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
