// Package rust implements the parser adapter for Rust, walking
// tree-sitter-rust's item grammar (function_item/struct_item/impl_item/
// trait_item/macro_definition). impl Trait for Type blocks are recorded
// as an Implements relationship from Type to Trait; resolving which
// methods came from the trait impl versus an inherent impl is the
// inheritance graph's job downstream (internal/inheritance.ResolveMethodTrait),
// not this parser's.
package rust

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/lang/langbase"
	"github.com/codeintel/symgraph/internal/lang/tsutil"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/scope"
	"github.com/codeintel/symgraph/internal/types"
)

type Definition struct{}

func (Definition) ID() types.LanguageID          { return types.LangRust }
func (Definition) Name() string                  { return "Rust" }
func (Definition) Extensions() []string          { return []string{"rs"} }
func (Definition) NewBehavior() registry.Behavior { return Behavior{} }
func (Definition) NewParser() registry.Parser     { return NewParser() }

func (Definition) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled(types.LangRust)
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
	"String": true, "Vec": true, "Option": true, "Result": true, "Box": true,
	"println": true, "panic": true, "format": true, "self": true, "Self": true,
	"true": true, "false": true, "None": true, "Some": true, "Ok": true, "Err": true,
}

func (Behavior) IsBuiltin(name string) bool { return builtins[name] }

type Parser struct {
	ts *sitter.Parser
}

func NewParser() *Parser {
	lang := sitter.NewLanguage(tree_sitter_rust.Language())
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

	ctx := &langbase.Context{File: file, Language: types.LangRust, Source: source, Scope: scope.NewManager()}

	w := langbase.NewWalker(func(ctx *langbase.Context, node *sitter.Node) bool { return true })
	w.On("function_item", handleFunction)
	w.On("struct_item", handleStruct)
	w.On("trait_item", handleTrait)
	w.On("impl_item", handleImpl)
	w.On("use_declaration", handleUse)
	w.On("call_expression", handleCall)
	w.On("macro_definition", handleMacro)

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

// handleMacro records a macro_rules! definition as a Macro symbol at
// module scope.
func handleMacro(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangRust,
		Name: name, Kind: types.KindMacro, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "line_comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)
	return false
}

// handleFunction covers both module-level fn and fn nested inside
// another fn's body — the nested-symbols scenario: a nested fn is
// still emitted as its own top-level symbol with
// scope_context = Local{parent_name, parent_kind}.
func handleFunction(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	parent := ctx.Scope.Current()
	sc := types.ScopeContext{Kind: types.ScopeContextModule}
	kind := types.KindFunction
	switch parent.Kind {
	case scope.FrameClass:
		kind = types.KindMethod
		sc = types.ScopeContext{Kind: types.ScopeContextClass, OwnerName: parent.Name, ParentKind: types.KindClass}
	case scope.FrameFunction:
		sc = types.ScopeContext{Kind: types.ScopeContextLocal, ParentName: parent.Name, ParentKind: types.KindFunction}
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangRust,
		Name: name, Kind: kind, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "line_comment"),
		Scope:      sc,
	})
	level := scope.LevelFunction
	if parent.Kind == scope.FrameModule {
		level = scope.LevelModule
	} else if parent.Kind == scope.FrameClass {
		level = scope.LevelClass
	}
	ctx.Scope.AddSymbol(name, id, level)

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

func walkStatement(ctx *langbase.Context, node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "function_item":
		handleFunction(ctx, node)
		return
	case "struct_item":
		handleStruct(ctx, node)
		return
	case "call_expression":
		handleCall(ctx, node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkStatement(ctx, node.Child(i))
	}
}

func handleStruct(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangRust,
		Name: name, Kind: types.KindStruct, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "line_comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)
	return true
}

func handleTrait(ctx *langbase.Context, node *sitter.Node) bool {
	nameNode := tsutil.ChildByFieldName(node, "name")
	name := tsutil.Text(nameNode, ctx.Source)
	if name == "" {
		return true
	}

	id := ctx.NextLocal()
	ctx.Emit(types.Symbol{
		ID: id, File: ctx.File, Language: types.LangRust,
		Name: name, Kind: types.KindTrait, Range: tsutil.Range(node),
		DocComment: tsutil.PrecedingDocComment(node, ctx.Source, "line_comment"),
	})
	ctx.Scope.AddSymbol(name, id, scope.LevelModule)

	ctx.Scope.EnterScope(scope.FrameClass, name, int(node.StartByte()), int(node.EndByte()))
	ctx.Scope.BindSelf(id)
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			if c := body.Child(i); c.Kind() == "function_item" || c.Kind() == "function_signature_item" {
				handleFunction(ctx, c)
			}
		}
	}
	ctx.Scope.ExitScope()
	return false
}

// handleImpl covers both inherent impls (impl Type) and trait impls
// (impl Trait for Type); the latter emits an Implements relationship
// from Type to Trait, letting the inheritance graph later distinguish
// trait-provided methods from inherent ones.
func handleImpl(ctx *langbase.Context, node *sitter.Node) bool {
	typeNode := tsutil.ChildByFieldName(node, "type")
	typeName := tsutil.Text(typeNode, ctx.Source)
	if typeName == "" {
		return true
	}

	traitNode := tsutil.ChildByFieldName(node, "trait")
	traitName := ""
	if traitNode != nil {
		traitName = tsutil.Text(traitNode, ctx.Source)
	}

	typeID, hasType := ctx.Scope.Resolve(typeName)

	if traitName != "" && hasType {
		rel := ctx.Scope.ResolveRelationship(types.RelImplements, typeID, ctx.File, traitName, tsutil.Range(node))
		ctx.Relationships = append(ctx.Relationships, rel)
	}

	ctx.Scope.EnterScope(scope.FrameClass, typeName, int(node.StartByte()), int(node.EndByte()))
	if hasType {
		ctx.Scope.BindSelf(typeID)
	}
	if body := tsutil.ChildByFieldName(node, "body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			if c := body.Child(i); c.Kind() == "function_item" {
				handleFunction(ctx, c)
			}
		}
	}
	ctx.Scope.ExitScope()
	return false
}

func handleCall(ctx *langbase.Context, node *sitter.Node) bool {
	fn := tsutil.ChildByFieldName(node, "function")
	if fn == nil {
		return true
	}

	var name string
	switch fn.Kind() {
	case "identifier":
		name = tsutil.Text(fn, ctx.Source)
	case "field_expression":
		field := tsutil.ChildByFieldName(fn, "field")
		name = tsutil.Text(field, ctx.Source)
	case "scoped_identifier":
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

func handleUse(ctx *langbase.Context, node *sitter.Node) bool {
	argNode := tsutil.ChildByFieldName(node, "argument")
	path := tsutil.Text(argNode, ctx.Source)
	if path == "" {
		return true
	}
	ctx.Imports = append(ctx.Imports, types.Import{Path: path, File: ctx.File, Range: tsutil.Range(node)})
	return true
}
