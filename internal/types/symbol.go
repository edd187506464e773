package types

// Position is a 0-based line/column location, matching tree-sitter's own
// point convention so adapters can copy node positions without translation.
type Position struct {
	Line   int
	Column int
}

// Range is a half-open source span.
type Range struct {
	Start Position
	End   Position
}

// SymbolKind enumerates the constructs a parser adapter can emit.
type SymbolKind int

const (
	KindUnknown SymbolKind = iota
	KindFunction
	KindMethod
	KindClass
	KindStruct
	KindInterface
	KindTrait
	KindEnum
	KindEnumMember
	KindField
	KindProperty
	KindConstant
	KindVariable
	KindTypeAlias
	KindModule
	KindNamespace
	KindParameter
	KindConstructor
	KindMacro
)

var symbolKindNames = map[SymbolKind]string{
	KindFunction:    "function",
	KindMethod:      "method",
	KindClass:       "class",
	KindStruct:      "struct",
	KindInterface:   "interface",
	KindTrait:       "trait",
	KindEnum:        "enum",
	KindEnumMember:  "enum_member",
	KindField:       "field",
	KindProperty:    "property",
	KindConstant:    "constant",
	KindVariable:    "variable",
	KindTypeAlias:   "type_alias",
	KindModule:      "module",
	KindNamespace:   "namespace",
	KindParameter:   "parameter",
	KindConstructor: "constructor",
	KindMacro:       "macro",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Visibility is the access level a symbol was declared with, in whichever
// sense its language gives the term.
type Visibility int

const (
	VisibilityUnspecified Visibility = iota
	VisibilityPublic
	VisibilityPrivate
	VisibilityProtected
	VisibilityInternal
	VisibilityPackage
	VisibilityCrate
	VisibilityModule
)

var visibilityNames = map[Visibility]string{
	VisibilityPublic:    "public",
	VisibilityPrivate:   "private",
	VisibilityProtected: "protected",
	VisibilityInternal:  "internal",
	VisibilityPackage:   "package",
	VisibilityCrate:     "crate",
	VisibilityModule:    "module",
}

func (v Visibility) String() string {
	if name, ok := visibilityNames[v]; ok {
		return name
	}
	return "unspecified"
}

// ScopeContextKind tags where a symbol was declared, not where it is used.
type ScopeContextKind int

const (
	ScopeContextModule ScopeContextKind = iota
	ScopeContextClass
	ScopeContextFunction
	ScopeContextLocal
)

// ScopeContext records the declaration site of a symbol. Class and Function
// carry the owner's name; Local additionally tracks the nearest enclosing
// *named* symbol and whether the binding is hoisted (e.g. JS `var`/function
// declarations hoist to the top of their enclosing function).
type ScopeContext struct {
	Kind       ScopeContextKind
	OwnerName  string
	ParentName string
	ParentKind SymbolKind
	Hoisted    bool
}

// ScriptScopeSentinel is the synthetic caller name used for calls made at
// module/script level, outside any named function. It's a plain sentinel
// string rather than a reserved symbol name, so it never collides with a
// real declaration.
const ScriptScopeSentinel = "<script>"

// Symbol is the primary entity of the knowledge graph: a named program
// construct with a source location and declaration-site scope.
type Symbol struct {
	ID       SymbolID
	File     FileID
	Language LanguageID

	Name string
	Kind SymbolKind

	Range Range

	Signature  string // optional, single line, verbatim up to the parameter list
	DocComment string // optional, contiguous comment block immediately preceding

	Visibility Visibility

	Scope ScopeContext

	ParentSymbolID SymbolID // optional, 0 if none
}

// RelationshipKind enumerates the directed edges between symbols.
type RelationshipKind int

const (
	RelCalls RelationshipKind = iota
	RelUses
	RelExtends
	RelImplements
	RelImports
	RelDefines
	RelReferences
)

var relationshipKindNames = map[RelationshipKind]string{
	RelCalls:      "calls",
	RelUses:       "uses",
	RelExtends:    "extends",
	RelImplements: "implements",
	RelImports:    "imports",
	RelDefines:    "defines",
	RelReferences: "references",
}

func (k RelationshipKind) String() string {
	if name, ok := relationshipKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Relationship is a directed edge between symbols. ToSymbol is zero when
// the target could not be resolved (external or dangling); in that case
// ToUnresolvedName carries the raw identifier text.
type Relationship struct {
	Kind RelationshipKind

	FromSymbol SymbolID
	ToSymbol   SymbolID // 0 if unresolved

	ToUnresolvedName string

	Range    Range
	FromFile FileID
}

// Unresolved reports whether the relationship's target was not resolved to
// a known symbol.
func (r Relationship) Unresolved() bool { return r.ToSymbol == 0 }

// Import represents a single import/use/include statement.
type Import struct {
	Path       string
	Alias      string
	IsGlob     bool
	IsTypeOnly bool
	File       FileID
	Range      Range
}
