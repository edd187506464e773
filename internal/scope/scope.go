// Package scope tracks lexical nesting during a single-file parse and
// resolves an identifier seen at some point in the file to the symbol it
// names, narrowest scope first. The model distinguishes a scope *frame*
// (Function/Class/Block/Module, a node kind in the source) from a scope
// *level* (Local/Function/Class/Module/Package/Global, a visibility tier
// used by resolution).
package scope

import "github.com/codeintel/symgraph/internal/types"

// FrameKind is the kind of lexical construct a Frame was opened for.
type FrameKind int

const (
	FrameModule FrameKind = iota
	FrameClass
	FrameFunction
	FrameBlock
)

func (k FrameKind) String() string {
	switch k {
	case FrameModule:
		return "module"
	case FrameClass:
		return "class"
	case FrameFunction:
		return "function"
	case FrameBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Level is the resolution-visibility tier a binding lives at.
type Level int

const (
	LevelLocal Level = iota
	LevelFunction
	LevelClass
	LevelModule
	LevelPackage
	LevelGlobal
)

func (l Level) String() string {
	switch l {
	case LevelLocal:
		return "local"
	case LevelFunction:
		return "function"
	case LevelClass:
		return "class"
	case LevelModule:
		return "module"
	case LevelPackage:
		return "package"
	case LevelGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// binding is one name visible within a Frame, pointing back at the symbol
// it was declared as.
type binding struct {
	symbol types.SymbolID
	level  Level
}

// Frame is one entry in the scope stack: a lexical construct with its own
// name table, plus a position range so callers can ask "what's the
// innermost frame enclosing byte offset N".
type Frame struct {
	Kind     FrameKind
	Name     string
	Start    int
	End      int // -1 while still open
	names    map[string]binding
	parent   *Frame
}

// Manager drives scope discipline for one file's parse: EnterScope on
// every function/class/block node, AddSymbol for every declaration,
// Resolve/ResolveRelationship for every reference, ExitScope on leaving
// the node.
type Manager struct {
	current *Frame
	stack   []*Frame
}

// NewManager creates a Manager with a single open Module frame, named
// after the language's script-scope sentinel.
func NewManager() *Manager {
	module := &Frame{Kind: FrameModule, Name: types.ScriptScopeSentinel, Start: 0, End: -1, names: make(map[string]binding)}
	return &Manager{current: module, stack: []*Frame{module}}
}

// EnterScope pushes a new frame, nested under the current one.
func (m *Manager) EnterScope(kind FrameKind, name string, start, end int) {
	f := &Frame{
		Kind:   kind,
		Name:   name,
		Start:  start,
		End:    end,
		names:  make(map[string]binding),
		parent: m.current,
	}
	m.stack = append(m.stack, f)
	m.current = f
}

// ExitScope pops the current frame. The module frame (the first pushed)
// is never popped by this call; the stack never drops below one frame.
func (m *Manager) ExitScope() {
	if len(m.stack) <= 1 {
		return
	}
	m.stack = m.stack[:len(m.stack)-1]
	m.current = m.stack[len(m.stack)-1]
}

// Current returns the innermost open frame.
func (m *Manager) Current() *Frame { return m.current }

// AddSymbol binds name to id at level within the current frame.
func (m *Manager) AddSymbol(name string, id types.SymbolID, level Level) {
	m.current.names[name] = binding{symbol: id, level: level}
}

// Resolve looks up name starting at the current frame and walking
// outward to the module frame, returning the first binding found.
func (m *Manager) Resolve(name string) (types.SymbolID, bool) {
	for f := m.current; f != nil; f = f.parent {
		if b, ok := f.names[name]; ok {
			return b.symbol, true
		}
	}
	return 0, false
}

// ResolveRelationship builds a Relationship of kind from the current
// scope's enclosing named symbol (fromSymbol, typically a function or
// method) to name, resolving name via Resolve. When name cannot be
// resolved, ToUnresolvedName carries the raw text and ToSymbol is zero.
func (m *Manager) ResolveRelationship(kind types.RelationshipKind, fromSymbol types.SymbolID, fromFile types.FileID, name string, r types.Range) types.Relationship {
	rel := types.Relationship{
		Kind:       kind,
		FromSymbol: fromSymbol,
		FromFile:   fromFile,
		Range:      r,
	}
	if id, ok := m.Resolve(name); ok {
		rel.ToSymbol = id
	} else {
		rel.ToUnresolvedName = name
	}
	return rel
}

// FrameAt returns the innermost frame enclosing byte offset pos, walking
// backward through the stack (most-specific-first, falling back to the
// module frame).
func (m *Manager) FrameAt(pos int) *Frame {
	for i := len(m.stack) - 1; i >= 0; i-- {
		f := m.stack[i]
		if pos >= f.Start && (f.End == -1 || pos <= f.End) {
			return f
		}
	}
	return m.stack[0]
}

// EnclosingNamedSymbol returns the nearest enclosing Function or Class
// frame's bound symbol, or zero if none — used to populate
// Relationship.FromSymbol for a call/use made outside a function (which
// spec's open question resolves to the ScriptScopeSentinel caller).
func (f *Frame) EnclosingNamedSymbol() (types.SymbolID, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.Kind == FrameFunction || cur.Kind == FrameClass {
			if b, ok := cur.names["<self>"]; ok {
				return b.symbol, true
			}
		}
	}
	return 0, false
}

// BindSelf records id as the symbol this frame itself represents, so a
// nested reference can later ask "what function/class am I inside".
func (m *Manager) BindSelf(id types.SymbolID) {
	m.current.names["<self>"] = binding{symbol: id, level: LevelFunction}
}
