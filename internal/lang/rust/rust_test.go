package rust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/types"
)

func symbolNamed(t *testing.T, syms []types.Symbol, name string) types.Symbol {
	t.Helper()
	for _, s := range syms {
		if s.Name == name {
			return s
		}
	}
	require.Failf(t, "symbol not found", "no symbol named %q", name)
	return types.Symbol{}
}

func TestParse_NestedFunctionIsOwnSymbolWithLocalScope(t *testing.T) {
	src := `
fn outer() {
    fn inner() {
        println!("hi");
    }
    inner();
}
`
	p := NewParser()
	result, err := p.Parse(1, "lib.rs", []byte(src))
	require.NoError(t, err)

	outer := symbolNamed(t, result.Symbols, "outer")
	inner := symbolNamed(t, result.Symbols, "inner")

	assert.Equal(t, types.KindFunction, outer.Kind)
	assert.Equal(t, types.KindFunction, inner.Kind)
	assert.Equal(t, types.ScopeContextLocal, inner.Scope.Kind)
	assert.Equal(t, "outer", inner.Scope.ParentName)
	assert.Equal(t, types.KindFunction, inner.Scope.ParentKind)
}

func TestParse_MacroDefinitionEmitsMacroSymbol(t *testing.T) {
	src := `
macro_rules! square {
    ($x:expr) => { $x * $x };
}
`
	p := NewParser()
	result, err := p.Parse(1, "lib.rs", []byte(src))
	require.NoError(t, err)

	sym := symbolNamed(t, result.Symbols, "square")
	assert.Equal(t, types.KindMacro, sym.Kind)
}

func TestFindCalls_UsesScriptSentinelForModuleLevelCall(t *testing.T) {
	src := `
fn helper() {}

helper();
`
	p := NewParser()
	edges, err := p.FindCalls([]byte(src))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, types.ScriptScopeSentinel, edges[0].Caller)
	assert.Equal(t, "helper", edges[0].Callee)
}

func TestFindImplementations_TraitImplEdge(t *testing.T) {
	src := `
trait Drawable {
    fn draw(&self);
}

struct Widget;

impl Drawable for Widget {
    fn draw(&self) {}
}
`
	p := NewParser()
	edges, err := p.FindImplementations([]byte(src))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "Widget", edges[0].Implementor)
	assert.Equal(t, "Drawable", edges[0].Base)
}
