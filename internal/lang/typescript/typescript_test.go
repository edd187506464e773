package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/types"
)

func TestParse_ArrowFunctionNamedAfterVariable(t *testing.T) {
	src := `
const add = (a: number, b: number) => {
    return a + b;
};
`
	p := NewParser()
	result, err := p.Parse(1, "math.ts", []byte(src))
	require.NoError(t, err)

	require.Len(t, result.Symbols, 1)
	assert.Equal(t, "add", result.Symbols[0].Name)
	assert.Equal(t, types.KindFunction, result.Symbols[0].Kind)
}

func TestParse_JSXCapitalizedElementIsUseLowercaseIsNot(t *testing.T) {
	src := `
function Page() {
    return <div><Header title="hi" /></div>;
}
`
	p := NewParser()
	result, err := p.Parse(1, "page.tsx", []byte(src))
	require.NoError(t, err)

	var targets []string
	for _, rel := range result.Relationships {
		if rel.Kind == types.RelUses {
			targets = append(targets, rel.ToUnresolvedName)
		}
	}
	assert.Contains(t, targets, "Header")
	assert.NotContains(t, targets, "div")
}

func TestFindCalls_MethodCallInsideClass(t *testing.T) {
	src := `
class Greeter {
    greet() {
        console.log("hi");
    }
}
`
	p := NewParser()
	edges, err := p.FindCalls([]byte(src))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "greet", edges[0].Caller)
	assert.Equal(t, "log", edges[0].Callee)
}
