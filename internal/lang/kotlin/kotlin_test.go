package kotlin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/types"
)

func TestParse_ClassWithMethodAndSuperclass(t *testing.T) {
	src := `
open class Animal {
    fun speak() {}
}

class Dog : Animal() {
    fun bark() {
        speak()
    }
}
`
	p := NewParser()
	result, err := p.Parse(1, "Animals.kt", []byte(src))
	require.NoError(t, err)

	var bark types.Symbol
	found := false
	for _, s := range result.Symbols {
		if s.Name == "bark" {
			bark = s
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, types.KindMethod, bark.Kind)
	assert.Equal(t, "Dog", bark.Scope.OwnerName)

	var extends, calls bool
	for _, rel := range result.Relationships {
		switch rel.Kind {
		case types.RelExtends:
			extends = true
		case types.RelCalls:
			calls = true
		}
	}
	assert.True(t, extends)
	assert.True(t, calls)
}

func TestFindImports(t *testing.T) {
	src := `
import kotlin.collections.List
`
	p := NewParser()
	imports, err := p.FindImports(1, []byte(src))
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "kotlin.collections.List", imports[0].Path)
}
