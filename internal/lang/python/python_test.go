package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/types"
)

func TestParse_ClassWithSuperclassAndMethod(t *testing.T) {
	src := `
class Animal:
    def speak(self):
        pass

class Dog(Animal):
    def bark(self):
        pass
`
	p := NewParser()
	result, err := p.Parse(1, "animals.py", []byte(src))
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

	var extends bool
	for _, rel := range result.Relationships {
		if rel.Kind == types.RelExtends {
			extends = true
		}
	}
	assert.True(t, extends)
}

func TestParse_ImportFromWildcard(t *testing.T) {
	src := `
from os.path import *
`
	p := NewParser()
	result, err := p.Parse(1, "mod.py", []byte(src))
	require.NoError(t, err)
	require.Len(t, result.Imports, 1)
	assert.Equal(t, "os.path", result.Imports[0].Path)
	assert.True(t, result.Imports[0].IsGlob)
}

func TestParse_NestedFunctionGetsLocalScope(t *testing.T) {
	src := `
def outer():
    def inner():
        pass
    inner()
`
	p := NewParser()
	result, err := p.Parse(1, "mod.py", []byte(src))
	require.NoError(t, err)

	var inner types.Symbol
	found := false
	for _, s := range result.Symbols {
		if s.Name == "inner" {
			inner = s
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, types.ScopeContextLocal, inner.Scope.Kind)
	assert.Equal(t, "outer", inner.Scope.ParentName)
}
