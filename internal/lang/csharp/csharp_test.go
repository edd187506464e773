package csharp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BaseListSplitsExtendsThenImplements(t *testing.T) {
	src := `
class Animal {}
interface ILoud {}

class Dog : Animal, ILoud {
    void Bark() {
        Console.WriteLine("woof");
    }
}
`
	p := NewParser()
	edges, err := p.FindImplementations([]byte(src))
	require.NoError(t, err)

	var extends, implements bool
	for _, e := range edges {
		switch {
		case e.Implementor == "Dog" && e.Base == "Animal":
			extends = true
		case e.Implementor == "Dog" && e.Base == "ILoud":
			implements = true
		}
	}
	assert.True(t, extends)
	assert.True(t, implements)
}

func TestFindImports_UsingDirectiveWithAlias(t *testing.T) {
	src := `
using Sys = System;
`
	p := NewParser()
	imports, err := p.FindImports(1, []byte(src))
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "System", imports[0].Path)
	assert.Equal(t, "Sys", imports[0].Alias)
}
