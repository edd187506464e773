package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/types"
)

func TestParse_ClassWithBaseAndMethod(t *testing.T) {
	src := `
class Animal {
public:
    void speak() {}
};

class Dog : public Animal {
public:
    void bark() {}
};
`
	p := NewParser()
	result, err := p.Parse(1, "animals.cpp", []byte(src))
	require.NoError(t, err)

	var dog types.Symbol
	found := false
	for _, s := range result.Symbols {
		if s.Name == "Dog" {
			dog = s
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, types.KindClass, dog.Kind)

	var extends bool
	for _, rel := range result.Relationships {
		if rel.Kind == types.RelExtends {
			extends = true
		}
	}
	assert.True(t, extends)
}

func TestFindImports_SystemVsQuotedInclude(t *testing.T) {
	src := `
#include <vector>
#include "widget.hpp"
`
	p := NewParser()
	imports, err := p.FindImports(1, []byte(src))
	require.NoError(t, err)
	require.Len(t, imports, 2)

	byPath := make(map[string]string, len(imports))
	for _, imp := range imports {
		byPath[imp.Path] = imp.Alias
	}
	assert.Equal(t, "system", byPath["vector"])
	assert.Equal(t, "", byPath["widget.hpp"])
}
