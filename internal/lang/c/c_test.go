package c

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FunctionAndCall(t *testing.T) {
	src := `
int add(int a, int b) {
    return a + b;
}

int main() {
    return add(1, 2);
}
`
	p := NewParser()
	result, err := p.Parse(1, "main.c", []byte(src))
	require.NoError(t, err)
	require.Len(t, result.Symbols, 2)

	var calls int
	for _, rel := range result.Relationships {
		if rel.Kind.String() == "calls" {
			calls++
		}
	}
	assert.Equal(t, 1, calls)
}

func TestFindImports_SystemVsQuotedInclude(t *testing.T) {
	src := `
#include <stdio.h>
#include "util.h"
`
	p := NewParser()
	imports, err := p.FindImports(1, []byte(src))
	require.NoError(t, err)
	require.Len(t, imports, 2)

	byPath := make(map[string]string, len(imports))
	for _, imp := range imports {
		byPath[imp.Path] = imp.Alias
	}
	assert.Equal(t, "system", byPath["stdio.h"])
	assert.Equal(t, "", byPath["util.h"])
}
