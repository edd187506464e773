package inheritance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/intern"
)

func newGraph() *Graph { return NewGraph(intern.NewTable()) }

func TestIsSubtype_Direct(t *testing.T) {
	g := newGraph()
	g.AddEdge("Dog", "Animal", EdgeExtends)
	assert.True(t, g.IsSubtype("Dog", "Animal"))
	assert.True(t, g.IsSubtype("Dog", "Dog"))
	assert.False(t, g.IsSubtype("Animal", "Dog"))
}

func TestIsSubtype_Transitive(t *testing.T) {
	g := newGraph()
	g.AddEdge("Poodle", "Dog", EdgeExtends)
	g.AddEdge("Dog", "Animal", EdgeExtends)
	assert.True(t, g.IsSubtype("Poodle", "Animal"))
}

func TestIsSubtype_Cycle(t *testing.T) {
	g := newGraph()
	g.AddEdge("A", "B", EdgeExtends)
	g.AddEdge("B", "A", EdgeExtends)
	assert.True(t, g.IsSubtype("A", "B"))
	assert.False(t, g.IsSubtype("A", "C"))
}

func TestResolveMethod_OwnOverridesAncestor(t *testing.T) {
	g := newGraph()
	g.AddEdge("Dog", "Animal", EdgeExtends)
	g.AddMethod("Animal", "speak", 1, "")
	g.AddMethod("Dog", "speak", 2, "")

	id, ok := g.ResolveMethod("Dog", "speak")
	require.True(t, ok)
	assert.EqualValues(t, 2, id)
}

func TestResolveMethod_Inherited(t *testing.T) {
	g := newGraph()
	g.AddEdge("Dog", "Animal", EdgeExtends)
	g.AddMethod("Animal", "speak", 1, "")

	id, ok := g.ResolveMethod("Dog", "speak")
	require.True(t, ok)
	assert.EqualValues(t, 1, id)

	_, ok = g.ResolveMethod("Dog", "fly")
	assert.False(t, ok)
}

func TestResolveMethodTrait(t *testing.T) {
	g := newGraph()
	g.AddEdge("Widget", "Drawable", EdgeImplements)
	g.AddMethod("Drawable", "draw", 7, "Drawable")

	id, ok := g.ResolveMethodTrait("Widget", "Drawable", "draw")
	require.True(t, ok)
	assert.EqualValues(t, 7, id)

	_, ok = g.ResolveMethodTrait("Widget", "OtherTrait", "draw")
	assert.False(t, ok)
}

func TestGetAllMethods(t *testing.T) {
	g := newGraph()
	g.AddEdge("Dog", "Animal", EdgeExtends)
	g.AddMethod("Animal", "speak", 1, "")
	g.AddMethod("Animal", "eat", 2, "")
	g.AddMethod("Dog", "speak", 3, "")

	methods := g.GetAllMethods("Dog")
	assert.EqualValues(t, 3, methods["speak"])
	assert.EqualValues(t, 2, methods["eat"])
	assert.Len(t, methods, 2)
}
