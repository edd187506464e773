package gdscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/types"
)

func TestParse_PreloadIsImport(t *testing.T) {
	src := `
var Bullet = preload("res://bullet.tscn")
`
	p := NewParser()
	result, err := p.Parse(1, "player.gd", []byte(src))
	require.NoError(t, err)
	require.Len(t, result.Imports, 1)
	assert.Equal(t, "res://bullet.tscn", result.Imports[0].Path)
}

func TestParse_EmitSignalIsCallToSignalName(t *testing.T) {
	src := `
func take_damage():
    emit_signal("died")
`
	p := NewParser()
	result, err := p.Parse(1, "player.gd", []byte(src))
	require.NoError(t, err)

	var died types.Relationship
	found := false
	for _, rel := range result.Relationships {
		if rel.Kind == types.RelCalls && rel.ToUnresolvedName == "died" {
			died = rel
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, types.RelCalls, died.Kind)
}
