package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/types"
)

func TestParse_ScopedCallRecordsQualifiedTarget(t *testing.T) {
	src := `<?php
class Database {
    public static function connect() {}
}

function boot() {
    Database::connect();
}
`
	p := NewParser()
	result, err := p.Parse(1, "boot.php", []byte(src))
	require.NoError(t, err)

	var target string
	found := false
	for _, rel := range result.Relationships {
		if rel.Kind == types.RelCalls && rel.ToUnresolvedName == "Database::connect" {
			target = rel.ToUnresolvedName
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, "Database::connect", target)
}

func TestParse_ClassImplementsInterface(t *testing.T) {
	src := `<?php
interface Drawable {
    public function draw();
}

class Widget implements Drawable {
    public function draw() {}
}
`
	p := NewParser()
	result, err := p.Parse(1, "widget.php", []byte(src))
	require.NoError(t, err)

	var implements bool
	for _, rel := range result.Relationships {
		if rel.Kind == types.RelImplements {
			implements = true
		}
	}
	assert.True(t, implements)
}
