package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/config"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanner_Discover_ExcludesVendorAndGit(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.go", "package main\n")
	writeTestFile(t, root, "pkg/lib.go", "package pkg\n")
	writeTestFile(t, root, "vendor/dep/dep.go", "package dep\n")
	writeTestFile(t, root, ".git/HEAD", "ref: refs/heads/main\n")
	writeTestFile(t, root, "node_modules/x/index.js", "module.exports = {}\n")

	settings := config.Default()
	settings.Exclude = config.DefaultExcludes()

	files, err := NewScanner(settings).Discover(context.Background(), root)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rel, _ := filepath.Rel(root, f)
		rels = append(rels, filepath.ToSlash(rel))
	}

	assert.Contains(t, rels, "main.go")
	assert.Contains(t, rels, "pkg/lib.go")
	assert.NotContains(t, rels, "vendor/dep/dep.go")
	assert.NotContains(t, rels, ".git/HEAD")
	assert.NotContains(t, rels, "node_modules/x/index.js")
}

func TestScanner_Discover_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.go", "package main\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	settings := config.Default()
	_, err := NewScanner(settings).Discover(ctx, root)
	require.Error(t, err)
}
