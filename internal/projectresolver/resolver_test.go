package projectresolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/config"
)

func TestSha256Hex_Deterministic(t *testing.T) {
	assert.Equal(t, Sha256Hex("test content"), Sha256Hex("test content"))
	assert.NotEqual(t, Sha256Hex("content A"), Sha256Hex("content B"))
	assert.Len(t, Sha256Hex("any content"), 64)
}

func TestMemo_InsertGet(t *testing.T) {
	m := NewMemo[int]()
	_, ok := m.Get("missing")
	assert.False(t, ok)

	m.Insert("k", 42)
	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	m.Clear()
	_, ok = m.Get("k")
	assert.False(t, ok)
}

func TestTypeScriptProvider_Parse(t *testing.T) {
	p := NewTypeScriptProvider()
	content := []byte(`{
		// comment
		"compilerOptions": {
			"baseUrl": "./src",
			"paths": { "@app/*": ["app/*"] }
		}
	}`)
	rules, err := p.Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "./src", rules.BaseURL)
	assert.Equal(t, []string{"app/*"}, rules.Paths["@app/*"])
}

func TestRegistry_Resolve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsconfig.json"), []byte(`{
		"compilerOptions": { "baseUrl": ".", "paths": {} }
	}`), 0o644))

	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	srcFile := filepath.Join(sub, "index.ts")
	require.NoError(t, os.WriteFile(srcFile, []byte("export {}"), 0o644))

	reg := NewRegistry()
	reg.Add(NewTypeScriptProvider())

	settings := config.Default()
	rules, configPath, err := reg.Resolve(srcFile, settings)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tsconfig.json"), configPath)
	assert.Equal(t, ".", rules.BaseURL)
}

func TestRegistry_SidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "tsconfig.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"compilerOptions":{}}`), 0o644))

	reg := NewRegistry()
	reg.IndexGlob("src/**/*.ts", configPath)

	sidecarPath := filepath.Join(dir, "resolution", "typescript", "index.json")
	require.NoError(t, reg.SaveSidecar(sidecarPath))

	loaded := NewRegistry()
	require.NoError(t, loaded.LoadSidecar(sidecarPath))

	got, ok := loaded.ConfigForGlob("src/foo/bar.ts")
	require.True(t, ok)
	assert.Equal(t, configPath, got)
}
