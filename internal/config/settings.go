// Package config loads the on-disk settings.toml for a workspace: a
// defaulted struct, a Load entrypoint, and an enrichment pass over
// language toggles. settings.toml stays a flat, hand-editable file for
// index_path, workspace_root, per-language enable flags, debug, and
// worker count, parsed with go-toml/v2.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/codeintel/symgraph/internal/ierrors"
	"github.com/codeintel/symgraph/internal/types"
)

// LanguageSettings toggles a single language on or off.
type LanguageSettings struct {
	Enabled bool `toml:"enabled"`
}

// Settings is the parsed contents of .symgraph/settings.toml.
type Settings struct {
	IndexPath       string                      `toml:"index_path"`
	WorkspaceRoot   string                      `toml:"workspace_root"`
	Debug           bool                        `toml:"debug"`
	ParallelThreads int                         `toml:"parallel_threads"`
	Languages       map[string]LanguageSettings `toml:"languages"`
	Exclude         []string                    `toml:"exclude"`
}

// IsLanguageEnabled reports whether id is enabled, defaulting to true when
// the workspace settings don't mention the language at all.
func (s *Settings) IsLanguageEnabled(id types.LanguageID) bool {
	if s == nil || s.Languages == nil {
		return true
	}
	ls, ok := s.Languages[string(id)]
	if !ok {
		return true
	}
	return ls.Enabled
}

// Default returns settings with workspace root set to the current
// directory, the index under .symgraph/index, and worker count
// auto-detected from the host.
func Default() *Settings {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Settings{
		IndexPath:       filepath.Join(cwd, ".symgraph", "index"),
		WorkspaceRoot:   cwd,
		Debug:           false,
		ParallelThreads: runtime.NumCPU(),
		Languages:       map[string]LanguageSettings{},
		Exclude:         DefaultExcludes(),
	}
}

// DefaultExcludes lists the glob patterns (doublestar syntax) applied
// during discovery before any settings.toml override.
func DefaultExcludes() []string {
	return []string{
		"**/.git/**",
		"**/.*/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/target/**",
		"**/build/**",
		"**/dist/**",
		"**/bin/**",
		"**/obj/**",
		"**/__pycache__/**",
		"**/*.min.js",
	}
}

// Load reads settings.toml from workspaceRoot/.symgraph/settings.toml. A
// missing file is not an error: Default() is returned instead, so a fresh
// workspace indexes with sane behavior before any settings file exists.
func Load(workspaceRoot string) (*Settings, error) {
	path := filepath.Join(workspaceRoot, ".symgraph", "settings.toml")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.WorkspaceRoot = workspaceRoot
		cfg.IndexPath = filepath.Join(workspaceRoot, ".symgraph", "index")
		return cfg, nil
	}
	if err != nil {
		return nil, ierrors.NewConfigError("settings.toml", path, err)
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, ierrors.NewConfigError("settings.toml", path, fmt.Errorf("decode: %w", err))
	}

	if s.WorkspaceRoot == "" {
		s.WorkspaceRoot = workspaceRoot
	}
	if s.IndexPath == "" {
		s.IndexPath = filepath.Join(workspaceRoot, ".symgraph", "index")
	}
	if s.ParallelThreads <= 0 {
		s.ParallelThreads = runtime.NumCPU()
	}
	if s.Languages == nil {
		s.Languages = map[string]LanguageSettings{}
	}
	if len(s.Exclude) == 0 {
		s.Exclude = DefaultExcludes()
	}

	return &s, nil
}

// Save writes settings back to workspaceRoot/.symgraph/settings.toml,
// creating the directory if needed.
func Save(workspaceRoot string, s *Settings) error {
	dir := filepath.Join(workspaceRoot, ".symgraph")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ierrors.NewConfigError("settings.toml", dir, err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return ierrors.NewConfigError("settings.toml", "", fmt.Errorf("encode: %w", err))
	}

	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ierrors.NewConfigError("settings.toml", path, err)
	}
	return nil
}
