// Package indexer implements the discover→plan→parse→stage→resolve→
// persist pipeline: a filepath.WalkDir scan with symlink-cycle tracking
// and glob-based exclusion, a golang.org/x/sync errgroup+semaphore
// worker pool sized from settings, and an fsnotify-based Watcher.
package indexer

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/debugx"
)

// Scanner walks a workspace root and returns the files to index, pruning
// excluded directories early.
type Scanner struct {
	settings *config.Settings
}

func NewScanner(settings *config.Settings) *Scanner {
	return &Scanner{settings: settings}
}

// Discover returns every non-excluded file path under root, skipping
// directories whose real path was already visited (symlink-cycle guard).
func (s *Scanner) Discover(ctx context.Context, root string) ([]string, error) {
	visited := make(map[string]bool)
	var out []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if walkErr != nil {
			debugx.LogIndex("scanner: %v", walkErr)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root {
				real, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil
				}
				if visited[real] {
					return filepath.SkipDir
				}
				visited[real] = true

				if s.excluded(rel) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if s.excluded(rel) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.settings.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
			return true
		}
	}
	return false
}
