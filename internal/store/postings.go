package store

import (
	"bytes"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/codeintel/symgraph/internal/types"
)

// PostingsIndex maps lowercased ASCII tokens (length >= 3) to the files
// they occur in, accelerating literal-word search ahead of a full symbol
// scan. It keeps file-level postings only (no per-token offsets), since
// the search surface only needs "which files mention this token", not
// byte positions within them.
type PostingsIndex struct {
	mu         sync.RWMutex
	tokens     map[string]map[types.FileID]bool
	fastHashes map[types.FileID]uint64
}

func NewPostingsIndex() *PostingsIndex {
	return &PostingsIndex{
		tokens:     make(map[string]map[types.FileID]bool),
		fastHashes: make(map[types.FileID]uint64),
	}
}

// IndexFile records every ASCII word token (letters, digits, underscore)
// of length >= 3 found in content against file. A re-index of content
// already seen for this file is a no-op: the xxhash fingerprint is
// checked first, ahead of any full tokenization pass.
func (pi *PostingsIndex) IndexFile(file types.FileID, content []byte) {
	if len(content) == 0 {
		return
	}

	fastHash := xxhash.Sum64(content)
	pi.mu.RLock()
	unchanged := pi.fastHashes[file] == fastHash && fastHash != 0
	pi.mu.RUnlock()
	if unchanged {
		return
	}

	toks := make(map[string]bool)
	start := -1
	for i, b := range content {
		if isTokenChar(b) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			addToken(toks, content[start:i])
			start = -1
		}
	}
	if start >= 0 {
		addToken(toks, content[start:])
	}
	if len(toks) == 0 {
		return
	}

	pi.mu.Lock()
	defer pi.mu.Unlock()
	for tok := range toks {
		m, ok := pi.tokens[tok]
		if !ok {
			m = make(map[types.FileID]bool)
			pi.tokens[tok] = m
		}
		m[file] = true
	}
	pi.fastHashes[file] = fastHash
}

// Lookup returns the files that contain every token (AND semantics).
func (pi *PostingsIndex) Lookup(tokens []string) []types.FileID {
	pi.mu.RLock()
	defer pi.mu.RUnlock()

	if len(tokens) == 0 {
		return nil
	}
	var candidate map[types.FileID]bool
	for i, tok := range tokens {
		lower := string(bytes.ToLower([]byte(tok)))
		files := pi.tokens[lower]
		if i == 0 {
			candidate = make(map[types.FileID]bool, len(files))
			for f := range files {
				candidate[f] = true
			}
			continue
		}
		for f := range candidate {
			if !files[f] {
				delete(candidate, f)
			}
		}
	}
	out := make([]types.FileID, 0, len(candidate))
	for f := range candidate {
		out = append(out, f)
	}
	return out
}

func addToken(dst map[string]bool, raw []byte) {
	if len(raw) < 3 {
		return
	}
	lower := bytes.ToLower(raw)
	if !isAllASCII(lower) {
		return
	}
	dst[string(lower)] = true
}

func isTokenChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

func isAllASCII(b []byte) bool {
	for _, c := range b {
		if c > 127 {
			return false
		}
	}
	return true
}
