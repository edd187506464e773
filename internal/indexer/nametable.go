package indexer

import (
	"sync"

	"github.com/codeintel/symgraph/internal/types"
)

// NameTable is the cross-file name → symbol map the resolve phase
// consults for relationships a single file's scope.Manager could not
// resolve on its own (a call/extends/implements referencing a symbol
// declared in another file). Guarded by a plain sync.RWMutex since the
// parse phase writes concurrently from multiple worker goroutines.
type NameTable struct {
	mu   sync.RWMutex
	byID map[string]types.SymbolID
}

func NewNameTable() *NameTable {
	return &NameTable{byID: make(map[string]types.SymbolID)}
}

// Put records name → id. First writer wins, so a name collision across
// files keeps whichever definition staged first rather than silently
// overwriting it; ambiguity is an accepted, documented resolution
// limitation rather than reason to fail the run.
func (t *NameTable) Put(name string, id types.SymbolID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.byID[name]; !exists {
		t.byID[name] = id
	}
}

func (t *NameTable) Get(name string) (types.SymbolID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byID[name]
	return id, ok
}
