// Package debugx provides opt-in debug logging that is silent by default
// and fully suppressed while serving MCP requests over stdio, where any
// stray byte on stdout corrupts the JSON-RPC stream.
package debugx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug can be set at build time via
// -ldflags "-X github.com/codeintel/symgraph/internal/debugx.EnableDebug=true".
var EnableDebug = "false"

// mcpMode suppresses all output while true, set by the serve command
// before it starts the MCP server.
var mcpMode bool

var (
	mu     sync.Mutex
	output io.Writer
	file   *os.File
)

// SetMCPMode enables or disables MCP stdio suppression.
func SetMCPMode(enabled bool) { mcpMode = enabled }

// SetOutput sets the writer debug lines are written to. Pass nil to disable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// InitLogFile opens a timestamped log file under the OS temp dir and
// directs debug output there, returning its path.
func InitLogFile() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	dir := filepath.Join(os.TempDir(), "symgraph-debug-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("debugx: create log dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("debug-%s.log", time.Now().Format("2006-01-02T150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("debugx: open log file: %w", err)
	}

	file = f
	output = f
	return path, nil
}

// Close closes the log file opened by InitLogFile, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	output = nil
	return err
}

// Enabled reports whether debug logging is active: never in MCP mode,
// otherwise gated by the build flag or a DEBUG env var override.
func Enabled() bool {
	if mcpMode {
		return false
	}
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Log writes a component-tagged debug line, a no-op unless Enabled and an
// output writer has been configured.
func Log(component, format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

func LogIndex(format string, args ...interface{})   { Log("INDEX", format, args...) }
func LogResolve(format string, args ...interface{}) { Log("RESOLVE", format, args...) }
func LogQuery(format string, args ...interface{})   { Log("QUERY", format, args...) }
func LogMCP(format string, args ...interface{})     { Log("MCP", format, args...) }
