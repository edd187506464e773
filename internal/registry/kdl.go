package registry

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/codeintel/symgraph/internal/types"
)

//go:embed languages.kdl
var defaultLanguagesKDL embed.FS

// ExtensionTable maps a language id to its file extensions, as parsed
// from a languages.kdl document. The registry does not consult it:
// Register takes each language's extensions from its Definition.
type ExtensionTable map[types.LanguageID][]string

// LoadDefaultExtensionTable parses the embedded languages.kdl seed.
func LoadDefaultExtensionTable() (ExtensionTable, error) {
	data, err := fs.ReadFile(defaultLanguagesKDL, "languages.kdl")
	if err != nil {
		return nil, fmt.Errorf("registry: read embedded languages.kdl: %w", err)
	}
	return ParseExtensionTable(string(data))
}

// ParseExtensionTable parses a languages.kdl document of the form:
//
//	language "rust" {
//	    extensions "rs"
//	}
func ParseExtensionTable(content string) (ExtensionTable, error) {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("registry: parse languages.kdl: %w", err)
	}

	table := make(ExtensionTable)
	for _, n := range doc.Nodes {
		if nodeName(n) != "language" {
			continue
		}
		idStr, ok := firstStringArg(n)
		if !ok {
			continue
		}
		id := types.LanguageID(idStr)
		for _, cn := range n.Children {
			if nodeName(cn) != "extensions" {
				continue
			}
			table[id] = append(table[id], collectStringArgs(cn)...)
		}
	}
	return table, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func collectStringArgs(n *document.Node) []string {
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
