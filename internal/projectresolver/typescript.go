package projectresolver

import (
	"encoding/json"
	"fmt"

	"github.com/codeintel/symgraph/internal/config"
)

// TypeScriptProvider resolves tsconfig.json/jsconfig.json baseUrl/paths.
type TypeScriptProvider struct{}

func NewTypeScriptProvider() *TypeScriptProvider { return &TypeScriptProvider{} }

func (p *TypeScriptProvider) Ecosystem() string { return "typescript" }

func (p *TypeScriptProvider) ConfigFileNames() []string {
	return []string{"tsconfig.json", "jsconfig.json"}
}

func (p *TypeScriptProvider) IsEnabled(settings *config.Settings) bool {
	return settings.IsLanguageEnabled("typescript")
}

// tsconfigFile is the subset of tsconfig.json this provider reads.
// Extends is decoded but not followed: only this file's own
// compilerOptions.baseUrl and paths become Rules.
type tsconfigFile struct {
	Extends         string `json:"extends"`
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

func (p *TypeScriptProvider) Parse(content []byte) (Rules, error) {
	var cfg tsconfigFile
	if err := json.Unmarshal(stripJSONComments(content), &cfg); err != nil {
		return Rules{}, fmt.Errorf("projectresolver: parse tsconfig: %w", err)
	}

	rules := Rules{
		BaseURL: cfg.CompilerOptions.BaseURL,
		Paths:   cfg.CompilerOptions.Paths,
	}
	if rules.BaseURL == "" {
		rules.BaseURL = "."
	}
	return rules, nil
}

// stripJSONComments removes // line comments, a tolerance tsconfig.json
// files commonly rely on (JSONC) that encoding/json does not accept.
func stripJSONComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			if c == '\\' && i+1 < len(data) {
				out = append(out, data[i+1])
				i++
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if c == '/' && i+1 < len(data) && data[i+1] == '/' {
			for i < len(data) && data[i] != '\n' {
				i++
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, c)
	}
	return out
}
