package query

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestToolSchemas_NoUintFormat verifies every emitted schema describes
// integer parameters with Type "integer" alone, never a "format":"uint"
// constraint — JSON Schema has no such format, so emitting one would be
// meaningless to every client that validates against the draft.
func TestToolSchemas_NoUintFormat(t *testing.T) {
	for name, schema := range ToolSchemas() {
		data, err := json.Marshal(schema)
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"format":"uint"`, "schema for %s", name)
		assert.NotContains(t, strings.ToLower(string(data)), `"format": "uint"`, "schema for %s", name)
	}
}

func TestToolSchemas_RequiredFieldsPresent(t *testing.T) {
	schemas := ToolSchemas()
	require.Contains(t, schemas, "find_symbol")
	require.Contains(t, schemas, "get_references")
	require.Contains(t, schemas, "analyze_impact")
	require.Contains(t, schemas, "semantic_search")

	assert.Equal(t, []string{"name"}, schemas["find_symbol"].Required)
	assert.Equal(t, []string{"symbol_id"}, schemas["get_references"].Required)
}
