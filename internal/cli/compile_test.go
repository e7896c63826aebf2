package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileText(t *testing.T) {
	out, err := execute(t, "compile", writeSources(t, viewerDocs))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled 2 document(s)")
	assert.Contains(t, out, "UserName")
	assert.Contains(t, out, "ViewerQuery")
}

func TestCompileJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "compile", writeSources(t, viewerDocs))
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Data.SchemaHash, 64)
	require.Len(t, resp.Data.Documents, 2)
	assert.Equal(t, "fragment", resp.Data.Documents[0].Kind)
	assert.Equal(t, "query", resp.Data.Documents[1].Kind)
}

func TestCompileHashesAreStable(t *testing.T) {
	dir := writeSources(t, viewerDocs)
	first, err := execute(t, "--format", "json", "compile", dir)
	require.NoError(t, err)
	second, err := execute(t, "--format", "json", "compile", dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompileOutputFile(t *testing.T) {
	dir := writeSources(t, viewerDocs)
	outFile := filepath.Join(t.TempDir(), "ir.json")

	out, err := execute(t, "compile", dir, "-o", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote canonical IR to")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "1", decoded["ir_version"])
	assert.Len(t, decoded["documents"], 2)
}
