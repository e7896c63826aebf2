package cli

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidSources(t *testing.T) {
	out, err := execute(t, "validate", writeSources(t, viewerDocs))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 document(s) valid")
}

func TestValidateValidSourcesJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", writeSources(t, viewerDocs))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Documents)
}

func TestValidateUndefinedFragment(t *testing.T) {
	dir := writeSources(t, `query: Broken: selections: [{field: "viewer", selections: [{spread: "Missing"}]}]`)

	out, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E110")
}

func TestValidateFragmentCycle(t *testing.T) {
	dir := writeSources(t, `
fragment: A: {on: "User", selections: ["id", {spread: "B"}]}
fragment: B: {on: "User", selections: ["id", {spread: "A"}]}
`)
	out, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "E113")
}

func TestValidateCompileError(t *testing.T) {
	dir := writeSources(t, `query: Q: selections: ["nope"]`)

	out, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeCompileFailed)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, err := execute(t, "validate", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}
