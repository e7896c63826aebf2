package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/relayts/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun begins a run with fixed hashes.
func createTestRun(t *testing.T, s *Store) Run {
	t.Helper()
	run, err := s.BeginRun(context.Background(), "schema-hash", "options-hash")
	if err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}
	return run
}

// createTestArtifact builds an artifact with minimal required fields.
func createTestArtifact(key, document, runID string) Artifact {
	return Artifact{
		Key:      key,
		Document: document,
		Kind:     string(ir.OperationQuery),
		Text:     "export type " + document + " = {};\n",
		RunID:    runID,
	}
}
