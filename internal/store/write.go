package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/roach88/relayts/internal/ir"
)

// BeginRun records a new run and returns it with a fresh UUID and seq.
func (s *Store) BeginRun(ctx context.Context, schemaHash, optionsHash string) (Run, error) {
	run := Run{
		ID:               uuid.NewString(),
		Seq:              s.clock.Next(),
		SchemaHash:       schemaHash,
		OptionsHash:      optionsHash,
		GeneratorVersion: ir.GeneratorVersion,
		IRVersion:        ir.IRVersion,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seq, schema_hash, options_hash, generator_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Seq, run.SchemaHash, run.OptionsHash, run.GeneratorVersion, run.IRVersion)
	if err != nil {
		return Run{}, errors.Wrap(err, "begin run")
	}
	return run, nil
}

// FinishRun stores the run's totals and marks it finished.
func (s *Store) FinishRun(ctx context.Context, runID string, documents, hits int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET documents = ?, hits = ?, finished = 1 WHERE id = ?
	`, documents, hits, runID)
	if err != nil {
		return errors.Wrap(err, "finish run")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "finish run")
	}
	if n == 0 {
		return errors.Newf("finish run: unknown run %q", runID)
	}
	return nil
}

// WriteArtifact inserts an artifact. Uses ON CONFLICT(key) DO NOTHING:
// an existing key already holds identical text, so duplicates are ignored.
// A zero Seq is stamped from the store clock.
//
// Note: the run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteArtifact(ctx context.Context, a Artifact) error {
	warnings, err := marshalWarnings(a.Warnings)
	if err != nil {
		return errors.Wrap(err, "write artifact")
	}
	if a.Seq == 0 {
		a.Seq = s.clock.Next()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO artifacts (key, document, kind, text, warnings, run_id, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, a.Key, a.Document, a.Kind, a.Text, warnings, a.RunID, a.Seq)
	if err != nil {
		return errors.Wrapf(err, "write artifact %s", a.Document)
	}
	return nil
}

// RecordEntry links an artifact to a run. A document appears at most once
// per run; repeated records are ignored.
func (s *Store) RecordEntry(ctx context.Context, runID, artifactKey, document string, cached bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_entries (run_id, artifact_key, document, seq, cached)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, document) DO NOTHING
	`, runID, artifactKey, document, s.clock.Next(), boolInt(cached))
	if err != nil {
		return errors.Wrapf(err, "record entry %s", document)
	}
	return nil
}

// Prune deletes all but the newest keep runs, then every artifact no
// remaining run references. It returns the number of artifacts removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, errors.Newf("prune: keep must be >= 0, got %d", keep)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "prune")
	}
	defer tx.Rollback()

	stale := `SELECT id FROM runs ORDER BY seq DESC, id COLLATE BINARY ASC LIMIT -1 OFFSET ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_entries WHERE run_id IN (`+stale+`)`, keep); err != nil {
		return 0, errors.Wrap(err, "prune entries")
	}
	// Artifacts reference their producing run, so they go before the runs.
	res, err := tx.ExecContext(ctx, `
		DELETE FROM artifacts
		WHERE key NOT IN (SELECT artifact_key FROM run_entries)
	`)
	if err != nil {
		return 0, errors.Wrap(err, "prune artifacts")
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "prune artifacts")
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM runs
		WHERE id IN (`+stale+`)
		AND id NOT IN (SELECT run_id FROM artifacts)
	`, keep); err != nil {
		return 0, errors.Wrap(err, "prune runs")
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "prune")
	}
	return removed, nil
}
