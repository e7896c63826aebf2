package store

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ReadArtifact returns the artifact stored under key.
func (s *Store) ReadArtifact(ctx context.Context, key string) (Artifact, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, document, kind, text, warnings, run_id, seq
		FROM artifacts
		WHERE key = ?
	`, key)
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Artifact{}, false, nil
	}
	if err != nil {
		return Artifact{}, false, err
	}
	return a, true, nil
}

// ReadDocumentArtifacts returns every cached artifact for a document name,
// oldest first.
//
// Returns an empty slice (not nil) if the document was never generated.
func (s *Store) ReadDocumentArtifacts(ctx context.Context, document string) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, document, kind, text, warnings, run_id, seq
		FROM artifacts
		WHERE document = ?
		ORDER BY seq ASC, key COLLATE BINARY ASC
	`, document)
	if err != nil {
		return nil, errors.Wrap(err, "query artifacts")
	}
	defer rows.Close()

	artifacts := []Artifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate artifacts")
	}
	return artifacts, nil
}

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, schema_hash, options_hash, generator_version, ir_version, documents, hits, finished
		FROM runs
		WHERE id = ?
	`, id)
	return readRun(row)
}

// LatestRun returns the run with the highest seq.
func (s *Store) LatestRun(ctx context.Context) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, schema_hash, options_hash, generator_version, ir_version, documents, hits, finished
		FROM runs
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT 1
	`)
	return readRun(row)
}

// ReadRunEntries returns the entries of a run in the order they were
// recorded: ORDER BY seq ASC, document COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the run has no entries.
func (s *Store) ReadRunEntries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, artifact_key, document, seq, cached
		FROM run_entries
		WHERE run_id = ?
		ORDER BY seq ASC, document COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query run entries")
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var cached int
		if err := rows.Scan(&e.RunID, &e.ArtifactKey, &e.Document, &e.Seq, &cached); err != nil {
			return nil, errors.Wrap(err, "scan run entry")
		}
		e.Cached = cached != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate run entries")
	}
	return entries, nil
}

// Stats counts the rows in each table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM runs),
			(SELECT COUNT(*) FROM artifacts),
			(SELECT COUNT(*) FROM run_entries)
	`).Scan(&st.Runs, &st.Artifacts, &st.Entries)
	if err != nil {
		return Stats{}, errors.Wrap(err, "read stats")
	}
	return st, nil
}

func readRun(row rowScanner) (Run, bool, error) {
	var r Run
	var finished int
	err := row.Scan(&r.ID, &r.Seq, &r.SchemaHash, &r.OptionsHash, &r.GeneratorVersion, &r.IRVersion,
		&r.Documents, &r.Hits, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, errors.Wrap(err, "scan run")
	}
	r.Finished = finished != 0
	return r, true, nil
}

func scanArtifact(row rowScanner) (Artifact, error) {
	var a Artifact
	var warnings string
	if err := row.Scan(&a.Key, &a.Document, &a.Kind, &a.Text, &warnings, &a.RunID, &a.Seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artifact{}, err
		}
		return Artifact{}, errors.Wrap(err, "scan artifact")
	}
	w, err := unmarshalWarnings(warnings)
	if err != nil {
		return Artifact{}, err
	}
	a.Warnings = w
	return a, nil
}
