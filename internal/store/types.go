package store

import "github.com/roach88/relayts/internal/codegen"

// Run is one generate invocation.
type Run struct {
	ID               string `json:"id"` // random UUID
	Seq              int64  `json:"seq"`
	SchemaHash       string `json:"schema_hash"`
	OptionsHash      string `json:"options_hash"`
	GeneratorVersion string `json:"generator_version"`
	IRVersion        string `json:"ir_version"`
	Documents        int    `json:"documents"`
	Hits             int    `json:"hits"`
	Finished         bool   `json:"finished"`
}

// Artifact is the generated output for one document. Key is the
// ir.ArtifactKey over every input that shaped Text.
type Artifact struct {
	Key      string
	Document string
	Kind     string
	Text     string
	Warnings []codegen.Warning
	RunID    string // run that first produced the artifact
	Seq      int64
}

// Entry records that a run produced (or reused) an artifact.
type Entry struct {
	RunID       string
	ArtifactKey string
	Document    string
	Seq         int64
	Cached      bool
}

// Stats summarizes the cache contents.
type Stats struct {
	Runs      int `json:"runs"`
	Artifacts int `json:"artifacts"`
	Entries   int `json:"entries"`
}
