package ir

// Version constants for the IR schema and generator.
const (
	// IRVersion is the IR schema version. Bump it when the canonical
	// encoding of documents changes so cached artifacts are invalidated.
	IRVersion = "1"

	// GeneratorVersion is the relayts generator version.
	GeneratorVersion = "0.1.0"
)
