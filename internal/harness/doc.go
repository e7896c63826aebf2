// Package harness runs generator conformance fixtures.
//
// A fixture is a YAML file holding CUE documents, generator options and
// assertions about the artifacts produced for each document:
//
//	name: scalar_fields
//	description: "Leaf fields map to primitives, enums and lists"
//	options:
//	  use_single_artifact_directory: true
//	  custom_scalars: { Color: String }
//	documents: |
//	  fragment: ScalarField: {on: "User", selections: ["id", "traits"]}
//	assertions:
//	  - type: contains
//	    document: ScalarField
//	    text: "readonly id: string;"
//	  - type: warning
//	    document: ScalarField
//	    code: W201
//	golden: true
//
// Documents are compiled against the shared test schema unless the fixture
// carries its own schema section.
//
// # Assertion Types
//
//   - contains: the artifact text contains Text
//   - not_contains: the artifact text does not contain Text
//   - warning: the document produced a warning with Code
//   - no_warnings: the document produced no warnings
//   - error: generation of the document failed with Code
//   - invalid: set validation reported Code
//
// # Golden Files
//
// Fixtures with golden set are compared against
// testdata/golden/{name}.golden. Each artifact is prefixed with a
// "// {Name}.graphql" line and artifacts are separated by a blank line.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
