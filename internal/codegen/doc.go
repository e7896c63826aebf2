// Package codegen derives TypeScript type trees from compiled documents.
//
// Generate walks a document's read selection tree against the schema and
// produces one typeexpr tree for the response shape. Leaves are mapped by
// ScalarEnumMapper, fragment spreads become opaque references through
// FragmentReferenceResolver, and operations with a normalized tree also get
// a variables shape from VariablesTypeBuilder. The trees are then handed to
// package emit for printing.
//
// Generate is a pure function: it allocates fresh state per call and never
// mutates the document, schema or options, so callers may run it
// concurrently over a shared schema.
package codegen
