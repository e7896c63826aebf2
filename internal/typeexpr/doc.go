// Package typeexpr provides the output-side type expression tree.
//
// A type expression describes a TypeScript type without committing to its
// textual form. The generator builds one tree per document and the emit
// package renders it.
//
// SEALED INTERFACE:
//
// Expr is sealed using the marker method pattern. Only types in this
// package implement it, so renderers can switch exhaustively:
//
//	switch e := expr.(type) {
//	case *Primitive, *Literal, *Named, *OpaqueRef:
//	case *Array, *Nullable:
//	case *Union, *Intersection:
//	case *Object:
//	}
//
// NORMAL FORM:
//
// The constructors keep trees in a normal form that renderers rely on:
//   - NullableOf never nests: Nullable(Nullable(T)) is Nullable(T)
//   - UnionOf flattens nested unions, deduplicates members structurally in
//     first-seen order and hoists nullability: A | (B | null) is (A | B) | null
//   - IntersectionOf flattens and deduplicates the same way
//
// Trees are immutable once built. Constructors never modify their
// arguments, so subtrees may be shared.
package typeexpr
