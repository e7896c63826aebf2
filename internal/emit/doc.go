// Package emit renders type expression trees as TypeScript declarations.
//
// Emission is deterministic: identical input always yields byte-identical
// text. Declarations are printed in a fixed order (imports, forward
// declarations, enums, input objects, brand, document types) and every
// collection that could carry map order is sorted first.
//
// Import paths follow ImportPolicy and are the only part of the output that
// depends on the artifact layout.
package emit
