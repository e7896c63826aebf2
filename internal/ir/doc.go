// Package ir provides the intermediate representation consumed by relayts.
//
// This package contains type definitions and small pure helpers only. All
// other internal packages import ir; ir imports nothing internal, so the IR
// stays the foundational layer with no circular dependencies.
//
// The IR has three parts:
//   - Schema: an arena of SchemaType values addressed by name. Cross
//     references (object fields, interface implementors, union members,
//     cyclic input objects) are names resolved through the arena, never
//     ownership pointers.
//   - Documents: Operation and Fragment, each owning a selection tree of
//     sealed Selection nodes (Field, FragmentSpread, InlineFragment,
//     Condition).
//   - Root: the normalized form of an operation, used only to derive the
//     shape of its variables.
//
// Selection and Document are sealed interfaces using the marker method
// pattern, so consumers can switch over them exhaustively:
//
//	switch sel := s.(type) {
//	case *Field:
//	case *FragmentSpread:
//	case *InlineFragment:
//	case *Condition:
//	}
package ir
