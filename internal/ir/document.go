package ir

import "fmt"

// OperationKind is the root operation type of an Operation.
type OperationKind string

const (
	OperationQuery        OperationKind = "query"
	OperationMutation     OperationKind = "mutation"
	OperationSubscription OperationKind = "subscription"
)

// ValidOperationKinds defines allowed operation kinds.
var ValidOperationKinds = map[OperationKind]bool{
	OperationQuery:        true,
	OperationMutation:     true,
	OperationSubscription: true,
}

// Document is a compiled query-language document.
//
// This is a sealed interface - only *Operation and *Fragment implement it.
type Document interface {
	documentNode() // Marker method - seals interface to this package

	// DocumentName returns the operation or fragment name.
	DocumentName() string
	// RootSelections returns the read selection tree.
	RootSelections() []Selection
}

// Operation is a query, mutation or subscription.
//
// Selections is the read tree. The normalized tree used for variables is a
// separate Root value produced upstream.
type Operation struct {
	Kind                OperationKind
	Name                string
	Type                string // root type name, e.g. "Query"
	ArgumentDefinitions []ArgumentDefinition
	Selections          []Selection

	// RawResponse requests a raw response type derived from the normalized
	// tree, for operations whose payload is written to the store by hand.
	RawResponse bool
}

func (*Operation) documentNode() {}

// DocumentName implements Document.
func (o *Operation) DocumentName() string { return o.Name }

// RootSelections implements Document.
func (o *Operation) RootSelections() []Selection { return o.Selections }

// Fragment is a reusable selection set on a type condition.
type Fragment struct {
	Name          string
	TypeCondition string
	Selections    []Selection

	// Plural fragments are read from a list of records.
	Plural bool
}

func (*Fragment) documentNode() {}

// DocumentName implements Document.
func (f *Fragment) DocumentName() string { return f.Name }

// RootSelections implements Document.
func (f *Fragment) RootSelections() []Selection { return f.Selections }

// ArgumentDefinition declares an operation variable.
type ArgumentDefinition struct {
	Name         string
	Type         TypeRef
	DefaultValue IRValue // nil when no default is declared
}

// Root is the normalized tree of an operation: fragments inlined and
// argument definitions resolved against the schema. It is used only to
// derive variable and raw response shapes.
type Root struct {
	Kind                OperationKind
	Name                string
	Type                string
	ArgumentDefinitions []ArgumentDefinition
	Selections          []Selection
}

// DocumentKind returns "fragment" or the operation kind.
func DocumentKind(doc Document) string {
	switch d := doc.(type) {
	case *Operation:
		return string(d.Kind)
	case *Fragment:
		return "fragment"
	default:
		panic(fmt.Sprintf("unhandled document type %T", doc))
	}
}
