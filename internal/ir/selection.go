package ir

// Selection is a node of a selection tree.
//
// This is a sealed interface - only types in this package implement it.
// Selection types:
//   - Field: a field of the enclosing type, possibly aliased
//   - FragmentSpread: a reference to a named fragment
//   - InlineFragment: selections that apply only under a type condition
//   - Condition: selections gated by an @include/@skip variable
type Selection interface {
	selectionNode() // Marker method - seals interface to this package
}

// Field selects one field of the enclosing type.
//
// Type is the field's declared schema type. Selections is empty for leaf
// (scalar and enum) fields and non-empty for composite fields.
type Field struct {
	Alias      string
	Name       string
	Type       TypeRef
	Selections []Selection
}

func (*Field) selectionNode() {}

// ResponseKey returns the key under which the field appears in a response.
func (f *Field) ResponseKey() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// FragmentSpread references a fragment by name. Its fields are never
// inlined into the enclosing shape.
type FragmentSpread struct {
	Name string
}

func (*FragmentSpread) selectionNode() {}

// InlineFragment applies its selections only when the runtime type matches
// TypeCondition.
type InlineFragment struct {
	TypeCondition string
	Selections    []Selection
}

func (*InlineFragment) selectionNode() {}

// Condition gates its selections on a boolean variable.
// Passing is true for @include(if: $Variable) and false for
// @skip(if: $Variable).
type Condition struct {
	Variable   string
	Passing    bool
	Selections []Selection
}

func (*Condition) selectionNode() {}

// WalkSelections calls fn for every selection in the tree in depth-first
// order. Returning false from fn skips the node's children.
func WalkSelections(sels []Selection, fn func(Selection) bool) {
	for _, sel := range sels {
		if !fn(sel) {
			continue
		}
		switch s := sel.(type) {
		case *Field:
			WalkSelections(s.Selections, fn)
		case *InlineFragment:
			WalkSelections(s.Selections, fn)
		case *Condition:
			WalkSelections(s.Selections, fn)
		case *FragmentSpread:
		}
	}
}

// FragmentSpreads returns the distinct fragment names spread anywhere in
// the tree, in first-seen order.
func FragmentSpreads(sels []Selection) []string {
	var names []string
	seen := make(map[string]bool)
	WalkSelections(sels, func(sel Selection) bool {
		if spread, ok := sel.(*FragmentSpread); ok && !seen[spread.Name] {
			seen[spread.Name] = true
			names = append(names, spread.Name)
		}
		return true
	})
	return names
}
