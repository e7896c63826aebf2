package codegen

import (
	"github.com/roach88/relayts/internal/ir"
	"github.com/roach88/relayts/internal/typeexpr"
)

// OtherTypename is the __typename literal of the fallback union member that
// stands for every possible type without its own branch.
const OtherTypename = "%other"

// shape holds the selections collected for one selection set before it
// becomes an object type. Keys keep first-seen order.
type shape struct {
	parent   string
	keys     []string
	entries  map[string]*entry
	spreads  []string
	branches []*shape
}

// entry is one response key of a shape. Entries are never modified after
// they are added; merging produces new entries.
type entry struct {
	key      string
	typename bool
	ref      ir.TypeRef
	leaf     typeexpr.Expr
	nested   *shape
	nullable bool
}

func newShape(parent string) *shape {
	return &shape{parent: parent, entries: make(map[string]*entry)}
}

// add inserts e, merging it with an entry already under the same key.
func (s *shape) add(e *entry) {
	s.addMerged(e, true)
}

// addMerged is add with the merge mode of mergeShapes.
func (s *shape) addMerged(e *entry, markMissing bool) {
	if prev, ok := s.entries[e.key]; ok {
		s.entries[e.key] = mergeEntries(prev, e, markMissing)
		return
	}
	s.keys = append(s.keys, e.key)
	s.entries[e.key] = e
}

func (s *shape) addSpread(name string) {
	for _, existing := range s.spreads {
		if existing == name {
			return
		}
	}
	s.spreads = append(s.spreads, name)
}

// branch returns the shape for a concrete type condition, creating it.
func (s *shape) branch(typeName string) *shape {
	for _, b := range s.branches {
		if b.parent == typeName {
			return b
		}
	}
	b := newShape(typeName)
	s.branches = append(s.branches, b)
	return b
}

// base returns s without its concrete branches.
func (s *shape) base() *shape {
	out := *s
	out.branches = nil
	return &out
}

func mergeEntries(a, b *entry, markMissing bool) *entry {
	out := *a
	out.nullable = a.nullable && b.nullable
	if a.nested != nil && b.nested != nil {
		out.nested = mergeShapes(a.nested, b.nested, markMissing)
	}
	return &out
}

func withNullable(e *entry) *entry {
	if e.nullable {
		return e
	}
	out := *e
	out.nullable = true
	return &out
}

// mergeShapes unions two shapes key by key. With markMissing, a key found
// on only one side becomes nullable.
func mergeShapes(a, b *shape, markMissing bool) *shape {
	out := newShape(a.parent)
	for _, k := range a.keys {
		e := a.entries[k]
		if _, shared := b.entries[k]; !shared && markMissing {
			e = withNullable(e)
		}
		out.addMerged(e, markMissing)
	}
	for _, k := range b.keys {
		e := b.entries[k]
		if _, shared := a.entries[k]; !shared && markMissing {
			e = withNullable(e)
		}
		out.addMerged(e, markMissing)
	}
	for _, name := range a.spreads {
		out.addSpread(name)
	}
	for _, name := range b.spreads {
		out.addSpread(name)
	}
	out.branches = append(out.branches, a.branches...)
	for _, br := range b.branches {
		merged := false
		for i, existing := range out.branches {
			if existing.parent == br.parent {
				out.branches[i] = mergeShapes(existing, br, markMissing)
				merged = true
				break
			}
		}
		if !merged {
			out.branches = append(out.branches, br)
		}
	}
	return out
}

// selectionBuilder turns selection trees into object types.
type selectionBuilder struct {
	schema    *ir.Schema
	scalars   *ScalarEnumMapper
	fragments *FragmentReferenceResolver
}

// Build returns the type produced by applying sels to a value of type
// parent. extra properties are appended to every object of the result.
func (b *selectionBuilder) Build(parent string, sels []ir.Selection, path string, extra ...typeexpr.Property) (typeexpr.Expr, error) {
	s := newShape(parent)
	if err := b.collect(s, sels, false, path); err != nil {
		return nil, err
	}
	return b.toExpr(s, extra), nil
}

func (b *selectionBuilder) collect(s *shape, sels []ir.Selection, nullable bool, path string) error {
	for _, sel := range sels {
		switch n := sel.(type) {
		case *ir.Field:
			e, err := b.field(n, nullable, path)
			if err != nil {
				return err
			}
			s.add(e)

		case *ir.FragmentSpread:
			s.addSpread(n.Name)

		case *ir.Condition:
			if err := b.collect(s, n.Selections, true, path); err != nil {
				return err
			}

		case *ir.InlineFragment:
			cond := n.TypeCondition
			if cond == "" || cond == s.parent {
				if err := b.collect(s, n.Selections, nullable, path); err != nil {
					return err
				}
				continue
			}
			t, ok := b.schema.Lookup(cond)
			if !ok {
				return errorf(CodeUnknownType, path, "unknown type condition %q", cond)
			}
			var err error
			switch {
			case t.Kind == ir.KindObject:
				err = b.collect(s.branch(cond), n.Selections, nullable, path)
			case t.Kind.IsAbstract():
				// Fields of another abstract type are present only for some
				// of the parent's possible types.
				err = b.collect(s, n.Selections, true, path)
			default:
				err = errorf(CodeMalformedSelection, path, "inline fragment on %s type %q", t.Kind, cond)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *selectionBuilder) field(f *ir.Field, nullable bool, path string) (*entry, error) {
	key := f.ResponseKey()
	fieldPath := path + "." + key

	if f.Name == ir.TypenameField {
		return &entry{
			key:      key,
			typename: true,
			ref:      ir.NonNullOf(ir.Named(ir.ScalarString)),
			nullable: nullable,
		}, nil
	}

	named := f.Type.NamedType()
	t, ok := b.schema.Lookup(named)
	if !ok {
		return nil, errorf(CodeUnknownType, fieldPath, "unknown type %q", named)
	}

	switch {
	case t.Kind.IsComposite():
		if len(f.Selections) == 0 {
			return nil, errorf(CodeMalformedSelection, fieldPath, "field of composite type %q has no selections", named)
		}
		nested := newShape(named)
		if err := b.collect(nested, f.Selections, false, fieldPath); err != nil {
			return nil, err
		}
		return &entry{key: key, ref: f.Type, nested: nested, nullable: nullable}, nil

	case t.Kind.IsLeaf():
		if len(f.Selections) > 0 {
			return nil, errorf(CodeMalformedSelection, fieldPath, "field of leaf type %q has selections", named)
		}
		leaf, err := b.scalars.Leaf(t, fieldPath)
		if err != nil {
			return nil, err
		}
		return &entry{key: key, ref: f.Type, leaf: leaf, nullable: nullable}, nil

	default:
		return nil, errorf(CodeMalformedSelection, fieldPath, "input object %q cannot be selected", named)
	}
}

// toExpr converts a shape. Concrete branches become union members, each
// merged with the unconditional selections; possible types without a
// branch share one fallback member.
func (b *selectionBuilder) toExpr(s *shape, extra []typeexpr.Property) typeexpr.Expr {
	if len(s.branches) == 0 {
		return b.object(s, false, extra)
	}

	base := s.base()
	covered := make(map[string]bool, len(s.branches))
	members := make([]typeexpr.Expr, 0, len(s.branches)+1)
	for _, br := range s.branches {
		covered[br.parent] = true
		merged := mergeShapes(base, br, false)
		merged.parent = br.parent
		members = append(members, b.toExpr(merged, extra))
	}
	for _, possible := range b.schema.PossibleTypes(s.parent) {
		if !covered[possible] {
			members = append(members, b.object(base, true, extra))
			break
		}
	}
	return typeexpr.UnionOf(members...)
}

func (b *selectionBuilder) object(s *shape, other bool, extra []typeexpr.Property) *typeexpr.Object {
	props := make([]typeexpr.Property, 0, len(s.keys)+1+len(extra))
	for _, k := range s.keys {
		props = append(props, typeexpr.Prop(k, b.entryType(s.entries[k], s.parent, other)))
	}
	if refs, ok := b.fragments.RefsProperty(s.spreads); ok {
		props = append(props, refs)
	}
	props = append(props, extra...)
	return typeexpr.ObjectOf(props...)
}

func (b *selectionBuilder) entryType(e *entry, parent string, other bool) typeexpr.Expr {
	var t typeexpr.Expr
	switch {
	case e.typename:
		t = b.typename(parent, other)
	case e.nested != nil:
		t = wrapType(e.ref, b.toExpr(e.nested, nil))
	default:
		t = wrapType(e.ref, e.leaf)
	}
	if e.nullable {
		t = typeexpr.NullableOf(t)
	}
	return t
}

// typename types the __typename meta field: a literal on concrete types,
// string on abstract ones.
func (b *selectionBuilder) typename(parent string, other bool) typeexpr.Expr {
	if other {
		return typeexpr.Lit(OtherTypename)
	}
	if t, ok := b.schema.Lookup(parent); ok && t.Kind == ir.KindObject {
		return typeexpr.Lit(parent)
	}
	return typeexpr.String
}

// wrapType applies the list and nullability modifiers of ref to inner.
func wrapType(ref ir.TypeRef, inner typeexpr.Expr) typeexpr.Expr {
	var t typeexpr.Expr
	if ref.OfType != nil {
		t = typeexpr.ArrayOf(wrapType(*ref.OfType, inner))
	} else {
		t = inner
	}
	if !ref.NonNull {
		t = typeexpr.NullableOf(t)
	}
	return t
}
