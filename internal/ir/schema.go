package ir

import (
	"fmt"
	"sort"
)

// Built-in scalar names present in every schema.
const (
	ScalarID      = "ID"
	ScalarString  = "String"
	ScalarInt     = "Int"
	ScalarFloat   = "Float"
	ScalarBoolean = "Boolean"
)

// TypenameField is the meta field available on every composite type.
const TypenameField = "__typename"

// Schema is an arena of SchemaType values addressed by name.
//
// Types reference each other only by name, so cyclic graphs (interfaces and
// their implementors, recursive input objects) need no ownership cycles.
// A Schema is mutable only while it is being built; once handed to the
// generator it is read-only and safe to share across goroutines.
type Schema struct {
	types []SchemaType
	index map[string]int

	QueryType        string
	MutationType     string
	SubscriptionType string
}

// NewSchema returns a schema holding only the built-in scalars.
func NewSchema() *Schema {
	s := &Schema{
		index:            make(map[string]int),
		QueryType:        "Query",
		MutationType:     "Mutation",
		SubscriptionType: "Subscription",
	}
	for _, name := range []string{ScalarID, ScalarString, ScalarInt, ScalarFloat, ScalarBoolean} {
		s.types = append(s.types, SchemaType{Kind: KindScalar, Name: name})
		s.index[name] = len(s.types) - 1
	}
	return s
}

// Add inserts a type into the arena. Redeclaring a built-in scalar is a
// no-op; redeclaring any other name is an error.
func (s *Schema) Add(t SchemaType) error {
	if t.Name == "" {
		return fmt.Errorf("schema type has no name")
	}
	if i, ok := s.index[t.Name]; ok {
		if t.Kind == KindScalar && s.types[i].Kind == KindScalar && isBuiltinScalar(t.Name) {
			return nil
		}
		return fmt.Errorf("duplicate type %q", t.Name)
	}
	s.types = append(s.types, t)
	s.index[t.Name] = len(s.types) - 1
	return nil
}

// Lookup returns the type with the given name.
// The returned pointer addresses the arena slot and must not be modified.
func (s *Schema) Lookup(name string) (*SchemaType, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return &s.types[i], true
}

// Types returns all type names in declaration order.
func (s *Schema) Types() []string {
	names := make([]string, len(s.types))
	for i, t := range s.types {
		names[i] = t.Name
	}
	return names
}

// FieldType resolves the declared type of field on the named parent type.
// The __typename meta field resolves to String! on every composite type.
func (s *Schema) FieldType(parent, field string) (TypeRef, error) {
	t, ok := s.Lookup(parent)
	if !ok {
		return TypeRef{}, fmt.Errorf("unknown type %q", parent)
	}
	if !t.Kind.IsComposite() {
		return TypeRef{}, fmt.Errorf("type %q of kind %s has no fields", parent, t.Kind)
	}
	if field == TypenameField {
		return NonNullOf(Named(ScalarString)), nil
	}
	if t.Kind == KindUnion {
		return TypeRef{}, fmt.Errorf("union %q has no field %q", parent, field)
	}
	f, ok := t.Field(field)
	if !ok {
		return TypeRef{}, fmt.Errorf("type %q has no field %q", parent, field)
	}
	return f.Type, nil
}

// PossibleTypes returns the concrete object types a value of the named type
// may have at runtime, sorted by name. For an object type that is the type
// itself.
func (s *Schema) PossibleTypes(name string) []string {
	t, ok := s.Lookup(name)
	if !ok {
		return nil
	}
	switch t.Kind {
	case KindObject:
		return []string{t.Name}
	case KindUnion:
		out := append([]string(nil), t.Members...)
		sort.Strings(out)
		return out
	case KindInterface:
		var out []string
		for _, candidate := range s.types {
			if candidate.Kind != KindObject {
				continue
			}
			for _, iface := range candidate.Interfaces {
				if iface == name {
					out = append(out, candidate.Name)
					break
				}
			}
		}
		sort.Strings(out)
		return out
	default:
		return nil
	}
}

func isBuiltinScalar(name string) bool {
	switch name {
	case ScalarID, ScalarString, ScalarInt, ScalarFloat, ScalarBoolean:
		return true
	}
	return false
}
