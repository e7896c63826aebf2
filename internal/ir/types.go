package ir

import (
	"fmt"
	"strings"
)

// TypeKind tags a SchemaType.
type TypeKind string

const (
	KindScalar      TypeKind = "SCALAR"
	KindEnum        TypeKind = "ENUM"
	KindObject      TypeKind = "OBJECT"
	KindInterface   TypeKind = "INTERFACE"
	KindUnion       TypeKind = "UNION"
	KindInputObject TypeKind = "INPUT_OBJECT"
)

// IsComposite reports whether values of this kind carry a selection set.
func (k TypeKind) IsComposite() bool {
	return k == KindObject || k == KindInterface || k == KindUnion
}

// IsAbstract reports whether the kind stands for several concrete types.
func (k TypeKind) IsAbstract() bool {
	return k == KindInterface || k == KindUnion
}

// IsLeaf reports whether values of this kind are scalars or enum values.
func (k TypeKind) IsLeaf() bool {
	return k == KindScalar || k == KindEnum
}

// SchemaType is a named type declared in the schema graph.
//
// Only the fields relevant to the kind are populated:
//   - OBJECT, INTERFACE: Fields (objects also Interfaces)
//   - UNION: Members
//   - ENUM: Values, in declaration order
//   - INPUT_OBJECT: InputFields
type SchemaType struct {
	Kind        TypeKind
	Name        string
	Fields      []FieldDef
	InputFields []InputFieldDef
	Values      []string
	Interfaces  []string
	Members     []string
}

// Field returns the field definition with the given name.
func (t *SchemaType) Field(name string) (FieldDef, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// FieldDef is an output field of an object or interface type.
type FieldDef struct {
	Name string
	Type TypeRef
	Args []ArgumentDefinition
}

// InputFieldDef is a field of an input object type.
type InputFieldDef struct {
	Name         string
	Type         TypeRef
	DefaultValue IRValue // nil when no default is declared
}

// TypeRef references a named type through optional list and non-null
// modifiers. A list is represented by OfType; Name is set only on the
// innermost reference.
//
//	[String!]  => TypeRef{OfType: &TypeRef{Name: "String", NonNull: true}}
type TypeRef struct {
	Name    string
	OfType  *TypeRef
	NonNull bool
}

// Named returns a nullable reference to a named type.
func Named(name string) TypeRef {
	return TypeRef{Name: name}
}

// NonNullOf returns ref with the non-null modifier set.
func NonNullOf(ref TypeRef) TypeRef {
	ref.NonNull = true
	return ref
}

// ListOf returns a nullable list of elem.
func ListOf(elem TypeRef) TypeRef {
	return TypeRef{OfType: &elem}
}

// IsList reports whether the outermost modifier (ignoring non-null) is a list.
func (r TypeRef) IsList() bool {
	return r.OfType != nil
}

// NamedType returns the name of the innermost named type.
func (r TypeRef) NamedType() string {
	for r.OfType != nil {
		r = *r.OfType
	}
	return r.Name
}

// String renders the reference in GraphQL notation.
func (r TypeRef) String() string {
	var s string
	if r.OfType != nil {
		s = "[" + r.OfType.String() + "]"
	} else {
		s = r.Name
	}
	if r.NonNull {
		s += "!"
	}
	return s
}

// ParseTypeRef parses GraphQL type notation such as "ID!" or "[[Int!]]!".
func ParseTypeRef(s string) (TypeRef, error) {
	ref, rest, err := parseTypeRef(strings.TrimSpace(s))
	if err != nil {
		return TypeRef{}, fmt.Errorf("parse type %q: %w", s, err)
	}
	if rest != "" {
		return TypeRef{}, fmt.Errorf("parse type %q: unexpected %q", s, rest)
	}
	return ref, nil
}

func parseTypeRef(s string) (TypeRef, string, error) {
	var ref TypeRef
	if strings.HasPrefix(s, "[") {
		elem, rest, err := parseTypeRef(strings.TrimSpace(s[1:]))
		if err != nil {
			return TypeRef{}, "", err
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "]") {
			return TypeRef{}, "", fmt.Errorf("missing closing bracket")
		}
		ref = ListOf(elem)
		s = strings.TrimSpace(rest[1:])
	} else {
		end := 0
		for end < len(s) && isNameByte(s[end], end == 0) {
			end++
		}
		if end == 0 {
			return TypeRef{}, "", fmt.Errorf("expected type name")
		}
		ref = Named(s[:end])
		s = strings.TrimSpace(s[end:])
	}
	if strings.HasPrefix(s, "!") {
		ref.NonNull = true
		s = strings.TrimSpace(s[1:])
	}
	return ref, s, nil
}

// isNameByte matches the GraphQL Name production: /[_A-Za-z][_0-9A-Za-z]*/.
func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}

// MustParseTypeRef is like ParseTypeRef but panics on error.
// Use only in tests or with constant input.
func MustParseTypeRef(s string) TypeRef {
	ref, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}
