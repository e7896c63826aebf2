package typeexpr

import (
	"strconv"
	"strings"
)

// Expr is a type expression.
//
// This is a sealed interface - only types in this package implement it.
type Expr interface {
	typeExpr() // Marker method - seals interface to this package
}

// Primitive is a built-in type such as string or number.
type Primitive struct {
	Name string
}

func (*Primitive) typeExpr() {}

// Shared primitives. They are immutable and safe to reuse.
var (
	String  = &Primitive{Name: "string"}
	Number  = &Primitive{Name: "number"}
	Boolean = &Primitive{Name: "boolean"}
	Unknown = &Primitive{Name: "unknown"}
	Never   = &Primitive{Name: "never"}
)

// Literal is a string literal type.
type Literal struct {
	Value string
}

func (*Literal) typeExpr() {}

// Lit returns a string literal type.
func Lit(value string) *Literal {
	return &Literal{Value: value}
}

// Named references a type declared elsewhere in the output, such as an
// enum or an input object, or a passthrough token from configuration.
type Named struct {
	Name string
}

func (*Named) typeExpr() {}

// NamedType returns a reference to a declared type.
func NamedType(name string) *Named {
	return &Named{Name: name}
}

// OpaqueRef is the nominal reference type of a fragment. Two fragments with
// identical shapes still have distinct references.
type OpaqueRef struct {
	Fragment string
}

func (*OpaqueRef) typeExpr() {}

// Ref returns the opaque reference type of a fragment.
func Ref(fragment string) *OpaqueRef {
	return &OpaqueRef{Fragment: fragment}
}

// Array is a read-only list of Elem.
type Array struct {
	Elem Expr
}

func (*Array) typeExpr() {}

// ArrayOf returns a read-only list type.
func ArrayOf(elem Expr) *Array {
	return &Array{Elem: elem}
}

// Nullable admits null in addition to Inner.
type Nullable struct {
	Inner Expr
}

func (*Nullable) typeExpr() {}

// NullableOf returns inner | null. It never nests Nullable.
func NullableOf(inner Expr) Expr {
	if n, ok := inner.(*Nullable); ok {
		return n
	}
	return &Nullable{Inner: inner}
}

// Union is a choice between Members, in first-seen order.
type Union struct {
	Members []Expr
}

func (*Union) typeExpr() {}

// UnionOf builds a union in normal form. A single member is returned as is;
// no members yield Never.
func UnionOf(members ...Expr) Expr {
	var flat []Expr
	nullable := false
	seen := make(map[string]bool)

	var add func(e Expr)
	add = func(e Expr) {
		switch m := e.(type) {
		case *Nullable:
			nullable = true
			add(m.Inner)
		case *Union:
			for _, inner := range m.Members {
				add(inner)
			}
		default:
			k := Key(e)
			if !seen[k] {
				seen[k] = true
				flat = append(flat, e)
			}
		}
	}
	for _, m := range members {
		add(m)
	}

	var out Expr
	switch len(flat) {
	case 0:
		out = Never
	case 1:
		out = flat[0]
	default:
		out = &Union{Members: flat}
	}
	if nullable {
		return NullableOf(out)
	}
	return out
}

// Intersection combines Members; used for fragment reference sets.
type Intersection struct {
	Members []Expr
}

func (*Intersection) typeExpr() {}

// IntersectionOf builds an intersection, flattened and deduplicated in
// first-seen order. A single member is returned as is.
func IntersectionOf(members ...Expr) Expr {
	var flat []Expr
	seen := make(map[string]bool)

	var add func(e Expr)
	add = func(e Expr) {
		if in, ok := e.(*Intersection); ok {
			for _, inner := range in.Members {
				add(inner)
			}
			return
		}
		k := Key(e)
		if !seen[k] {
			seen[k] = true
			flat = append(flat, e)
		}
	}
	for _, m := range members {
		add(m)
	}

	if len(flat) == 1 {
		return flat[0]
	}
	return &Intersection{Members: flat}
}

// Object is a structural record type. Property order is significant: it is
// the selection order and the emitted order.
type Object struct {
	Props []Property
}

func (*Object) typeExpr() {}

// Property is one key of an Object.
type Property struct {
	Key      string
	Type     Expr
	Optional bool // rendered as key?: T
}

// ObjectOf returns an object with the given properties.
func ObjectOf(props ...Property) *Object {
	return &Object{Props: props}
}

// Prop is shorthand for a required Property.
func Prop(key string, t Expr) Property {
	return Property{Key: key, Type: t}
}

// Key returns a structural identity for e. Two expressions with equal keys
// render identically.
func Key(e Expr) string {
	var b strings.Builder
	writeKey(&b, e)
	return b.String()
}

func writeKey(b *strings.Builder, e Expr) {
	switch t := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Primitive:
		b.WriteString(t.Name)
	case *Literal:
		b.WriteString(strconv.Quote(t.Value))
	case *Named:
		b.WriteString("@" + t.Name)
	case *OpaqueRef:
		b.WriteString("$ref:" + t.Fragment)
	case *Array:
		b.WriteString("[")
		writeKey(b, t.Elem)
		b.WriteString("]")
	case *Nullable:
		b.WriteString("?(")
		writeKey(b, t.Inner)
		b.WriteString(")")
	case *Union:
		writeList(b, "|(", t.Members)
	case *Intersection:
		writeList(b, "&(", t.Members)
	case *Object:
		b.WriteString("{")
		for i, p := range t.Props {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(strconv.Quote(p.Key))
			if p.Optional {
				b.WriteString("?")
			}
			b.WriteString(":")
			writeKey(b, p.Type)
		}
		b.WriteString("}")
	default:
		b.WriteString("<unknown>")
	}
}

func writeList(b *strings.Builder, open string, members []Expr) {
	b.WriteString(open)
	for i, m := range members {
		if i > 0 {
			b.WriteString(",")
		}
		writeKey(b, m)
	}
	b.WriteString(")")
}
