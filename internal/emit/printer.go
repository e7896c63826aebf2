package emit

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/relayts/internal/typeexpr"
)

const indentUnit = "    "

// RefTypeName returns the name of a fragment's opaque reference type.
func RefTypeName(fragment string) string {
	return fragment + "$ref"
}

// Render returns the TypeScript text of e at nesting depth 0.
func Render(e typeexpr.Expr) string {
	var b strings.Builder
	render(&b, e, 0)
	return b.String()
}

func render(b *strings.Builder, e typeexpr.Expr, depth int) {
	switch t := e.(type) {
	case *typeexpr.Primitive:
		b.WriteString(t.Name)
	case *typeexpr.Literal:
		b.WriteString(quoteString(t.Value))
	case *typeexpr.Named:
		b.WriteString(t.Name)
	case *typeexpr.OpaqueRef:
		b.WriteString(RefTypeName(t.Fragment))
	case *typeexpr.Array:
		b.WriteString("ReadonlyArray<")
		render(b, t.Elem, depth)
		b.WriteString(">")
	case *typeexpr.Nullable:
		render(b, t.Inner, depth)
		b.WriteString(" | null")
	case *typeexpr.Union:
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString(" | ")
			}
			render(b, m, depth)
		}
	case *typeexpr.Intersection:
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString(" & ")
			}
			renderGrouped(b, m, depth)
		}
	case *typeexpr.Object:
		renderObject(b, t, depth)
	default:
		panic(fmt.Sprintf("emit: unhandled expression type %T", e))
	}
}

// renderGrouped parenthesizes unions inside an intersection; & binds
// tighter than |.
func renderGrouped(b *strings.Builder, e typeexpr.Expr, depth int) {
	switch e.(type) {
	case *typeexpr.Union:
		b.WriteString("(")
		render(b, e, depth)
		b.WriteString(")")
	default:
		render(b, e, depth)
	}
}

func renderObject(b *strings.Builder, o *typeexpr.Object, depth int) {
	if len(o.Props) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	inner := strings.Repeat(indentUnit, depth+1)
	for _, p := range o.Props {
		b.WriteString(inner)
		b.WriteString("readonly ")
		b.WriteString(propertyKey(p.Key))
		if p.Optional {
			b.WriteString("?")
		}
		b.WriteString(": ")
		render(b, p.Type, depth+1)
		b.WriteString(";\n")
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}")
}

// propertyKey returns a properly quoted TypeScript property key.
// Valid identifiers are returned as-is; hidden keys such as " $refType"
// are double-quoted.
func propertyKey(name string) string {
	if name == "" {
		return `""`
	}
	for i, r := range name {
		ident := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i > 0 {
			ident = ident || (r >= '0' && r <= '9')
		}
		if !ident {
			return quoteString(name)
		}
	}
	return name
}

// quoteString renders a double-quoted string literal. Values are NFC
// normalized so canonically equivalent enum values print identically.
func quoteString(s string) string {
	return strconv.Quote(norm.NFC.String(s))
}
