package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/relayts/internal/typeexpr"
)

// Kind of the document being emitted.
const (
	KindFragment = "fragment"
)

// Declaration is a named type emitted as `export type Name = Type;`.
type Declaration struct {
	Name string
	Type typeexpr.Expr
}

// Document holds the type trees derived for one document.
type Document struct {
	Name string
	Kind string // "fragment", "query", "mutation" or "subscription"

	// Type is the fragment shape or the operation response.
	Type typeexpr.Expr

	// Variables is nil when the variables shape was not derived.
	Variables typeexpr.Expr

	// RawResponse is nil unless a raw response shape was requested.
	RawResponse typeexpr.Expr
}

// Input is everything the emitter needs to print one artifact.
type Input struct {
	Document Document

	// Enums and InputObjects are declared locally. Duplicates by name are
	// dropped; the first declaration wins.
	Enums        []Declaration
	InputObjects []Declaration

	// EnumsModule, when set, imports enums from that module instead of
	// declaring them.
	EnumsModule string

	// ExistingFragments lists fragments whose artifacts exist; references
	// to them are imported. Others are forward-declared as any.
	ExistingFragments map[string]bool

	Policy ImportPolicy
}

// Emit renders the artifact text for in. The document trees are checked
// for normal form first; a violation is an error.
func Emit(in Input) (string, error) {
	doc := in.Document
	if doc.Name == "" {
		return "", fmt.Errorf("emit: document has no name")
	}
	roots := []struct {
		label string
		expr  typeexpr.Expr
	}{
		{"type", doc.Type},
		{"variables", doc.Variables},
		{"raw response", doc.RawResponse},
	}
	for _, r := range roots {
		if r.expr == nil {
			continue
		}
		if res := typeexpr.Validate(r.expr); !res.Valid {
			return "", fmt.Errorf("emit %s: invalid %s tree: %s", doc.Name, r.label, strings.Join(res.Problems, "; "))
		}
	}

	var lines []string

	refs := collectRefs(doc.Type, doc.Variables, doc.RawResponse)
	delete(refs, doc.Name)
	refNames := sortedKeys(refs)

	var forward []string
	for _, name := range refNames {
		if in.ExistingFragments[name] {
			ref := RefTypeName(name)
			lines = append(lines, fmt.Sprintf("import { %s } from %s;", ref, quoteString(in.Policy.Path(FragmentModule(name)))))
		} else {
			forward = append(forward, name)
		}
	}

	enums := dedupe(in.Enums)
	if in.EnumsModule != "" && len(enums) > 0 {
		names := make([]string, len(enums))
		for i, d := range enums {
			names[i] = d.Name
		}
		lines = append(lines, fmt.Sprintf("import { %s } from %s;", strings.Join(names, ", "), quoteString(in.EnumsModule)))
	}

	for _, name := range forward {
		lines = append(lines, fmt.Sprintf("export type %s = any;", RefTypeName(name)))
	}

	if in.EnumsModule == "" {
		for _, d := range enums {
			lines = append(lines, declare(d.Name, d.Type))
		}
	}
	for _, d := range dedupe(in.InputObjects) {
		lines = append(lines, declare(d.Name, d.Type))
	}

	if doc.Kind == KindFragment {
		ref := RefTypeName(doc.Name)
		lines = append(lines,
			fmt.Sprintf("declare const _%s: unique symbol;", ref),
			fmt.Sprintf("export type %s = typeof _%s;", ref, ref),
			declare(doc.Name, doc.Type),
		)
	} else {
		if doc.Variables != nil {
			lines = append(lines, declare(doc.Name+"Variables", doc.Variables))
		}
		lines = append(lines, declare(doc.Name+"Response", doc.Type))
		if doc.RawResponse != nil {
			lines = append(lines, declare(doc.Name+"RawResponse", doc.RawResponse))
		}
		lines = append(lines, declare(doc.Name, operationType(doc)))
	}

	return strings.Join(lines, "\n") + "\n", nil
}

// operationType is the combined { response; variables; rawResponse? } type.
func operationType(doc Document) typeexpr.Expr {
	props := []typeexpr.Property{
		typeexpr.Prop("response", typeexpr.NamedType(doc.Name+"Response")),
	}
	if doc.Variables != nil {
		props = append(props, typeexpr.Prop("variables", typeexpr.NamedType(doc.Name+"Variables")))
	}
	if doc.RawResponse != nil {
		props = append(props, typeexpr.Prop("rawResponse", typeexpr.NamedType(doc.Name+"RawResponse")))
	}
	return typeexpr.ObjectOf(props...)
}

func declare(name string, t typeexpr.Expr) string {
	return "export type " + name + " = " + Render(t) + ";"
}

// dedupe drops repeated names and sorts by name.
func dedupe(decls []Declaration) []Declaration {
	seen := make(map[string]bool, len(decls))
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// collectRefs gathers every fragment named by an OpaqueRef in the trees.
func collectRefs(exprs ...typeexpr.Expr) map[string]bool {
	refs := make(map[string]bool)
	var walk func(e typeexpr.Expr)
	walk = func(e typeexpr.Expr) {
		switch t := e.(type) {
		case *typeexpr.OpaqueRef:
			refs[t.Fragment] = true
		case *typeexpr.Array:
			walk(t.Elem)
		case *typeexpr.Nullable:
			walk(t.Inner)
		case *typeexpr.Union:
			for _, m := range t.Members {
				walk(m)
			}
		case *typeexpr.Intersection:
			for _, m := range t.Members {
				walk(m)
			}
		case *typeexpr.Object:
			for _, p := range t.Props {
				walk(p.Type)
			}
		}
	}
	for _, e := range exprs {
		if e != nil {
			walk(e)
		}
	}
	return refs
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
