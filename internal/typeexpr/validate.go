package typeexpr

import "fmt"

// ValidationResult lists normal-form violations found in a tree.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems describes each violation with the path where it occurred.
	Problems []string
}

// Validate checks that a tree is in the normal form the constructors
// produce. Renderers rely on it: a nested Nullable would print "| null"
// twice and a duplicated object key would not be valid TypeScript.
//
// Validate is a pure function with no side effects.
func Validate(e Expr) ValidationResult {
	v := &validator{problems: []string{}}
	v.validate(e, "$")
	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(path, format string, args ...any) {
	v.problems = append(v.problems, path+": "+fmt.Sprintf(format, args...))
}

func (v *validator) validate(e Expr, path string) {
	switch t := e.(type) {
	case nil:
		v.addProblem(path, "nil expression")
	case *Primitive:
		if t.Name == "" {
			v.addProblem(path, "primitive without name")
		}
	case *Literal:
	case *Named:
		if t.Name == "" {
			v.addProblem(path, "named type without name")
		}
	case *OpaqueRef:
		if t.Fragment == "" {
			v.addProblem(path, "fragment reference without name")
		}
	case *Array:
		v.validate(t.Elem, path+"[]")
	case *Nullable:
		if _, nested := t.Inner.(*Nullable); nested {
			v.addProblem(path, "nested nullable")
		}
		v.validate(t.Inner, path)
	case *Union:
		if len(t.Members) < 2 {
			v.addProblem(path, "union with %d member(s)", len(t.Members))
		}
		for i, m := range t.Members {
			switch m.(type) {
			case *Union:
				v.addProblem(path, "nested union at member %d", i)
			case *Nullable:
				v.addProblem(path, "nullable union member %d; hoist null out of the union", i)
			}
			v.validate(m, fmt.Sprintf("%s|%d", path, i))
		}
	case *Intersection:
		if len(t.Members) < 2 {
			v.addProblem(path, "intersection with %d member(s)", len(t.Members))
		}
		for i, m := range t.Members {
			v.validate(m, fmt.Sprintf("%s&%d", path, i))
		}
	case *Object:
		seen := make(map[string]bool, len(t.Props))
		for _, p := range t.Props {
			if seen[p.Key] {
				v.addProblem(path, "duplicate key %q", p.Key)
			}
			seen[p.Key] = true
			v.validate(p.Type, path+"."+p.Key)
		}
	default:
		v.addProblem(path, "unknown expression type %T", e)
	}
}
