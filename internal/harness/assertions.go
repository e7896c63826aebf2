package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Document string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Document != "" {
		fmt.Fprintf(&buf, " (%s)", e.Document)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s\n", e.Expected, e.Actual)
	return buf.String()
}

func evaluate(r *Result, a Assertion) error {
	if a.Type == AssertInvalid {
		return assertInvalid(r, a)
	}

	out, ok := r.Output(a.Document)
	if !ok {
		actual := "no such document"
		if len(r.Invalid) > 0 {
			actual = fmt.Sprintf("set failed validation: %v", codes(r))
		}
		return &AssertionError{Type: a.Type, Document: a.Document, Expected: "an artifact", Actual: actual}
	}
	if a.Type != AssertError && out.Err != nil {
		return &AssertionError{Type: a.Type, Document: a.Document, Expected: "generation to succeed", Actual: out.Err.Error()}
	}

	switch a.Type {
	case AssertContains:
		if !strings.Contains(out.Text, a.Text) {
			return &AssertionError{Type: a.Type, Document: a.Document, Expected: fmt.Sprintf("text containing %q", a.Text), Actual: out.Text}
		}
	case AssertNotContains:
		if strings.Contains(out.Text, a.Text) {
			return &AssertionError{Type: a.Type, Document: a.Document, Expected: fmt.Sprintf("text without %q", a.Text), Actual: out.Text}
		}
	case AssertWarning:
		for _, w := range out.Warnings {
			if w.Code == a.Code {
				return nil
			}
		}
		return &AssertionError{Type: a.Type, Document: a.Document, Expected: "warning " + a.Code, Actual: fmt.Sprintf("%v", out.Warnings)}
	case AssertNoWarnings:
		if len(out.Warnings) > 0 {
			return &AssertionError{Type: a.Type, Document: a.Document, Expected: "no warnings", Actual: fmt.Sprintf("%v", out.Warnings)}
		}
	case AssertError:
		if out.Err == nil {
			return &AssertionError{Type: a.Type, Document: a.Document, Expected: "error " + a.Code, Actual: "generation succeeded"}
		}
		if out.Err.Code != a.Code {
			return &AssertionError{Type: a.Type, Document: a.Document, Expected: "error " + a.Code, Actual: out.Err.Error()}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func assertInvalid(r *Result, a Assertion) error {
	for _, e := range r.Invalid {
		if e.Code == a.Code {
			return nil
		}
	}
	return &AssertionError{Type: a.Type, Expected: "validation error " + a.Code, Actual: fmt.Sprintf("%v", codes(r))}
}

func codes(r *Result) []string {
	out := make([]string, len(r.Invalid))
	for i, e := range r.Invalid {
		out[i] = e.Code
	}
	return out
}
