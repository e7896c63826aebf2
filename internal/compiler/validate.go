package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/relayts/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Schema reference errors (E101-E109)
	ErrUnknownType      = "E101" // type name not declared in the schema
	ErrInvalidFieldType = "E104" // field or variable type of the wrong kind
	ErrDuplicateName    = "E105" // duplicate document or variable name

	// Selection errors (E110-E119)
	ErrUndefinedFragment    = "E110" // spread of a fragment outside the set
	ErrMissingSelections    = "E111" // composite field without selections
	ErrLeafSelections       = "E112" // leaf field with selections
	ErrFragmentCycle        = "E113" // fragment spreads itself transitively
	ErrInvalidTypeCondition = "E114" // inline fragment or fragment on a non-composite type
	ErrUndefinedVariable    = "E115" // condition on an undeclared operation variable
	ErrUnknownField         = "E116" // field not defined on its parent type
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates compiled IR against the schema.
// Returns all errors found (does not fail-fast).
// Supports *ir.Context and single documents; a single document is checked
// without cross-document rules.
func Validate(v any) []ValidationError {
	switch node := v.(type) {
	case *ir.Context:
		return validateContext(node)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

// ValidateDocument checks one document against schema. ctx may be nil, in
// which case fragment spreads are not resolved.
func ValidateDocument(schema *ir.Schema, doc ir.Document, ctx *ir.Context) []ValidationError {
	dv := &documentValidator{schema: schema, ctx: ctx}
	switch d := doc.(type) {
	case *ir.Fragment:
		dv.validateFragment(d)
	case *ir.Operation:
		dv.validateOperation(d)
	}
	return dv.errs
}

func validateContext(ctx *ir.Context) []ValidationError {
	var errs []ValidationError
	for _, doc := range ctx.Documents() {
		errs = append(errs, ValidateDocument(ctx.Schema, doc, ctx)...)
	}

	// E113: fragment cycles
	for _, cycle := range AnalyzeFragmentCycles(ctx) {
		errs = append(errs, ValidationError{
			Field:   "fragment." + cycle.Path[0],
			Message: cycle.Message,
			Code:    ErrFragmentCycle,
		})
	}
	return errs
}

// documentValidator walks one document. variables is nil for fragments,
// whose conditions may use any variable of the including operation.
type documentValidator struct {
	schema    *ir.Schema
	ctx       *ir.Context
	variables map[string]bool
	errs      []ValidationError
}

func (v *documentValidator) add(field, code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
}

func (v *documentValidator) validateFragment(f *ir.Fragment) {
	path := "fragment." + f.Name
	t, ok := v.schema.Lookup(f.TypeCondition)
	switch {
	case !ok:
		v.add(path+".on", ErrUnknownType, "unknown type %q", f.TypeCondition)
		return
	case !t.Kind.IsComposite():
		v.add(path+".on", ErrInvalidTypeCondition, "fragment on %s type %q", t.Kind, f.TypeCondition)
		return
	}
	v.validateSelections(path, f.TypeCondition, f.Selections)
}

func (v *documentValidator) validateOperation(op *ir.Operation) {
	path := string(op.Kind) + "." + op.Name

	// E105/E104: variable declarations
	v.variables = make(map[string]bool, len(op.ArgumentDefinitions))
	for i, arg := range op.ArgumentDefinitions {
		argPath := fmt.Sprintf("%s.variables[%d]", path, i)
		if v.variables[arg.Name] {
			v.add(argPath, ErrDuplicateName, "duplicate variable name: %q", arg.Name)
		}
		v.variables[arg.Name] = true

		named := arg.Type.NamedType()
		t, ok := v.schema.Lookup(named)
		switch {
		case !ok:
			v.add(argPath, ErrUnknownType, "unknown type %q for variable %q", named, arg.Name)
		case !t.Kind.IsLeaf() && t.Kind != ir.KindInputObject:
			v.add(argPath, ErrInvalidFieldType, "variable %q has output type %q", arg.Name, named)
		}
	}

	t, ok := v.schema.Lookup(op.Type)
	if !ok || t.Kind != ir.KindObject {
		v.add(path, ErrUnknownType, "unknown %s root type %q", op.Kind, op.Type)
		return
	}
	v.validateSelections(path, op.Type, op.Selections)
}

func (v *documentValidator) validateSelections(path, parent string, sels []ir.Selection) {
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ir.Field:
			v.validateField(path, parent, s)

		case *ir.FragmentSpread:
			// E110: spread must name a fragment in the set
			if v.ctx == nil {
				continue
			}
			if _, ok := v.ctx.Fragment(s.Name); !ok {
				v.add(path, ErrUndefinedFragment, "undefined fragment %q", s.Name)
			}

		case *ir.InlineFragment:
			cond := s.TypeCondition
			if cond == "" {
				cond = parent
			}
			t, ok := v.schema.Lookup(cond)
			switch {
			case !ok:
				v.add(path, ErrUnknownType, "unknown type condition %q", cond)
			case !t.Kind.IsComposite():
				v.add(path, ErrInvalidTypeCondition, "inline fragment on %s type %q", t.Kind, cond)
			default:
				v.validateSelections(path, cond, s.Selections)
			}

		case *ir.Condition:
			// E115: operation conditions must use declared variables
			if v.variables != nil && !v.variables[s.Variable] {
				v.add(path, ErrUndefinedVariable, "undefined variable $%s", s.Variable)
			}
			v.validateSelections(path, parent, s.Selections)
		}
	}
}

func (v *documentValidator) validateField(path, parent string, f *ir.Field) {
	fieldPath := path + "." + f.ResponseKey()
	if f.Name != ir.TypenameField {
		// E116: the field must exist on its parent. Abstract inline
		// fragments are checked against their own type condition.
		if _, err := v.schema.FieldType(parent, f.Name); err != nil {
			v.add(fieldPath, ErrUnknownField, "%s", err.Error())
			return
		}
	}

	named := f.Type.NamedType()
	t, ok := v.schema.Lookup(named)
	if !ok {
		v.add(fieldPath, ErrUnknownType, "unknown type %q", named)
		return
	}
	switch {
	case t.Kind.IsComposite():
		if len(f.Selections) == 0 {
			v.add(fieldPath, ErrMissingSelections, "field of composite type %q requires selections", named)
			return
		}
		v.validateSelections(fieldPath, named, f.Selections)
	case t.Kind.IsLeaf():
		if len(f.Selections) > 0 {
			v.add(fieldPath, ErrLeafSelections, "field of leaf type %q cannot have selections", named)
		}
	default:
		v.add(fieldPath, ErrInvalidFieldType, "input object %q cannot be selected", named)
	}
}

// FormatErrors renders validation errors one per line.
func FormatErrors(errs []ValidationError) string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
