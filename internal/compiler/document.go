package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/relayts/internal/ir"
)

// Document sections of a CUE compilation set, in compile order.
var documentSections = []string{"fragment", "query", "mutation", "subscription"}

// Compile builds a compilation set from a CUE value holding a schema
// struct and document sections:
//
//	schema: {...}
//	fragment: UserCard: {on: "User", selections: [...]}
//	query: ViewerQuery: {variables: {...}, selections: [...]}
//
// All compile errors are collected; the context is nil only when the
// schema itself failed to compile.
func Compile(v cue.Value) (*ir.Context, []error) {
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	schemaVal := v.LookupPath(cue.ParsePath("schema"))
	if !schemaVal.Exists() {
		return nil, []error{&CompileError{Field: "schema", Message: "schema is required", Pos: v.Pos()}}
	}
	schema, err := CompileSchema(schemaVal)
	if err != nil {
		return nil, []error{err}
	}

	ctx := ir.NewContext(schema)
	var errs []error
	for _, section := range documentSections {
		secVal := v.LookupPath(cue.ParsePath(section))
		if !secVal.Exists() {
			continue
		}
		iter, err := secVal.Fields()
		if err != nil {
			errs = append(errs, formatCUEError(err))
			continue
		}
		for iter.Next() {
			doc, err := CompileDocument(schema, section, iter.Label(), iter.Value())
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := ctx.Add(doc); err != nil {
				errs = append(errs, &CompileError{
					Field:   section + "." + iter.Label(),
					Message: err.Error(),
					Pos:     iter.Value().Pos(),
				})
			}
		}
	}
	return ctx, errs
}

// CompileDocument parses one document. kind is "fragment" or an operation
// kind; field types are resolved against schema as selections are parsed.
func CompileDocument(schema *ir.Schema, kind, name string, v cue.Value) (ir.Document, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	c := &documentCompiler{schema: schema}
	if kind == "fragment" {
		return c.fragment(name, v)
	}
	if !ir.ValidOperationKinds[ir.OperationKind(kind)] {
		return nil, &CompileError{Field: kind, Message: fmt.Sprintf("unknown document kind %q", kind), Pos: v.Pos()}
	}
	return c.operation(ir.OperationKind(kind), name, v)
}

type documentCompiler struct {
	schema *ir.Schema
}

func (c *documentCompiler) fragment(name string, v cue.Value) (*ir.Fragment, error) {
	path := "fragment." + name
	on, found, err := lookupString(v, "on")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &CompileError{Field: path + ".on", Message: "type condition is required", Pos: v.Pos()}
	}
	if err := c.checkComposite(path+".on", on, v); err != nil {
		return nil, err
	}
	plural, err := lookupBool(v, "plural")
	if err != nil {
		return nil, err
	}
	sels, err := c.selectionSet(path, on, v)
	if err != nil {
		return nil, err
	}
	return &ir.Fragment{Name: name, TypeCondition: on, Selections: sels, Plural: plural}, nil
}

func (c *documentCompiler) operation(kind ir.OperationKind, name string, v cue.Value) (*ir.Operation, error) {
	path := string(kind) + "." + name
	root := c.rootType(kind)
	if err := c.checkComposite(path, root, v); err != nil {
		return nil, err
	}

	op := &ir.Operation{Kind: kind, Name: name, Type: root}

	if varsVal := v.LookupPath(cue.ParsePath("variables")); varsVal.Exists() {
		sc := &schemaCompiler{schema: c.schema}
		args, err := sc.parseArguments(path+".variables", varsVal)
		if err != nil {
			return nil, err
		}
		if err := sc.resolve(); err != nil {
			return nil, err
		}
		op.ArgumentDefinitions = args
	}

	raw, err := lookupBool(v, "rawResponse")
	if err != nil {
		return nil, err
	}
	op.RawResponse = raw

	if op.Selections, err = c.selectionSet(path, root, v); err != nil {
		return nil, err
	}
	return op, nil
}

func (c *documentCompiler) rootType(kind ir.OperationKind) string {
	switch kind {
	case ir.OperationMutation:
		return c.schema.MutationType
	case ir.OperationSubscription:
		return c.schema.SubscriptionType
	default:
		return c.schema.QueryType
	}
}

func (c *documentCompiler) checkComposite(path, name string, v cue.Value) error {
	t, ok := c.schema.Lookup(name)
	if !ok {
		return &CompileError{Field: path, Message: fmt.Sprintf("unknown type %q", name), Pos: v.Pos()}
	}
	if !t.Kind.IsComposite() {
		return &CompileError{Field: path, Message: fmt.Sprintf("type %q is a %s, expected a composite type", name, t.Kind), Pos: v.Pos()}
	}
	return nil
}

// selectionSet parses the required selections list of v.
func (c *documentCompiler) selectionSet(path, parent string, v cue.Value) ([]ir.Selection, error) {
	selsVal := v.LookupPath(cue.ParsePath("selections"))
	if !selsVal.Exists() {
		return nil, &CompileError{Field: path + ".selections", Message: "selections are required", Pos: v.Pos()}
	}
	return c.selections(path, parent, selsVal)
}

// selections parses a list of selection entries. An entry is a field name
// string or a struct with exactly one of field, spread, on, include, skip.
func (c *documentCompiler) selections(path, parent string, v cue.Value) ([]ir.Selection, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []ir.Selection
	for i := 0; iter.Next(); i++ {
		sel, err := c.selection(fmt.Sprintf("%s.selections[%d]", path, i), parent, iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

func (c *documentCompiler) selection(path, parent string, v cue.Value) (ir.Selection, error) {
	if name, err := v.String(); err == nil {
		return c.field(path, parent, name, "", v)
	}

	var kinds []string
	for _, k := range []string{"field", "spread", "on", "include", "skip"} {
		if v.LookupPath(cue.ParsePath(k)).Exists() {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) != 1 {
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("selection needs exactly one of field, spread, on, include, skip; got %v", kinds),
			Pos:     v.Pos(),
		}
	}

	value, _, err := lookupString(v, kinds[0])
	if err != nil {
		return nil, err
	}

	switch kinds[0] {
	case "field":
		alias, _, err := lookupString(v, "alias")
		if err != nil {
			return nil, err
		}
		return c.field(path, parent, value, alias, v)

	case "spread":
		return &ir.FragmentSpread{Name: value}, nil

	case "on":
		if err := c.checkComposite(path+".on", value, v); err != nil {
			return nil, err
		}
		sels, err := c.selectionSet(path, value, v)
		if err != nil {
			return nil, err
		}
		return &ir.InlineFragment{TypeCondition: value, Selections: sels}, nil

	default: // include, skip
		sels, err := c.selectionSet(path, parent, v)
		if err != nil {
			return nil, err
		}
		return &ir.Condition{Variable: value, Passing: kinds[0] == "include", Selections: sels}, nil
	}
}

func (c *documentCompiler) field(path, parent, name, alias string, v cue.Value) (ir.Selection, error) {
	ref, err := c.schema.FieldType(parent, name)
	if err != nil {
		return nil, &CompileError{Field: path, Message: err.Error(), Pos: v.Pos()}
	}
	f := &ir.Field{Alias: alias, Name: name, Type: ref}

	if v.IncompleteKind() == cue.StructKind {
		if selsVal := v.LookupPath(cue.ParsePath("selections")); selsVal.Exists() {
			f.Selections, err = c.selections(path, ref.NamedType(), selsVal)
			if err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
