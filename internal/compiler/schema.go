package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/relayts/internal/ir"
)

// CompileSchema parses a CUE value into a Schema.
//
// The value is the schema struct itself:
//
//	schema: {
//		query: "Query" // optional, also mutation and subscription
//		scalar: Color: {}
//		enum: Mood: ["HAPPY", "SAD"]
//		interface: Node: fields: id: "ID!"
//		object: User: {
//			implements: ["Node"]
//			fields: {
//				id:      "ID!"
//				friends: {type: "[User]", args: first: "Int"}
//			}
//		}
//		union: Entity: ["User"]
//		input: UserFilter: fields: size: {type: "Int!", default: 10}
//	}
//
// Field types use GraphQL notation. Every referenced type must be declared
// (built-in scalars always are).
func CompileSchema(v cue.Value) (*ir.Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &schemaCompiler{schema: ir.NewSchema()}

	for _, root := range []struct {
		label string
		dst   *string
	}{
		{"query", &c.schema.QueryType},
		{"mutation", &c.schema.MutationType},
		{"subscription", &c.schema.SubscriptionType},
	} {
		name, found, err := lookupString(v, root.label)
		if err != nil {
			return nil, err
		}
		if found {
			*root.dst = name
		}
	}

	sections := []struct {
		label string
		parse func(name string, v cue.Value) (ir.SchemaType, error)
	}{
		{"scalar", c.parseScalar},
		{"enum", c.parseEnum},
		{"interface", c.parseComposite(ir.KindInterface)},
		{"object", c.parseComposite(ir.KindObject)},
		{"union", c.parseUnion},
		{"input", c.parseInput},
	}
	for _, sec := range sections {
		secVal := v.LookupPath(cue.ParsePath(sec.label))
		if !secVal.Exists() {
			continue
		}
		iter, err := secVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			t, err := sec.parse(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			if err := c.schema.Add(t); err != nil {
				return nil, &CompileError{
					Field:   sec.label + "." + iter.Label(),
					Message: err.Error(),
					Pos:     iter.Value().Pos(),
				}
			}
		}
	}

	if err := c.resolve(); err != nil {
		return nil, err
	}
	return c.schema, nil
}

// schemaCompiler records every type reference while parsing so that
// forward references can be checked once all types are declared.
type schemaCompiler struct {
	schema *ir.Schema
	refs   []typeReference
}

type typeReference struct {
	field string
	name  string
	want  func(ir.TypeKind) bool
	what  string
	pos   token.Pos
}

func (c *schemaCompiler) expect(field, name, what string, pos token.Pos, want func(ir.TypeKind) bool) {
	c.refs = append(c.refs, typeReference{field: field, name: name, want: want, what: what, pos: pos})
}

func (c *schemaCompiler) resolve() error {
	for _, ref := range c.refs {
		t, ok := c.schema.Lookup(ref.name)
		if !ok {
			return &CompileError{Field: ref.field, Message: fmt.Sprintf("unknown type %q", ref.name), Pos: ref.pos}
		}
		if !ref.want(t.Kind) {
			return &CompileError{
				Field:   ref.field,
				Message: fmt.Sprintf("%q is a %s, expected %s", ref.name, t.Kind, ref.what),
				Pos:     ref.pos,
			}
		}
	}
	for _, root := range []string{c.schema.QueryType, c.schema.MutationType, c.schema.SubscriptionType} {
		if t, ok := c.schema.Lookup(root); ok && t.Kind != ir.KindObject {
			return &CompileError{Field: "schema", Message: fmt.Sprintf("root type %q is a %s", root, t.Kind)}
		}
	}
	return nil
}

func isOutputKind(k ir.TypeKind) bool { return k != ir.KindInputObject }

func isInputKind(k ir.TypeKind) bool { return k.IsLeaf() || k == ir.KindInputObject }

func (c *schemaCompiler) parseScalar(name string, v cue.Value) (ir.SchemaType, error) {
	return ir.SchemaType{Kind: ir.KindScalar, Name: name}, nil
}

func (c *schemaCompiler) parseEnum(name string, v cue.Value) (ir.SchemaType, error) {
	values, err := stringList(v)
	if err != nil {
		return ir.SchemaType{}, err
	}
	if len(values) == 0 {
		return ir.SchemaType{}, &CompileError{Field: "enum." + name, Message: "enum has no values", Pos: v.Pos()}
	}
	return ir.SchemaType{Kind: ir.KindEnum, Name: name, Values: values}, nil
}

func (c *schemaCompiler) parseUnion(name string, v cue.Value) (ir.SchemaType, error) {
	members, err := stringList(v)
	if err != nil {
		return ir.SchemaType{}, err
	}
	for _, m := range members {
		c.expect("union."+name, m, "an object type", v.Pos(), func(k ir.TypeKind) bool { return k == ir.KindObject })
	}
	return ir.SchemaType{Kind: ir.KindUnion, Name: name, Members: members}, nil
}

func (c *schemaCompiler) parseComposite(kind ir.TypeKind) func(string, cue.Value) (ir.SchemaType, error) {
	section := "object"
	if kind == ir.KindInterface {
		section = "interface"
	}
	return func(name string, v cue.Value) (ir.SchemaType, error) {
		t := ir.SchemaType{Kind: kind, Name: name}
		path := section + "." + name

		implVal := v.LookupPath(cue.ParsePath("implements"))
		if implVal.Exists() {
			ifaces, err := stringList(implVal)
			if err != nil {
				return t, err
			}
			for _, iface := range ifaces {
				c.expect(path+".implements", iface, "an interface", implVal.Pos(), func(k ir.TypeKind) bool { return k == ir.KindInterface })
			}
			t.Interfaces = ifaces
		}

		fieldsVal := v.LookupPath(cue.ParsePath("fields"))
		if !fieldsVal.Exists() {
			return t, &CompileError{Field: path + ".fields", Message: "fields are required", Pos: v.Pos()}
		}
		iter, err := fieldsVal.Fields()
		if err != nil {
			return t, formatCUEError(err)
		}
		for iter.Next() {
			fieldPath := path + ".fields." + iter.Label()
			ref, rest, err := c.parseTypeEntry(fieldPath, iter.Value(), isOutputKind, "an output type")
			if err != nil {
				return t, err
			}
			def := ir.FieldDef{Name: iter.Label(), Type: ref}
			if rest.Exists() {
				if argsVal := rest.LookupPath(cue.ParsePath("args")); argsVal.Exists() {
					def.Args, err = c.parseArguments(fieldPath+".args", argsVal)
					if err != nil {
						return t, err
					}
				}
			}
			t.Fields = append(t.Fields, def)
		}
		return t, nil
	}
}

func (c *schemaCompiler) parseInput(name string, v cue.Value) (ir.SchemaType, error) {
	t := ir.SchemaType{Kind: ir.KindInputObject, Name: name}
	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return t, &CompileError{Field: "input." + name + ".fields", Message: "fields are required", Pos: v.Pos()}
	}
	args, err := c.parseArguments("input."+name+".fields", fieldsVal)
	if err != nil {
		return t, err
	}
	for _, a := range args {
		t.InputFields = append(t.InputFields, ir.InputFieldDef{Name: a.Name, Type: a.Type, DefaultValue: a.DefaultValue})
	}
	return t, nil
}

// parseArguments parses a struct of input values: name: "Type" or
// name: {type: "Type", default: value}.
func (c *schemaCompiler) parseArguments(path string, v cue.Value) ([]ir.ArgumentDefinition, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var args []ir.ArgumentDefinition
	for iter.Next() {
		argPath := path + "." + iter.Label()
		ref, rest, err := c.parseTypeEntry(argPath, iter.Value(), isInputKind, "an input type")
		if err != nil {
			return nil, err
		}
		arg := ir.ArgumentDefinition{Name: iter.Label(), Type: ref}
		if rest.Exists() {
			if def := rest.LookupPath(cue.ParsePath("default")); def.Exists() {
				arg.DefaultValue, err = compileValue(def, argPath+".default")
				if err != nil {
					return nil, err
				}
			}
		}
		args = append(args, arg)
	}
	return args, nil
}

// parseTypeEntry accepts either a type string or a struct with a type
// field. rest is the struct form (or a non-existent value).
func (c *schemaCompiler) parseTypeEntry(path string, v cue.Value, want func(ir.TypeKind) bool, what string) (ir.TypeRef, cue.Value, error) {
	var rest cue.Value
	typeVal := v
	if v.IncompleteKind() == cue.StructKind {
		rest = v
		typeVal = v.LookupPath(cue.ParsePath("type"))
		if !typeVal.Exists() {
			return ir.TypeRef{}, rest, &CompileError{Field: path, Message: "type is required", Pos: v.Pos()}
		}
	}
	ref, err := parseTypeValue(path, typeVal)
	if err != nil {
		return ir.TypeRef{}, rest, err
	}
	c.expect(path, ref.NamedType(), what, typeVal.Pos(), want)
	return ref, rest, nil
}

// parseTypeValue decodes a GraphQL type string such as "[ID!]!".
func parseTypeValue(path string, v cue.Value) (ir.TypeRef, error) {
	s, err := v.String()
	if err != nil {
		return ir.TypeRef{}, &CompileError{Field: path, Message: "type must be a string", Pos: v.Pos()}
	}
	ref, err := ir.ParseTypeRef(s)
	if err != nil {
		return ir.TypeRef{}, &CompileError{Field: path, Message: err.Error(), Pos: v.Pos()}
	}
	return ref, nil
}
