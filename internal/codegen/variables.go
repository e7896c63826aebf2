package codegen

import (
	"github.com/roach88/relayts/internal/emit"
	"github.com/roach88/relayts/internal/ir"
	"github.com/roach88/relayts/internal/typeexpr"
)

// VariablesTypeBuilder derives the variables shape of an operation from its
// argument definitions. Input objects are declared by name so recursive
// input types terminate.
type VariablesTypeBuilder struct {
	schema   *ir.Schema
	scalars  *ScalarEnumMapper
	optional map[string]bool

	inputs   []emit.Declaration
	declared map[string]bool
}

// NewVariablesTypeBuilder creates a builder that shares scalars with the
// response builder, so enums used by both are declared once.
func NewVariablesTypeBuilder(schema *ir.Schema, scalars *ScalarEnumMapper, optionalFields []string) *VariablesTypeBuilder {
	return &VariablesTypeBuilder{
		schema:   schema,
		scalars:  scalars,
		optional: stringSet(optionalFields),
		declared: make(map[string]bool),
	}
}

// BuildVariables returns the object type of root's argument definitions.
// A variable is optional when it is nullable, has a default, or is listed
// in the optional fields.
func (b *VariablesTypeBuilder) BuildVariables(root *ir.Root) (typeexpr.Expr, error) {
	path := root.Name + "Variables"
	props := make([]typeexpr.Property, 0, len(root.ArgumentDefinitions))
	for _, arg := range root.ArgumentDefinitions {
		t, err := b.inputType(arg.Type, path+"."+arg.Name)
		if err != nil {
			return nil, err
		}
		props = append(props, typeexpr.Property{
			Key:      arg.Name,
			Type:     t,
			Optional: b.isOptional(arg.Name, arg.Type, arg.DefaultValue),
		})
	}
	return typeexpr.ObjectOf(props...), nil
}

// InputObjects returns the input object declarations reached so far.
func (b *VariablesTypeBuilder) InputObjects() []emit.Declaration {
	return b.inputs
}

func (b *VariablesTypeBuilder) isOptional(name string, ref ir.TypeRef, def ir.IRValue) bool {
	return !ref.NonNull || def != nil || b.optional[name]
}

func (b *VariablesTypeBuilder) inputType(ref ir.TypeRef, path string) (typeexpr.Expr, error) {
	named := ref.NamedType()
	t, ok := b.schema.Lookup(named)
	if !ok {
		return nil, errorf(CodeUnknownType, path, "unknown type %q", named)
	}

	var inner typeexpr.Expr
	switch {
	case t.Kind.IsLeaf():
		leaf, err := b.scalars.Leaf(t, path)
		if err != nil {
			return nil, err
		}
		inner = leaf
	case t.Kind == ir.KindInputObject:
		if err := b.declareInput(t, path); err != nil {
			return nil, err
		}
		inner = typeexpr.NamedType(t.Name)
	default:
		return nil, errorf(CodeMalformedSelection, path, "output type %q used as input", named)
	}
	return wrapType(ref, inner), nil
}

// declareInput records an input object declaration. The name is marked
// before its fields are visited, which is what stops cycles.
func (b *VariablesTypeBuilder) declareInput(t *ir.SchemaType, path string) error {
	if b.declared[t.Name] {
		return nil
	}
	b.declared[t.Name] = true

	props := make([]typeexpr.Property, 0, len(t.InputFields))
	for _, f := range t.InputFields {
		ft, err := b.inputType(f.Type, path+"."+f.Name)
		if err != nil {
			return err
		}
		props = append(props, typeexpr.Property{
			Key:      f.Name,
			Type:     ft,
			Optional: b.isOptional(f.Name, f.Type, f.DefaultValue),
		})
	}
	b.inputs = append(b.inputs, emit.Declaration{Name: t.Name, Type: typeexpr.ObjectOf(props...)})
	return nil
}
