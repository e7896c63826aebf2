package codegen

import (
	"github.com/roach88/relayts/internal/emit"
	"github.com/roach88/relayts/internal/ir"
	"github.com/roach88/relayts/internal/typeexpr"
)

// FutureEnumValue is appended to every enum union unless disabled, so that
// clients handle values added to the schema after generation.
const FutureEnumValue = "%future added value"

// builtinScalars maps scalar names with a known representation.
// Url is not a GraphQL built-in but is common enough to map by default.
var builtinScalars = map[string]typeexpr.Expr{
	ir.ScalarID:      typeexpr.String,
	ir.ScalarString:  typeexpr.String,
	"Url":            typeexpr.String,
	ir.ScalarInt:     typeexpr.Number,
	ir.ScalarFloat:   typeexpr.Number,
	ir.ScalarBoolean: typeexpr.Boolean,
}

// ScalarEnumMapper maps leaf types to type expressions and collects the
// enum declarations a document needs, each at most once.
type ScalarEnumMapper struct {
	schema        *ir.Schema
	custom        map[string]string
	noFutureProof bool
	strict        bool

	enums    []emit.Declaration
	declared map[string]bool
	warnings []Warning
}

// NewScalarEnumMapper creates a mapper for one generation run.
func NewScalarEnumMapper(schema *ir.Schema, opts Options) *ScalarEnumMapper {
	return &ScalarEnumMapper{
		schema:        schema,
		custom:        opts.CustomScalars,
		noFutureProof: opts.NoFutureProofEnums,
		strict:        opts.StrictScalars,
		declared:      make(map[string]bool),
	}
}

// MapScalar resolves a scalar name. The custom table wins; its value is
// itself looked up in the built-in table and otherwise passed through as a
// type name. ok is false when neither table applies and the result is
// unknown.
func (m *ScalarEnumMapper) MapScalar(name string) (t typeexpr.Expr, ok bool) {
	if target, found := m.custom[name]; found {
		if builtin, isBuiltin := builtinScalars[target]; isBuiltin {
			return builtin, true
		}
		return typeexpr.NamedType(target), true
	}
	if builtin, found := builtinScalars[name]; found {
		return builtin, true
	}
	return typeexpr.Unknown, false
}

// MapEnum returns the union of an enum's values in declaration order.
func (m *ScalarEnumMapper) MapEnum(t *ir.SchemaType) typeexpr.Expr {
	members := make([]typeexpr.Expr, 0, len(t.Values)+1)
	for _, v := range t.Values {
		members = append(members, typeexpr.Lit(v))
	}
	if !m.noFutureProof {
		members = append(members, typeexpr.Lit(FutureEnumValue))
	}
	return typeexpr.UnionOf(members...)
}

// Leaf maps a scalar or enum type found at path. Enums are referenced by
// name and declared once.
func (m *ScalarEnumMapper) Leaf(t *ir.SchemaType, path string) (typeexpr.Expr, error) {
	switch t.Kind {
	case ir.KindEnum:
		if !m.declared[t.Name] {
			m.declared[t.Name] = true
			m.enums = append(m.enums, emit.Declaration{Name: t.Name, Type: m.MapEnum(t)})
		}
		return typeexpr.NamedType(t.Name), nil
	case ir.KindScalar:
		mapped, ok := m.MapScalar(t.Name)
		if ok {
			return mapped, nil
		}
		if m.strict {
			return nil, errorf(CodeUnmappedScalar, path, "scalar %q has no type mapping", t.Name)
		}
		m.warnings = append(m.warnings, Warning{
			Code:    WarnUnmappedScalar,
			Path:    path,
			Message: "scalar \"" + t.Name + "\" has no type mapping; using unknown",
		})
		return mapped, nil
	default:
		return nil, errorf(CodeMalformedSelection, path, "type %q of kind %s is not a leaf", t.Name, t.Kind)
	}
}

// Enums returns the collected enum declarations in first-use order.
func (m *ScalarEnumMapper) Enums() []emit.Declaration {
	return m.enums
}

// Warnings returns the unmapped-scalar warnings.
func (m *ScalarEnumMapper) Warnings() []Warning {
	return m.warnings
}
