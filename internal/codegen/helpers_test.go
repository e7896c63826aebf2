package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relayts/internal/ir"
)

var tr = ir.MustParseTypeRef

// testSchema is a small social graph: Node and Actor interfaces, a union,
// an enum, custom scalars and a self-referencing input object.
func testSchema(t *testing.T) *ir.Schema {
	t.Helper()
	s := ir.NewSchema()
	types := []ir.SchemaType{
		{Kind: ir.KindScalar, Name: "Color"},
		{Kind: ir.KindScalar, Name: "Date"},
		{Kind: ir.KindEnum, Name: "PersonalityTraits", Values: []string{"CHEERFUL", "DERISIVE", "HELPFUL", "SNARKY"}},
		{Kind: ir.KindInterface, Name: "Node", Fields: []ir.FieldDef{
			{Name: "id", Type: tr("ID!")},
		}},
		{Kind: ir.KindInterface, Name: "Actor", Fields: []ir.FieldDef{
			{Name: "id", Type: tr("ID!")},
			{Name: "name", Type: tr("String")},
		}},
		{Kind: ir.KindObject, Name: "User", Interfaces: []string{"Node", "Actor"}, Fields: []ir.FieldDef{
			{Name: "id", Type: tr("ID!")},
			{Name: "name", Type: tr("String")},
			{Name: "username", Type: tr("String")},
			{Name: "color", Type: tr("Color")},
			{Name: "birthdate", Type: tr("Date")},
			{Name: "traits", Type: tr("[PersonalityTraits]")},
			{Name: "friends", Type: tr("[User]")},
			{Name: "profilePicture", Type: tr("Image")},
		}},
		{Kind: ir.KindObject, Name: "Page", Interfaces: []string{"Node", "Actor"}, Fields: []ir.FieldDef{
			{Name: "id", Type: tr("ID!")},
			{Name: "name", Type: tr("String")},
			{Name: "website", Type: tr("String")},
		}},
		{Kind: ir.KindObject, Name: "Comment", Interfaces: []string{"Node"}, Fields: []ir.FieldDef{
			{Name: "id", Type: tr("ID!")},
			{Name: "body", Type: tr("String!")},
		}},
		{Kind: ir.KindObject, Name: "Image", Fields: []ir.FieldDef{
			{Name: "uri", Type: tr("String")},
			{Name: "width", Type: tr("Int")},
		}},
		{Kind: ir.KindUnion, Name: "Entity", Members: []string{"User", "Page"}},
		{Kind: ir.KindInputObject, Name: "UserFilter", InputFields: []ir.InputFieldDef{
			{Name: "name", Type: tr("String")},
			{Name: "traits", Type: tr("[PersonalityTraits!]")},
			{Name: "parent", Type: tr("UserFilter")},
			{Name: "size", Type: tr("Int!"), DefaultValue: ir.IRInt(10)},
		}},
		{Kind: ir.KindObject, Name: "Query", Fields: []ir.FieldDef{
			{Name: "node", Type: tr("Node"), Args: []ir.ArgumentDefinition{{Name: "id", Type: tr("ID!")}}},
			{Name: "viewer", Type: tr("User")},
			{Name: "search", Type: tr("[Entity!]!")},
		}},
		{Kind: ir.KindObject, Name: "Mutation", Fields: []ir.FieldDef{
			{Name: "updateUser", Type: tr("User"), Args: []ir.ArgumentDefinition{{Name: "input", Type: tr("UserFilter")}}},
		}},
	}
	for _, st := range types {
		require.NoError(t, s.Add(st))
	}
	return s
}

func field(name, typ string, sels ...ir.Selection) *ir.Field {
	return &ir.Field{Name: name, Type: tr(typ), Selections: sels}
}

func aliased(alias, name, typ string, sels ...ir.Selection) *ir.Field {
	return &ir.Field{Alias: alias, Name: name, Type: tr(typ), Selections: sels}
}

func typename() *ir.Field {
	return field(ir.TypenameField, "String!")
}

func spread(name string) *ir.FragmentSpread {
	return &ir.FragmentSpread{Name: name}
}

func on(typeName string, sels ...ir.Selection) *ir.InlineFragment {
	return &ir.InlineFragment{TypeCondition: typeName, Selections: sels}
}

func include(variable string, sels ...ir.Selection) *ir.Condition {
	return &ir.Condition{Variable: variable, Passing: true, Selections: sels}
}

func fragment(name, on string, sels ...ir.Selection) *ir.Fragment {
	return &ir.Fragment{Name: name, TypeCondition: on, Selections: sels}
}

func query(name string, sels ...ir.Selection) *ir.Operation {
	return &ir.Operation{Kind: ir.OperationQuery, Name: name, Type: "Query", Selections: sels}
}

func newBuilder(t *testing.T, opts Options) *selectionBuilder {
	t.Helper()
	schema := testSchema(t)
	return &selectionBuilder{
		schema:    schema,
		scalars:   NewScalarEnumMapper(schema, opts),
		fragments: NewFragmentReferenceResolver(opts.ExistingFragmentNames),
	}
}

func generate(t *testing.T, doc ir.Document, opts Options, normalized *ir.Root) *Result {
	t.Helper()
	res, err := Generate(doc, testSchema(t), opts, normalized)
	require.NoError(t, err)
	return res
}
