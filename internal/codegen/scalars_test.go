package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relayts/internal/ir"
	te "github.com/roach88/relayts/internal/typeexpr"
)

func TestMapScalarBuiltins(t *testing.T) {
	m := NewScalarEnumMapper(ir.NewSchema(), Options{})

	tests := []struct {
		scalar string
		want   te.Expr
	}{
		{"ID", te.String},
		{"String", te.String},
		{"Url", te.String},
		{"Int", te.Number},
		{"Float", te.Number},
		{"Boolean", te.Boolean},
	}
	for _, tt := range tests {
		t.Run(tt.scalar, func(t *testing.T) {
			got, ok := m.MapScalar(tt.scalar)
			assert.True(t, ok)
			assert.Same(t, tt.want, got)
		})
	}

	got, ok := m.MapScalar("Date")
	assert.False(t, ok)
	assert.Same(t, te.Unknown, got)
}

func TestMapScalarCustomTable(t *testing.T) {
	m := NewScalarEnumMapper(ir.NewSchema(), Options{CustomScalars: map[string]string{
		"Color": "Color",
		"Date":  "String",
		"ID":    "Int",
	}})

	got, ok := m.MapScalar("Color")
	assert.True(t, ok)
	assert.Equal(t, te.Key(te.NamedType("Color")), te.Key(got))

	got, _ = m.MapScalar("Date")
	assert.Same(t, te.String, got)

	// Custom entries override built-ins.
	got, _ = m.MapScalar("ID")
	assert.Same(t, te.Number, got)
}

func TestCustomScalarMappingInOutput(t *testing.T) {
	tests := []struct {
		mapping string
		want    string
	}{
		{"String", "string"},
		{"Url", "string"},
		{"ID", "string"},
		{"Int", "number"},
		{"Color", "Color"},
		{"{}", "{}"},
		{"[]", "[]"},
	}
	doc := fragment("Test", "User", field("color", "Color"))

	for _, tt := range tests {
		t.Run(tt.mapping, func(t *testing.T) {
			res := generate(t, doc, Options{
				CustomScalars:              map[string]string{"Color": tt.mapping},
				ExistingFragmentNames:      []string{"PhotoFragment"},
				UseSingleArtifactDirectory: true,
			}, nil)
			assert.Contains(t, res.Text, "color: "+tt.want+" | null")
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestEnumFutureProofing(t *testing.T) {
	doc := fragment("ScalarField", "User", field("traits", "[PersonalityTraits]"))

	res := generate(t, doc, Options{NoFutureProofEnums: true}, nil)
	assert.Contains(t, res.Text,
		`export type PersonalityTraits = "CHEERFUL" | "DERISIVE" | "HELPFUL" | "SNARKY";`)

	res = generate(t, doc, Options{}, nil)
	assert.Contains(t, res.Text,
		`export type PersonalityTraits = "CHEERFUL" | "DERISIVE" | "HELPFUL" | "SNARKY" | "%future added value";`)
	assert.Contains(t, res.Text, "readonly traits: ReadonlyArray<PersonalityTraits | null> | null;")
}

func TestLeafCollectsEnumOnce(t *testing.T) {
	schema := testSchema(t)
	m := NewScalarEnumMapper(schema, Options{})
	enum, ok := schema.Lookup("PersonalityTraits")
	require.True(t, ok)

	for i := 0; i < 3; i++ {
		got, err := m.Leaf(enum, "Doc.traits")
		require.NoError(t, err)
		assert.Equal(t, te.Key(te.NamedType("PersonalityTraits")), te.Key(got))
	}
	require.Len(t, m.Enums(), 1)
	assert.Equal(t, "PersonalityTraits", m.Enums()[0].Name)
}

func TestUnmappedScalarWarnsOrFails(t *testing.T) {
	doc := fragment("Birthday", "User", field("birthdate", "Date"))

	res := generate(t, doc, Options{}, nil)
	assert.Contains(t, res.Text, "readonly birthdate: unknown | null;")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnUnmappedScalar, res.Warnings[0].Code)
	assert.Equal(t, "Birthday.birthdate", res.Warnings[0].Path)

	_, err := Generate(doc, testSchema(t), Options{StrictScalars: true}, nil)
	require.Error(t, err)
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CodeUnmappedScalar, genErr.Code)
	assert.Equal(t, "Birthday.birthdate", genErr.Path)
}
