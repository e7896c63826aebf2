package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relayts/internal/ir"
)

func TestGenerateFragment(t *testing.T) {
	doc := fragment("UserCard", "User",
		field("id", "ID!"),
		field("name", "String"),
		spread("Avatar"),
		spread("Badge"),
	)
	res := generate(t, doc, Options{
		ExistingFragmentNames:      []string{"Avatar"},
		UseSingleArtifactDirectory: true,
	}, nil)

	want := `import { Avatar$ref } from "./Avatar.graphql";
export type Badge$ref = any;
declare const _UserCard$ref: unique symbol;
export type UserCard$ref = typeof _UserCard$ref;
export type UserCard = {
    readonly id: string;
    readonly name: string | null;
    readonly " $fragmentRefs": Avatar$ref & Badge$ref;
    readonly " $refType": UserCard$ref;
};
`
	assert.Equal(t, want, res.Text)
}

func TestGeneratePolymorphicQuery(t *testing.T) {
	doc := query("NodeQuery",
		field("node", "Node",
			typename(),
			field("id", "ID!"),
			on("User", field("name", "String")),
			on("Page", field("website", "String")),
		),
	)
	res := generate(t, doc, Options{}, nil)

	want := `export type NodeQueryResponse = {
    readonly node: {
        readonly __typename: "User";
        readonly id: string;
        readonly name: string | null;
    } | {
        readonly __typename: "Page";
        readonly id: string;
        readonly website: string | null;
    } | {
        readonly __typename: "%other";
        readonly id: string;
    } | null;
};
export type NodeQuery = {
    readonly response: NodeQueryResponse;
};
`
	assert.Equal(t, want, res.Text)
}

func TestGenerateOperationVariables(t *testing.T) {
	doc := query("SearchQuery",
		field("viewer", "User", field("id", "ID!")),
	)
	root := &ir.Root{
		Kind: ir.OperationQuery,
		Name: "SearchQuery",
		Type: "Query",
		ArgumentDefinitions: []ir.ArgumentDefinition{
			{Name: "id", Type: tr("ID!")},
			{Name: "count", Type: tr("Int")},
			{Name: "filter", Type: tr("UserFilter")},
			{Name: "limit", Type: tr("Int!"), DefaultValue: ir.IRInt(10)},
		},
		Selections: doc.Selections,
	}
	res := generate(t, doc, Options{NoFutureProofEnums: true}, root)

	want := `export type PersonalityTraits = "CHEERFUL" | "DERISIVE" | "HELPFUL" | "SNARKY";
export type UserFilter = {
    readonly name?: string | null;
    readonly traits?: ReadonlyArray<PersonalityTraits> | null;
    readonly parent?: UserFilter | null;
    readonly size?: number;
};
export type SearchQueryVariables = {
    readonly id: string;
    readonly count?: number | null;
    readonly filter?: UserFilter | null;
    readonly limit?: number;
};
export type SearchQueryResponse = {
    readonly viewer: {
        readonly id: string;
    } | null;
};
export type SearchQuery = {
    readonly response: SearchQueryResponse;
    readonly variables: SearchQueryVariables;
};
`
	assert.Equal(t, want, res.Text)
}

func TestGenerateVariablesSkippedWithoutNormalizedTree(t *testing.T) {
	doc := query("ViewerQuery", field("viewer", "User", field("id", "ID!")))
	doc.ArgumentDefinitions = []ir.ArgumentDefinition{{Name: "id", Type: tr("ID!")}}

	res := generate(t, doc, Options{}, nil)
	assert.NotContains(t, res.Text, "ViewerQueryVariables")
}

func TestGenerateOptionalInputFields(t *testing.T) {
	doc := query("Q", field("viewer", "User", field("id", "ID!")))
	root := &ir.Root{
		Kind:                ir.OperationQuery,
		Name:                "Q",
		ArgumentDefinitions: []ir.ArgumentDefinition{{Name: "id", Type: tr("ID!")}},
	}
	res := generate(t, doc, Options{OptionalInputFields: []string{"id"}}, root)
	assert.Contains(t, res.Text, "    readonly id?: string;\n")
}

func TestGenerateRawResponse(t *testing.T) {
	doc := query("ViewerQuery", field("viewer", "User", spread("UserCard")))
	doc.RawResponse = true
	root := &ir.Root{
		Kind: ir.OperationQuery,
		Name: "ViewerQuery",
		Selections: []ir.Selection{
			field("viewer", "User", on("User", field("id", "ID!"), field("username", "String"))),
		},
	}
	res := generate(t, doc, Options{}, root)

	assert.Contains(t, res.Text, `export type ViewerQueryRawResponse = {
    readonly viewer: {
        readonly id: string;
        readonly username: string | null;
    } | null;
};`)
	assert.Contains(t, res.Text, "    readonly rawResponse: ViewerQueryRawResponse;\n")
	assert.Contains(t, res.Text, `readonly " $fragmentRefs": UserCard$ref;`)
}

func TestGeneratePluralFragment(t *testing.T) {
	doc := fragment("UserList", "User", field("id", "ID!"))
	doc.Plural = true

	res := generate(t, doc, Options{}, nil)
	assert.Contains(t, res.Text, `export type UserList = ReadonlyArray<{
    readonly id: string;
    readonly " $refType": UserList$ref;
}>;`)
}

func TestGenerateFragmentOpacity(t *testing.T) {
	// Outer spreads Inner; Inner's fields never leak into Outer.
	outer := fragment("Outer", "User", field("id", "ID!"), spread("Inner"))
	res := generate(t, outer, Options{}, nil)

	assert.NotContains(t, res.Text, "username")
	assert.Contains(t, res.Text, `readonly " $fragmentRefs": Inner$ref;`)
	assert.Contains(t, res.Text, "export type Inner$ref = any;")
}

func TestGenerateEnumDeclaredOnce(t *testing.T) {
	doc := fragment("Traits", "User",
		field("traits", "[PersonalityTraits]"),
		aliased("otherTraits", "traits", "[PersonalityTraits]"),
	)
	res := generate(t, doc, Options{}, nil)
	assert.Equal(t, 1, strings.Count(res.Text, "export type PersonalityTraits ="))
}

func TestGenerateEnumsFromHasteModule(t *testing.T) {
	doc := fragment("Traits", "User", field("traits", "[PersonalityTraits]"))
	res := generate(t, doc, Options{EnumsHasteModule: "GraphQLEnums", UseHaste: true}, nil)

	assert.Contains(t, res.Text, `import { PersonalityTraits } from "GraphQLEnums";`)
	assert.NotContains(t, res.Text, "export type PersonalityTraits =")
}

func TestGenerateImportPathIndependence(t *testing.T) {
	doc := fragment("UserCard", "User", field("id", "ID!"), spread("PhotoFragment"))
	existing := []string{"PhotoFragment"}

	modes := []Options{
		{ExistingFragmentNames: existing},
		{ExistingFragmentNames: existing, UseSingleArtifactDirectory: true},
		{ExistingFragmentNames: existing, UseHaste: true},
	}
	wantPaths := []string{
		`"../__generated__/PhotoFragment.graphql"`,
		`"./PhotoFragment.graphql"`,
		`"PhotoFragment.graphql"`,
	}

	var bodies []string
	for i, opts := range modes {
		text := generate(t, doc, opts, nil).Text
		first, rest, found := strings.Cut(text, "\n")
		require.True(t, found)
		assert.Equal(t, "import { PhotoFragment$ref } from "+wantPaths[i]+";", first)
		bodies = append(bodies, rest)
	}
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[0], bodies[2])
}

func TestGenerateIsDeterministic(t *testing.T) {
	doc := query("NodeQuery",
		field("node", "Node",
			typename(),
			on("User", field("traits", "[PersonalityTraits]"), spread("A"), spread("B")),
			on("Page", field("website", "String")),
		),
	)
	first := generate(t, doc, Options{}, nil).Text
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, generate(t, doc, Options{}, nil).Text)
	}
}

func TestGenerateRejectsBadRoots(t *testing.T) {
	schema := testSchema(t)

	_, err := Generate(fragment("F", "Ghost", field("id", "ID!")), schema, Options{}, nil)
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CodeUnknownType, genErr.Code)

	_, err = Generate(fragment("F", "String", field("id", "ID!")), schema, Options{}, nil)
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CodeMalformedSelection, genErr.Code)

	sub := &ir.Operation{Kind: ir.OperationSubscription, Name: "S", Selections: []ir.Selection{typename()}}
	_, err = Generate(sub, schema, Options{}, nil)
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CodeUnknownType, genErr.Code)

	_, err = Generate(nil, schema, Options{}, nil)
	assert.Error(t, err)
}

func TestGenerateUsesSchemaRootWhenTypeUnset(t *testing.T) {
	op := &ir.Operation{Kind: ir.OperationMutation, Name: "Update", Selections: []ir.Selection{
		field("updateUser", "User", field("id", "ID!")),
	}}
	res := generate(t, op, Options{}, nil)
	assert.Contains(t, res.Text, "export type UpdateResponse = {")
}

func TestOptionsFingerprint(t *testing.T) {
	a := Options{ExistingFragmentNames: []string{"A", "B"}, CustomScalars: map[string]string{"Color": "string"}}
	b := Options{ExistingFragmentNames: []string{"B", "A"}, CustomScalars: map[string]string{"Color": "string"}}
	c := a
	c.NoFutureProofEnums = true

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	fc, err := c.Fingerprint()
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
	assert.Len(t, fa, 64)
}
