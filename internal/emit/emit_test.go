package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	te "github.com/roach88/relayts/internal/typeexpr"
)

func fragmentInput() Input {
	return Input{
		Document: Document{
			Name: "UserCard",
			Kind: KindFragment,
			Type: te.ObjectOf(
				te.Prop("id", te.String),
				te.Prop("mood", te.NullableOf(te.NamedType("Mood"))),
				te.Prop(" $fragmentRefs", te.IntersectionOf(te.Ref("Avatar"), te.Ref("Badge"))),
				te.Prop(" $refType", te.Ref("UserCard")),
			),
		},
		Enums: []Declaration{
			{Name: "Mood", Type: te.UnionOf(te.Lit("HAPPY"), te.Lit("SAD"))},
		},
		ExistingFragments: map[string]bool{"Avatar": true},
	}
}

func TestEmitFragment(t *testing.T) {
	got, err := Emit(fragmentInput())
	require.NoError(t, err)

	want := `import { Avatar$ref } from "../__generated__/Avatar.graphql";
export type Badge$ref = any;
export type Mood = "HAPPY" | "SAD";
declare const _UserCard$ref: unique symbol;
export type UserCard$ref = typeof _UserCard$ref;
export type UserCard = {
    readonly id: string;
    readonly mood: Mood | null;
    readonly " $fragmentRefs": Avatar$ref & Badge$ref;
    readonly " $refType": UserCard$ref;
};
`
	assert.Equal(t, want, got)
}

func TestEmitOperation(t *testing.T) {
	in := Input{
		Document: Document{
			Name: "ViewerQuery",
			Kind: "query",
			Type: te.ObjectOf(
				te.Prop("viewer", te.NullableOf(te.ObjectOf(te.Prop("id", te.String)))),
			),
			Variables: te.ObjectOf(
				te.Prop("id", te.String),
				te.Property{Key: "filter", Type: te.NullableOf(te.NamedType("UserFilter")), Optional: true},
			),
		},
		InputObjects: []Declaration{
			{Name: "UserFilter", Type: te.ObjectOf(
				te.Property{Key: "name", Type: te.NullableOf(te.String), Optional: true},
			)},
		},
	}

	got, err := Emit(in)
	require.NoError(t, err)

	want := `export type UserFilter = {
    readonly name?: string | null;
};
export type ViewerQueryVariables = {
    readonly id: string;
    readonly filter?: UserFilter | null;
};
export type ViewerQueryResponse = {
    readonly viewer: {
        readonly id: string;
    } | null;
};
export type ViewerQuery = {
    readonly response: ViewerQueryResponse;
    readonly variables: ViewerQueryVariables;
};
`
	assert.Equal(t, want, got)
}

func TestEmitOperationWithRawResponseAndNoVariables(t *testing.T) {
	in := Input{
		Document: Document{
			Name:        "Ping",
			Kind:        "query",
			Type:        te.ObjectOf(te.Prop("ok", te.Boolean)),
			RawResponse: te.ObjectOf(te.Prop("ok", te.Boolean)),
		},
	}
	got, err := Emit(in)
	require.NoError(t, err)

	assert.NotContains(t, got, "PingVariables")
	assert.Contains(t, got, "export type PingRawResponse = {")
	assert.Contains(t, got, "    readonly rawResponse: PingRawResponse;\n")
}

func TestEmitEnumsFromModule(t *testing.T) {
	// The enums module is a module name, imported bare in every layout.
	for _, policy := range []ImportPolicy{
		{},
		{UseHaste: true},
		{UseSingleArtifactDirectory: true},
	} {
		in := fragmentInput()
		in.EnumsModule = "Enums"
		in.Policy = policy

		got, err := Emit(in)
		require.NoError(t, err)

		assert.Contains(t, got, `import { Mood } from "Enums";`, "policy %+v", policy)
		assert.NotContains(t, got, "export type Mood =")
	}
}

func TestEmitDeduplicatesEnums(t *testing.T) {
	in := fragmentInput()
	in.Enums = append(in.Enums, in.Enums[0])

	got, err := Emit(in)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "export type Mood ="))
}

func TestEmitImportPathIndependence(t *testing.T) {
	base := fragmentInput()
	haste := fragmentInput()
	haste.Policy = ImportPolicy{UseHaste: true}
	single := fragmentInput()
	single.Policy = ImportPolicy{UseSingleArtifactDirectory: true}

	strip := func(in Input) string {
		out, err := Emit(in)
		require.NoError(t, err)
		var kept []string
		for _, line := range strings.Split(out, "\n") {
			if !strings.HasPrefix(line, "import ") {
				kept = append(kept, line)
			}
		}
		return strings.Join(kept, "\n")
	}

	assert.Equal(t, strip(base), strip(haste))
	assert.Equal(t, strip(base), strip(single))

	out, err := Emit(single)
	require.NoError(t, err)
	assert.Contains(t, out, `from "./Avatar.graphql"`)
}

func TestEmitIsDeterministic(t *testing.T) {
	first, err := Emit(fragmentInput())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Emit(fragmentInput())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEmitRejectsInvalidTree(t *testing.T) {
	in := Input{Document: Document{
		Name: "Broken",
		Kind: "query",
		Type: te.ObjectOf(te.Prop("a", te.String), te.Prop("a", te.Number)),
	}}
	_, err := Emit(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
