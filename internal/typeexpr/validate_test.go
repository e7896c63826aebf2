package typeexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsConstructedTrees(t *testing.T) {
	tree := ObjectOf(
		Prop("id", String),
		Prop("traits", NullableOf(ArrayOf(NullableOf(NamedType("PersonalityTraits"))))),
		Prop("actor", NullableOf(UnionOf(
			ObjectOf(Prop("__typename", Lit("User"))),
			ObjectOf(Prop("__typename", Lit("%other"))),
		))),
		Prop(" $fragmentRefs", IntersectionOf(Ref("A"), Ref("B"))),
	)
	result := Validate(tree)
	assert.True(t, result.Valid, "%v", result.Problems)
	assert.Empty(t, result.Problems)
}

func TestValidateReportsViolations(t *testing.T) {
	tests := []struct {
		name    string
		expr    Expr
		problem string
	}{
		{"nil", nil, "nil expression"},
		{"nested nullable", &Nullable{Inner: &Nullable{Inner: String}}, "nested nullable"},
		{"single member union", &Union{Members: []Expr{String}}, "union with 1 member"},
		{"nested union", &Union{Members: []Expr{String, &Union{Members: []Expr{Number, Boolean}}}}, "nested union"},
		{"nullable member", &Union{Members: []Expr{String, &Nullable{Inner: Number}}}, "hoist null"},
		{"duplicate key", ObjectOf(Prop("id", String), Prop("id", Number)), "duplicate key"},
		{"empty ref", Ref(""), "without name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.expr)
			assert.False(t, result.Valid)
			assert.Contains(t, result.Problems[0], tt.problem)
		})
	}
}
