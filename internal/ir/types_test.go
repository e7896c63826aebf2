package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		input    string
		named    string
		list     bool
		nonNull  bool
		rendered string
	}{
		{"String", "String", false, false, "String"},
		{"ID!", "ID", false, true, "ID!"},
		{"[Phone]", "Phone", true, false, "[Phone]"},
		{"[String!]!", "String", true, true, "[String!]!"},
		{"[[Int]!]", "Int", true, false, "[[Int]!]"},
		{" [ String ! ] ", "String", true, false, "[String!]"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseTypeRef(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.named, ref.NamedType())
			assert.Equal(t, tt.list, ref.IsList())
			assert.Equal(t, tt.nonNull, ref.NonNull)
			assert.Equal(t, tt.rendered, ref.String())
		})
	}
}

func TestParseTypeRefRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "[String", "String]", "!String", "9Lives", "[String]]"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTypeRef(input)
			assert.Error(t, err)
		})
	}
}

func TestTypeKindPredicates(t *testing.T) {
	assert.True(t, KindObject.IsComposite())
	assert.True(t, KindUnion.IsComposite())
	assert.False(t, KindInputObject.IsComposite())

	assert.True(t, KindInterface.IsAbstract())
	assert.False(t, KindObject.IsAbstract())

	assert.True(t, KindEnum.IsLeaf())
	assert.True(t, KindScalar.IsLeaf())
	assert.False(t, KindObject.IsLeaf())
}
