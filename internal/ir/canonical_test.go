package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	data, err := MarshalCanonical(IRObject{
		"b": IRInt(2),
		"a": IRArray{IRBool(true), IRNull{}, IRString("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,null,"x"],"b":2}`, string(data))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	data, err := MarshalCanonical(IRString("<a & b>"))
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(data))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	composed, err := MarshalCanonical(IRString("caf\u00e9"))
	require.NoError(t, err)
	decomposed, err := MarshalCanonical(IRString("cafe\u0301"))
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestSortedKeysUTF16Order(t *testing.T) {
	// U+FF61 sorts before U+1F600 in UTF-8 but after it in UTF-16
	obj := IRObject{"\U0001F600": IRInt(1), "\uff61": IRInt(2)}
	assert.Equal(t, []string{"\U0001F600", "\uff61"}, obj.SortedKeys())
}

func TestDocumentValuePreservesSelectionOrder(t *testing.T) {
	a := &Fragment{Name: "F", TypeCondition: "User", Selections: []Selection{
		&Field{Name: "id", Type: MustParseTypeRef("ID!")},
		&Field{Name: "name", Type: MustParseTypeRef("String")},
	}}
	b := &Fragment{Name: "F", TypeCondition: "User", Selections: []Selection{
		&Field{Name: "name", Type: MustParseTypeRef("String")},
		&Field{Name: "id", Type: MustParseTypeRef("ID!")},
	}}

	ha, err := DocumentHash(a)
	require.NoError(t, err)
	hb, err := DocumentHash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}
