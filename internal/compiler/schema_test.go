package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relayts/internal/ir"
)

func TestCompileSchemaBasic(t *testing.T) {
	v := compileCUE(t, testSchemaCUE)
	schema, err := CompileSchema(v.LookupPath(cue.ParsePath("schema")))
	require.NoError(t, err)

	mood, ok := schema.Lookup("Mood")
	require.True(t, ok)
	assert.Equal(t, ir.KindEnum, mood.Kind)
	assert.Equal(t, []string{"HAPPY", "SAD"}, mood.Values)

	user, ok := schema.Lookup("User")
	require.True(t, ok)
	assert.Equal(t, []string{"Node"}, user.Interfaces)
	names := make([]string, len(user.Fields))
	for i, f := range user.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"id", "name", "color", "mood", "friends"}, names, "declaration order is kept")

	friends, ok := user.Field("friends")
	require.True(t, ok)
	assert.Equal(t, "[User]", friends.Type.String())
	require.Len(t, friends.Args, 1)
	assert.Equal(t, ir.IRInt(10), friends.Args[0].DefaultValue)

	filter, ok := schema.Lookup("UserFilter")
	require.True(t, ok)
	require.Len(t, filter.InputFields, 3)
	assert.Equal(t, "UserFilter", filter.InputFields[1].Type.NamedType())

	assert.Equal(t, []string{"Page", "User"}, schema.PossibleTypes("Node"))
	assert.Equal(t, "Query", schema.QueryType)
}

func TestCompileSchemaCustomRoots(t *testing.T) {
	v := compileCUE(t, `
		schema: {
			query: "Root"
			object: Root: fields: ok: "Boolean!"
		}
	`)
	schema, err := CompileSchema(v.LookupPath(cue.ParsePath("schema")))
	require.NoError(t, err)
	assert.Equal(t, "Root", schema.QueryType)
}

func TestCompileSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{
			name:    "unknown field type",
			src:     `schema: object: Query: fields: x: "Missing"`,
			message: `unknown type "Missing"`,
		},
		{
			name:    "bad type notation",
			src:     `schema: object: Query: fields: x: "[String"`,
			message: "missing closing bracket",
		},
		{
			name: "implements non-interface",
			src: `schema: {
				object: A: fields: id: "ID"
				object: B: {implements: ["A"], fields: id: "ID"}
			}`,
			message: "expected an interface",
		},
		{
			name: "union of non-object",
			src: `schema: {
				enum: E: ["X"]
				union: U: ["E"]
			}`,
			message: "expected an object type",
		},
		{
			name: "input object used as output",
			src: `schema: {
				input: F: fields: a: "Int"
				object: Query: fields: f: "F"
			}`,
			message: "expected an output type",
		},
		{
			name: "output type used as input",
			src: `schema: {
				object: Query: fields: f: {type: "Int", args: u: "Query"}
			}`,
			message: "expected an input type",
		},
		{
			name:    "empty enum",
			src:     `schema: enum: E: []`,
			message: "enum has no values",
		},
		{
			name:    "missing fields",
			src:     `schema: object: Query: {}`,
			message: "fields are required",
		},
		{
			name:    "float default",
			src:     `schema: input: F: fields: a: {type: "Float", default: 1.5}`,
			message: "float default values are not supported",
		},
		{
			name: "duplicate type across sections",
			src: `schema: {
				scalar: User: {}
				object: User: fields: id: "ID"
			}`,
			message: `duplicate type "User"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := compileCUE(t, tt.src)
			_, err := CompileSchema(v.LookupPath(cue.ParsePath("schema")))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)

			var compileErr *CompileError
			assert.ErrorAs(t, err, &compileErr)
		})
	}
}

func TestCompileSchemaBuiltinScalarRedeclared(t *testing.T) {
	v := compileCUE(t, `schema: {
		scalar: String: {}
		object: Query: fields: s: "String"
	}`)
	_, err := CompileSchema(v.LookupPath(cue.ParsePath("schema")))
	assert.NoError(t, err)
}
