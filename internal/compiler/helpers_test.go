package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/require"
)

const testSchemaCUE = `
schema: {
	scalar: Color: {}
	enum: Mood: ["HAPPY", "SAD"]
	interface: Node: fields: id: "ID!"
	object: User: {
		implements: ["Node"]
		fields: {
			id:      "ID!"
			name:    "String"
			color:   "Color"
			mood:    "Mood"
			friends: {type: "[User]", args: first: {type: "Int", default: 10}}
		}
	}
	object: Page: {
		implements: ["Node"]
		fields: {
			id:      "ID!"
			website: "String"
		}
	}
	union: Entity: ["User", "Page"]
	input: UserFilter: fields: {
		name:   "String"
		parent: "UserFilter"
		size:   {type: "Int!", default: 10}
	}
	object: Query: fields: {
		node:   {type: "Node", args: id: "ID!"}
		viewer: "User"
	}
}
`

func compileCUE(t *testing.T, src string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return v
}
