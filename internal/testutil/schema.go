package testutil

import (
	_ "embed"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relayts/internal/compiler"
	"github.com/roach88/relayts/internal/ir"
)

// SchemaCUE is the shared test schema in CUE source form.
//
//go:embed testdata/schema.cue
var SchemaCUE string

// Compile compiles docs (CUE document sections) against SchemaCUE and
// fails the test on any compile or validation error.
func Compile(t testing.TB, docs string) *ir.Context {
	t.Helper()
	v := cuecontext.New().CompileString(SchemaCUE + "\n" + docs)
	require.NoError(t, v.Err(), "CUE source does not compile")

	ctx, errs := compiler.Compile(v)
	require.Empty(t, errs, "compile errors")
	require.NotNil(t, ctx)

	verrs := compiler.Validate(ctx)
	require.Empty(t, verrs, "validation errors: %s", compiler.FormatErrors(verrs))
	return ctx
}

// Schema compiles SchemaCUE alone.
func Schema(t testing.TB) *ir.Schema {
	t.Helper()
	return Compile(t, "").Schema
}
