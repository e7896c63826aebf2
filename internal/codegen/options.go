package codegen

import (
	"sort"

	"github.com/roach88/relayts/internal/emit"
	"github.com/roach88/relayts/internal/ir"
)

// Options configures type generation.
type Options struct {
	// CustomScalars maps schema scalar names to a target type. A target
	// that names a built-in scalar (String, Int, ...) resolves to that
	// scalar's type; anything else is emitted verbatim.
	CustomScalars map[string]string

	// EnumsHasteModule, when set, imports enum types from this module
	// instead of declaring them in each artifact.
	EnumsHasteModule string

	// ExistingFragmentNames lists fragments with generated artifacts.
	// References to them are imported; others are forward-declared.
	ExistingFragmentNames []string

	// OptionalInputFields are variable and input field names that are
	// always optional.
	OptionalInputFields []string

	UseHaste                   bool
	UseSingleArtifactDirectory bool

	// NoFutureProofEnums omits the "%future added value" enum member.
	NoFutureProofEnums bool

	// StrictScalars turns unmapped scalars into errors instead of unknown.
	StrictScalars bool
}

// ImportPolicy returns the emitter's import policy for these options.
func (o Options) ImportPolicy() emit.ImportPolicy {
	return emit.ImportPolicy{
		UseHaste:                   o.UseHaste,
		UseSingleArtifactDirectory: o.UseSingleArtifactDirectory,
	}
}

// Value returns the canonical form of the options. Slices are sorted, so
// options that generate identical output have identical values.
func (o Options) Value() ir.IRValue {
	scalars := ir.IRObject{}
	for k, v := range o.CustomScalars {
		scalars[k] = ir.IRString(v)
	}
	return ir.IRObject{
		"custom_scalars":                scalars,
		"enums_haste_module":            ir.IRString(o.EnumsHasteModule),
		"existing_fragment_names":       sortedStrings(o.ExistingFragmentNames),
		"optional_input_fields":         sortedStrings(o.OptionalInputFields),
		"use_haste":                     ir.IRBool(o.UseHaste),
		"use_single_artifact_directory": ir.IRBool(o.UseSingleArtifactDirectory),
		"no_future_proof_enums":         ir.IRBool(o.NoFutureProofEnums),
		"strict_scalars":                ir.IRBool(o.StrictScalars),
	}
}

// Fingerprint returns the content hash of the options.
func (o Options) Fingerprint() (string, error) {
	return ir.HashValue(ir.DomainOptions, o.Value())
}

func sortedStrings(ss []string) ir.IRArray {
	sorted := append([]string(nil), ss...)
	sort.Strings(sorted)
	out := make(ir.IRArray, len(sorted))
	for i, s := range sorted {
		out[i] = ir.IRString(s)
	}
	return out
}

func stringSet(ss []string) map[string]bool {
	set := make(map[string]bool, len(ss))
	for _, s := range ss {
		set[s] = true
	}
	return set
}
