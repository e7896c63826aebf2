package codegen

import "github.com/roach88/relayts/internal/typeexpr"

// Hidden property keys. The leading space keeps them from colliding with
// any GraphQL response key.
const (
	FragmentRefsKey = " $fragmentRefs"
	RefTypeKey      = " $refType"
)

// FragmentReferenceResolver turns fragment spreads into opaque references.
// A spread never contributes the fragment's fields to the enclosing shape.
type FragmentReferenceResolver struct {
	existing map[string]bool
}

// NewFragmentReferenceResolver creates a resolver. existing names the
// fragments whose artifacts can be imported.
func NewFragmentReferenceResolver(existing []string) *FragmentReferenceResolver {
	return &FragmentReferenceResolver{existing: stringSet(existing)}
}

// Resolve returns the opaque reference of a fragment.
func (r *FragmentReferenceResolver) Resolve(name string) typeexpr.Expr {
	return typeexpr.Ref(name)
}

// RefsProperty returns the hidden property holding the references of the
// spread fragments, or false when there are none.
func (r *FragmentReferenceResolver) RefsProperty(names []string) (typeexpr.Property, bool) {
	if len(names) == 0 {
		return typeexpr.Property{}, false
	}
	refs := make([]typeexpr.Expr, len(names))
	for i, name := range names {
		refs[i] = r.Resolve(name)
	}
	return typeexpr.Prop(FragmentRefsKey, typeexpr.IntersectionOf(refs...)), true
}

// Brand returns the hidden property that makes a fragment's own type
// nominal.
func (r *FragmentReferenceResolver) Brand(fragment string) typeexpr.Property {
	return typeexpr.Prop(RefTypeKey, r.Resolve(fragment))
}

// Existing reports the fragments that are imported rather than declared.
func (r *FragmentReferenceResolver) Existing() map[string]bool {
	return r.existing
}
