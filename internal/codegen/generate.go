package codegen

import (
	"fmt"

	"github.com/roach88/relayts/internal/emit"
	"github.com/roach88/relayts/internal/ir"
	"github.com/roach88/relayts/internal/typeexpr"
)

// Result is the output of one Generate call.
type Result struct {
	// Text is the TypeScript declaration source.
	Text string

	// Warnings are non-fatal findings, in walk order.
	Warnings []Warning
}

// Generate produces the TypeScript declarations for doc.
//
// normalized is the operation's normalized tree. When it is nil the
// variables and raw response types are skipped; it is ignored for
// fragments.
//
// Errors are *Error values carrying E2xx codes.
func Generate(doc ir.Document, schema *ir.Schema, opts Options, normalized *ir.Root) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("generate: nil document")
	}
	if schema == nil {
		return nil, fmt.Errorf("generate %s: nil schema", doc.DocumentName())
	}

	scalars := NewScalarEnumMapper(schema, opts)
	fragments := NewFragmentReferenceResolver(opts.ExistingFragmentNames)
	b := &selectionBuilder{schema: schema, scalars: scalars, fragments: fragments}

	out := emit.Document{Name: doc.DocumentName(), Kind: ir.DocumentKind(doc)}
	var inputs []emit.Declaration

	switch d := doc.(type) {
	case *ir.Fragment:
		t, err := b.fragmentType(d)
		if err != nil {
			return nil, err
		}
		out.Type = t

	case *ir.Operation:
		parent, err := operationRootType(schema, d.Kind, d.Type, d.Name)
		if err != nil {
			return nil, err
		}
		if out.Type, err = b.Build(parent, d.Selections, d.Name); err != nil {
			return nil, err
		}
		if normalized != nil {
			vars := NewVariablesTypeBuilder(schema, scalars, opts.OptionalInputFields)
			if out.Variables, err = vars.BuildVariables(normalized); err != nil {
				return nil, err
			}
			inputs = vars.InputObjects()

			if d.RawResponse {
				rawParent, err := operationRootType(schema, normalized.Kind, normalized.Type, normalized.Name)
				if err != nil {
					return nil, err
				}
				if out.RawResponse, err = b.Build(rawParent, normalized.Selections, d.Name+"RawResponse"); err != nil {
					return nil, err
				}
			}
		}
	}

	text, err := emit.Emit(emit.Input{
		Document:          out,
		Enums:             scalars.Enums(),
		InputObjects:      inputs,
		EnumsModule:       opts.EnumsHasteModule,
		ExistingFragments: fragments.Existing(),
		Policy:            opts.ImportPolicy(),
	})
	if err != nil {
		return nil, err
	}
	return &Result{Text: text, Warnings: scalars.Warnings()}, nil
}

// fragmentType builds a fragment's branded shape; plural fragments are
// lists of it.
func (b *selectionBuilder) fragmentType(f *ir.Fragment) (typeexpr.Expr, error) {
	t, ok := b.schema.Lookup(f.TypeCondition)
	if !ok {
		return nil, errorf(CodeUnknownType, f.Name, "unknown type condition %q", f.TypeCondition)
	}
	if !t.Kind.IsComposite() {
		return nil, errorf(CodeMalformedSelection, f.Name, "fragment on %s type %q", t.Kind, f.TypeCondition)
	}
	obj, err := b.Build(f.TypeCondition, f.Selections, f.Name, b.fragments.Brand(f.Name))
	if err != nil {
		return nil, err
	}
	if f.Plural {
		return typeexpr.ArrayOf(obj), nil
	}
	return obj, nil
}

// operationRootType resolves the root type of an operation: the explicit
// type when set, otherwise the schema's root for kind.
func operationRootType(schema *ir.Schema, kind ir.OperationKind, explicit, name string) (string, error) {
	root := explicit
	if root == "" {
		switch kind {
		case ir.OperationQuery:
			root = schema.QueryType
		case ir.OperationMutation:
			root = schema.MutationType
		case ir.OperationSubscription:
			root = schema.SubscriptionType
		}
	}
	t, ok := schema.Lookup(root)
	if !ok {
		return "", errorf(CodeUnknownType, name, "unknown %s root type %q", kind, root)
	}
	if t.Kind != ir.KindObject {
		return "", errorf(CodeMalformedSelection, name, "%s root type %q is a %s", kind, root, t.Kind)
	}
	return root, nil
}
