package harness

import (
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/relayts/internal/codegen"
	"github.com/roach88/relayts/internal/compiler"
	"github.com/roach88/relayts/internal/ir"
	"github.com/roach88/relayts/internal/testutil"
	"github.com/roach88/relayts/internal/transform"
)

// Output is the generation outcome for one document.
type Output struct {
	Name     string
	Kind     string
	Text     string
	Warnings []codegen.Warning
	Err      *codegen.Error // set when generation failed
}

// Result is the outcome of running a fixture.
type Result struct {
	// Pass is true when every assertion holds.
	Pass bool

	// Outputs holds one entry per document, sorted by name. It is empty
	// when the set failed validation.
	Outputs []Output

	// Invalid holds set validation errors.
	Invalid []compiler.ValidationError

	// Errors holds assertion failures.
	Errors []string
}

// AddError records an assertion failure.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Output returns the output for the named document.
func (r *Result) Output(name string) (Output, bool) {
	for _, o := range r.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}

// Snapshot renders all outputs in golden file form.
func (r *Result) Snapshot() string {
	parts := make([]string, len(r.Outputs))
	for i, o := range r.Outputs {
		body := o.Text
		if o.Err != nil {
			body = "// error " + o.Err.Code + "\n"
		}
		parts[i] = "// " + o.Name + ".graphql\n" + body
	}
	return strings.Join(parts, "\n")
}

// Run compiles the fixture's documents, generates every document
// independently and evaluates the assertions.
//
// A returned error means the fixture itself is broken (CUE that does not
// compile, an unknown document kind). Generation failures are recorded in
// the outputs so assertions can check for them.
func Run(f *Fixture) (*Result, error) {
	set, err := compileFixture(f)
	if err != nil {
		return nil, err
	}

	result := &Result{Pass: true}
	if verrs := compiler.Validate(set); len(verrs) > 0 {
		result.Invalid = verrs
	} else {
		opts := f.Options.Codegen()
		for _, doc := range set.Documents() {
			out, err := generate(set, doc, opts)
			if err != nil {
				return nil, err
			}
			result.Outputs = append(result.Outputs, out)
		}
	}

	for _, a := range f.Assertions {
		if err := evaluate(result, a); err != nil {
			result.AddError(err.Error())
		}
	}
	return result, nil
}

func compileFixture(f *Fixture) (*ir.Context, error) {
	schema := f.Schema
	if schema == "" {
		schema = testutil.SchemaCUE
	}
	v := cuecontext.New().CompileString(schema + "\n" + f.Documents)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("fixture %s: compile CUE: %w", f.Name, err)
	}
	set, errs := compiler.Compile(v)
	if len(errs) > 0 {
		return nil, fmt.Errorf("fixture %s: %w", f.Name, errors.Join(errs...))
	}
	return set, nil
}

func generate(set *ir.Context, doc ir.Document, opts codegen.Options) (Output, error) {
	out := Output{Name: doc.DocumentName(), Kind: ir.DocumentKind(doc)}

	var root *ir.Root
	if op, ok := doc.(*ir.Operation); ok {
		var err error
		if root, err = transform.Normalize(set, op); err != nil {
			return Output{}, fmt.Errorf("normalize %s: %w", out.Name, err)
		}
	}

	res, err := codegen.Generate(doc, set.Schema, opts, root)
	if err != nil {
		var genErr *codegen.Error
		if errors.As(err, &genErr) {
			out.Err = genErr
			return out, nil
		}
		return Output{}, fmt.Errorf("generate %s: %w", out.Name, err)
	}
	out.Text, out.Warnings = res.Text, res.Warnings
	return out, nil
}
