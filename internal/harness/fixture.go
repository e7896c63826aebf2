package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/relayts/internal/codegen"
)

// Fixture defines one conformance case.
type Fixture struct {
	// Name uniquely identifies the fixture and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Schema replaces the shared test schema when set. It must hold a
	// complete `schema: {...}` section.
	Schema string `yaml:"schema,omitempty"`

	// Documents is CUE source with fragment/query/mutation/subscription
	// sections.
	Documents string `yaml:"documents"`

	Options Options `yaml:"options,omitempty"`

	Assertions []Assertion `yaml:"assertions"`

	// Golden compares the rendered artifacts against a golden file.
	Golden bool `yaml:"golden,omitempty"`
}

// Options mirrors codegen.Options in YAML form.
type Options struct {
	CustomScalars              map[string]string `yaml:"custom_scalars,omitempty"`
	EnumsHasteModule           string            `yaml:"enums_haste_module,omitempty"`
	ExistingFragmentNames      []string          `yaml:"existing_fragment_names,omitempty"`
	OptionalInputFields        []string          `yaml:"optional_input_fields,omitempty"`
	UseHaste                   bool              `yaml:"use_haste,omitempty"`
	UseSingleArtifactDirectory bool              `yaml:"use_single_artifact_directory,omitempty"`
	NoFutureProofEnums         bool              `yaml:"no_future_proof_enums,omitempty"`
	StrictScalars              bool              `yaml:"strict_scalars,omitempty"`
}

// Codegen converts the fixture options to generator options.
func (o Options) Codegen() codegen.Options {
	return codegen.Options{
		CustomScalars:              o.CustomScalars,
		EnumsHasteModule:           o.EnumsHasteModule,
		ExistingFragmentNames:      o.ExistingFragmentNames,
		OptionalInputFields:        o.OptionalInputFields,
		UseHaste:                   o.UseHaste,
		UseSingleArtifactDirectory: o.UseSingleArtifactDirectory,
		NoFutureProofEnums:         o.NoFutureProofEnums,
		StrictScalars:              o.StrictScalars,
	}
}

// Assertion checks one property of a fixture's result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Document names the artifact the assertion applies to.
	// Not used by invalid.
	Document string `yaml:"document,omitempty"`

	// Text is the substring for contains and not_contains.
	Text string `yaml:"text,omitempty"`

	// Code is the warning, error or validation code.
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertContains    = "contains"
	AssertNotContains = "not_contains"
	AssertWarning     = "warning"
	AssertNoWarnings  = "no_warnings"
	AssertError       = "error"
	AssertInvalid     = "invalid"
)

// LoadFixture reads and parses a fixture YAML file. Unknown fields are
// rejected so typos fail loudly.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateFixture(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}
	return &f, nil
}

// LoadFixtures loads every *.yaml file in dir, sorted by file name.
func LoadFixtures(dir string) ([]*Fixture, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	fixtures := make([]*Fixture, 0, len(paths))
	names := make(map[string]string)
	for _, path := range paths {
		f, err := LoadFixture(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := names[f.Name]; dup {
			return nil, fmt.Errorf("fixture name %q used by %s and %s", f.Name, prev, path)
		}
		names[f.Name] = path
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

func validateFixture(f *Fixture) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	if f.Description == "" {
		return fmt.Errorf("description is required")
	}
	if f.Documents == "" {
		return fmt.Errorf("documents are required")
	}
	if len(f.Assertions) == 0 && !f.Golden {
		return fmt.Errorf("a fixture needs assertions or a golden file")
	}
	for i := range f.Assertions {
		if err := validateAssertion(i, &f.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertContains, AssertNotContains:
		if a.Document == "" || a.Text == "" {
			return fmt.Errorf("assertions[%d]: document and text are required for %s", index, a.Type)
		}
	case AssertWarning, AssertError:
		if a.Document == "" || a.Code == "" {
			return fmt.Errorf("assertions[%d]: document and code are required for %s", index, a.Type)
		}
	case AssertNoWarnings:
		if a.Document == "" {
			return fmt.Errorf("assertions[%d]: document is required for no_warnings", index)
		}
	case AssertInvalid:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for invalid", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
