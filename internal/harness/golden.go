package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs a fixture, fails the test on any assertion error and
// compares the rendered artifacts against testdata/golden/{name}.golden
// when the fixture asks for it.
func RunWithGolden(t *testing.T, f *Fixture) (*Result, error) {
	t.Helper()

	result, err := Run(f)
	if err != nil {
		return nil, err
	}
	for _, e := range result.Errors {
		t.Error(e)
	}
	if f.Golden {
		AssertGolden(t, f.Name, result)
	}
	return result, nil
}

// AssertGolden compares result's snapshot against the named golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(result.Snapshot()))
}
