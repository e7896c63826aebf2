package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relayts/internal/ir"
)

func spreads(names ...string) []ir.Selection {
	sels := []ir.Selection{f("id", "ID!")}
	for _, n := range names {
		sels = append(sels, &ir.FragmentSpread{Name: n})
	}
	return sels
}

func frag(name string, spreadNames ...string) *ir.Fragment {
	return &ir.Fragment{Name: name, TypeCondition: "User", Selections: spreads(spreadNames...)}
}

// TestAnalyzeFragmentCycles_Empty tests that an empty set has no cycles.
func TestAnalyzeFragmentCycles_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeFragmentCycles(testContext(t)))
}

// TestAnalyzeFragmentCycles_DAG tests that a diamond of spreads is acyclic.
func TestAnalyzeFragmentCycles_DAG(t *testing.T) {
	ctx := testContext(t, frag("A", "B", "C"), frag("B", "D"), frag("C", "D"), frag("D"))
	assert.Empty(t, AnalyzeFragmentCycles(ctx))
}

// TestAnalyzeFragmentCycles_SelfLoop tests a fragment spreading itself.
func TestAnalyzeFragmentCycles_SelfLoop(t *testing.T) {
	ctx := testContext(t, frag("Loop", "Loop"))
	cycles := AnalyzeFragmentCycles(ctx)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"Loop", "Loop"}, cycles[0].Path)
	assert.Contains(t, cycles[0].Message, "spreads itself")
}

// TestAnalyzeFragmentCycles_ThreeNodes tests a longer cycle and its path.
func TestAnalyzeFragmentCycles_ThreeNodes(t *testing.T) {
	ctx := testContext(t, frag("A", "B"), frag("B", "C"), frag("C", "A"), frag("Z", "A"))
	cycles := AnalyzeFragmentCycles(ctx)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"A", "B", "C", "A"}, cycles[0].Path)
}

// TestAnalyzeFragmentCycles_Separate tests two independent cycles, sorted
// by their first fragment.
func TestAnalyzeFragmentCycles_Separate(t *testing.T) {
	ctx := testContext(t, frag("X", "Y"), frag("Y", "X"), frag("A", "B"), frag("B", "A"))
	cycles := AnalyzeFragmentCycles(ctx)
	require.Len(t, cycles, 2)
	assert.Equal(t, "A", cycles[0].Path[0])
	assert.Equal(t, "X", cycles[1].Path[0])
}

// TestAnalyzeFragmentCycles_IgnoresOperations tests that operations never
// form part of a cycle and unknown spreads are skipped.
func TestAnalyzeFragmentCycles_IgnoresOperations(t *testing.T) {
	op := &ir.Operation{Kind: ir.OperationQuery, Name: "Q", Type: "Query", Selections: []ir.Selection{
		f("viewer", "User", &ir.FragmentSpread{Name: "A"}),
	}}
	ctx := testContext(t, op, frag("A", "Missing"))
	assert.Empty(t, AnalyzeFragmentCycles(ctx))
}

// TestAnalyzeFragmentCycles_Deterministic runs the analysis repeatedly.
func TestAnalyzeFragmentCycles_Deterministic(t *testing.T) {
	ctx := testContext(t, frag("A", "B"), frag("B", "C"), frag("C", "A"))
	first := AnalyzeFragmentCycles(ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AnalyzeFragmentCycles(ctx))
	}
}
