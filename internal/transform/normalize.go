// Package transform derives the normalized tree of an operation.
//
// The normalized tree is the operation's selections with every fragment
// spread replaced by an inline fragment on the fragment's type condition,
// recursively. It describes the full payload the server returns, which is
// what the variables and raw response shapes are built from.
package transform

import (
	"fmt"
	"strings"

	"github.com/roach88/relayts/internal/ir"
)

// Normalize returns the normalized tree of op. Spreads must name fragments
// in ctx; a spread cycle is an error rather than an endless expansion.
//
// The result shares no slices with op, so callers may keep both.
func Normalize(ctx *ir.Context, op *ir.Operation) (*ir.Root, error) {
	n := &normalizer{ctx: ctx, active: make(map[string]bool)}
	sels, err := n.selections(op.Selections)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", op.Name, err)
	}
	return &ir.Root{
		Kind:                op.Kind,
		Name:                op.Name,
		Type:                op.Type,
		ArgumentDefinitions: append([]ir.ArgumentDefinition(nil), op.ArgumentDefinitions...),
		Selections:          sels,
	}, nil
}

type normalizer struct {
	ctx    *ir.Context
	active map[string]bool // fragments being expanded
	stack  []string
}

func (n *normalizer) selections(sels []ir.Selection) ([]ir.Selection, error) {
	out := make([]ir.Selection, 0, len(sels))
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ir.Field:
			children, err := n.selections(s.Selections)
			if err != nil {
				return nil, err
			}
			field := *s
			if len(s.Selections) == 0 {
				children = nil
			}
			field.Selections = children
			out = append(out, &field)

		case *ir.InlineFragment:
			children, err := n.selections(s.Selections)
			if err != nil {
				return nil, err
			}
			out = append(out, &ir.InlineFragment{TypeCondition: s.TypeCondition, Selections: children})

		case *ir.Condition:
			children, err := n.selections(s.Selections)
			if err != nil {
				return nil, err
			}
			out = append(out, &ir.Condition{Variable: s.Variable, Passing: s.Passing, Selections: children})

		case *ir.FragmentSpread:
			inline, err := n.expand(s.Name)
			if err != nil {
				return nil, err
			}
			out = append(out, inline)
		}
	}
	return out, nil
}

func (n *normalizer) expand(name string) (*ir.InlineFragment, error) {
	frag, ok := n.ctx.Fragment(name)
	if !ok {
		return nil, fmt.Errorf("undefined fragment %q", name)
	}
	if n.active[name] {
		return nil, fmt.Errorf("fragment cycle: %s → %s", strings.Join(n.stack, " → "), name)
	}
	n.active[name] = true
	n.stack = append(n.stack, name)
	defer func() {
		delete(n.active, name)
		n.stack = n.stack[:len(n.stack)-1]
	}()

	children, err := n.selections(frag.Selections)
	if err != nil {
		return nil, err
	}
	return &ir.InlineFragment{TypeCondition: frag.TypeCondition, Selections: children}, nil
}
