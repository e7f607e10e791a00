// internal/phase/result.go
package phase

import (
	"context"
	"errors"

	"haplophase/internal/genotype"
)

// ErrNoInput is returned by strategies that treat an empty genotype set as
// a caller error rather than a trivially empty solution.
var ErrNoInput = errors.New("no genotypes to phase")

// Phaser is the single capability every strategy offers. Implementations
// must abort with a wrapped genotype.ErrLengthMismatch if any genotype's
// length differs from m.
type Phaser interface {
	Phase(ctx context.Context, m int, gts []genotype.Genotype) (*Result, error)
}

// Stats are per-call search counters. Fields a strategy does not use stay 0.
type Stats struct {
	Rounds    int // greedy cover rounds
	Nodes     int // search nodes expanded
	Pruned    int // branches cut by the bound
	Solutions int // complete solutions accepted as best
	Windows   int // windows phased by the stitcher
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Rounds += o.Rounds
	s.Nodes += o.Nodes
	s.Pruned += o.Pruned
	s.Solutions += o.Solutions
	s.Windows += o.Windows
}

// Result is the output of one Phase call.
type Result struct {
	Matches []*Match

	// Unresolved lists genotypes no match explains. Empty for a complete
	// solution.
	Unresolved []genotype.Genotype

	// BestEffort is set when the solution is not the strategy's full answer:
	// a search budget ran out, or independently phased windows were stitched
	// together.
	BestEffort bool

	Stats Stats
}

// Size is the number of distinct explaining haplotypes.
func (r *Result) Size() int {
	if r == nil {
		return 0
	}
	return len(r.Matches)
}

// UniquePairs sums UniquePairCount over all matches.
func (r *Result) UniquePairs() (int, error) {
	if r == nil {
		return 0, nil
	}
	total := 0
	for _, m := range r.Matches {
		n, err := m.UniquePairCount()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Validate checks every match.
func (r *Result) Validate() error {
	if r == nil {
		return nil
	}
	for _, m := range r.Matches {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}
