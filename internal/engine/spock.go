// internal/engine/spock.go
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"haplophase/internal/genotype"
	"haplophase/internal/phase"
)

// SpockOptions tunes Spock. The zero value runs without budgets and seeds
// the bound with a Greedy cover whenever M is within Greedy's marker limit.
// Branching fixes every genotype ambiguous at a marker alike, so the search
// alone is not exhaustive; the incumbent keeps its size at or below Greedy's.
type SpockOptions struct {
	// MaxNodes stops branching after this many node expansions (0 = no limit).
	MaxNodes int

	// Timeout bounds the whole call, incumbent included (0 = no limit).
	Timeout time.Duration

	// NoIncumbent skips the Greedy run that seeds the bound.
	NoIncumbent bool
}

// Spock is a branch-and-bound depth-first search for the smallest set of
// haplotypes explaining every genotype.
//
// Each node deduces what its working genotypes already determine: a genotype
// consistent with a known haplotype joins it, and a genotype with no ambiguous
// marker left becomes a new haplotype. Nodes needing more haplotypes than the
// best complete solution are dropped. Remaining genotypes are split on one
// marker: every genotype ambiguous there is fixed to HomoRef in one child and
// HomoAlt in the other, and the child matching the majority homozygous state
// is explored first.
type Spock struct {
	opt    SpockOptions
	greedy GreedyOptions
	log    logrus.FieldLogger
	mx     *Metrics
}

// NewSpock returns a Spock strategy. greedy configures the incumbent run.
func NewSpock(o SpockOptions, greedy GreedyOptions, d Deps) *Spock {
	return &Spock{opt: o, greedy: greedy, log: d.logger(AlgorithmSpock), mx: d.Metrics}
}

// Phase returns an empty result for an empty genotype set.
func (s *Spock) Phase(ctx context.Context, m int, gts []genotype.Genotype) (*phase.Result, error) {
	return timed(s.mx, AlgorithmSpock, func() (*phase.Result, error) {
		return s.phase(ctx, m, gts)
	})
}

type budget struct {
	maxNodes int
	deadline time.Time
}

func (b budget) spent(nodes int) bool {
	if b.maxNodes > 0 && nodes >= b.maxNodes {
		return true
	}
	return !b.deadline.IsZero() && !time.Now().Before(b.deadline)
}

func (s *Spock) phase(ctx context.Context, m int, gts []genotype.Genotype) (*phase.Result, error) {
	if err := checkLengths(m, gts); err != nil {
		return nil, err
	}
	res := &phase.Result{}
	if len(gts) == 0 {
		return res, nil
	}

	log := s.log.WithFields(logrus.Fields{"markers": m, "genotypes": len(gts)})
	log.Debug("spock phase start")

	b := budget{maxNodes: s.opt.MaxNodes}
	if s.opt.Timeout > 0 {
		b.deadline = time.Now().Add(s.opt.Timeout)
	}

	bound := len(gts)
	incumbent, err := s.incumbent(ctx, b, m, gts)
	if err != nil {
		return nil, err
	}
	if incumbent != nil {
		bound = incumbent.Size()
		log.WithField("bound", bound).Debug("greedy incumbent")
	}

	dd := newDeducer(gts, m)
	all := make([]int, len(gts))
	for i := range all {
		all[i] = i
	}

	var best *deduction
	stack := make([]*deduction, 0, 2*m+2)
	if root := dd.deduce(&deduction{}, nil, all, bound); root != nil {
		stack = append(stack, root)
	} else {
		res.Stats.Pruned++
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if d.complete() {
			if d.count() <= bound {
				best, bound = d, d.count()
				res.Stats.Solutions++
			}
			continue
		}
		if d.count() > bound {
			res.Stats.Pruned++
			continue
		}

		if b.spent(res.Stats.Nodes) {
			res.BestEffort = true
			log.WithFields(logrus.Fields{"nodes": res.Stats.Nodes, "pending": len(stack) + 1}).
				Warn("search budget exhausted; result is not proven minimal")
			if best == nil && incumbent == nil {
				best = s.dive(dd, d, bound, &res.Stats)
			}
			break
		}

		res.Stats.Nodes++
		ref, alt := s.expand(dd, d, bound)
		first, second := alt, ref
		if d.guess == genotype.HomoAlt {
			first, second = ref, alt
		}
		for _, child := range []*deduction{first, second} {
			if child == nil {
				res.Stats.Pruned++
				continue
			}
			stack = append(stack, child)
		}
	}

	log.WithFields(logrus.Fields{
		"nodes":     res.Stats.Nodes,
		"pruned":    res.Stats.Pruned,
		"solutions": res.Stats.Solutions,
		"size":      bound,
	}).Debug("spock phase done")

	if best == nil {
		if incumbent == nil {
			return nil, errors.New("spock: search ended without a solution")
		}
		incumbent.Stats.Add(res.Stats)
		incumbent.BestEffort = incumbent.BestEffort || res.BestEffort
		return incumbent, nil
	}
	matches, err := rebuild(gts, best)
	if err != nil {
		return nil, err
	}
	res.Matches = matches
	return res, nil
}

// expand builds the HomoRef and HomoAlt children of d. A nil child was pruned.
func (s *Spock) expand(dd *deducer, d *deduction, bound int) (ref, alt *deduction) {
	ref = dd.deduce(d, &overlay{pos: d.branch, val: genotype.HomoRef, parent: d.fixes}, d.unresolved, bound)
	alt = dd.deduce(d, &overlay{pos: d.branch, val: genotype.HomoAlt, parent: d.fixes}, d.unresolved, bound)
	return ref, alt
}

// dive follows preferred children from d to the first complete solution.
// Each step fixes one more marker, so it ends within m steps.
func (s *Spock) dive(dd *deducer, d *deduction, bound int, st *phase.Stats) *deduction {
	for d != nil && !d.complete() {
		st.Nodes++
		preferred, other := s.expand(dd, d, bound)
		if d.guess == genotype.HomoAlt {
			preferred, other = other, preferred
		}
		if preferred != nil {
			d = preferred
		} else {
			st.Pruned++
			d = other
		}
	}
	if d != nil {
		st.Solutions++
	}
	return d
}

// incumbent runs Greedy as the initial bound when enabled and feasible. It
// shares the search deadline; a Greedy run that cannot finish in time leaves
// the search without an incumbent.
func (s *Spock) incumbent(ctx context.Context, b budget, m int, gts []genotype.Genotype) (*phase.Result, error) {
	if s.opt.NoIncumbent || m > s.greedy.maxMarkers() {
		return nil, nil
	}
	gctx := ctx
	if !b.deadline.IsZero() {
		var cancel context.CancelFunc
		gctx, cancel = context.WithDeadline(ctx, b.deadline)
		defer cancel()
	}
	g := &Greedy{opt: GreedyOptions{MaxMarkers: s.greedy.MaxMarkers}, log: s.log}
	res, err := g.phase(gctx, m, gts)
	switch {
	case err == nil:
	case ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded):
		s.log.WithField("timeout", s.opt.Timeout).Warn("greedy incumbent did not finish within the search budget")
		return nil, nil
	default:
		return nil, err
	}
	if len(res.Unresolved) > 0 {
		return nil, nil
	}
	return res, nil
}

// rebuild turns a search node into matches holding the caller's own
// genotype values, in the order the search attached them.
func rebuild(gts []genotype.Genotype, d *deduction) ([]*phase.Match, error) {
	var order []*assignment
	for a := d.members; a != nil; a = a.parent {
		order = append(order, a)
	}
	out := make([]*phase.Match, len(d.haps))
	for i, h := range d.haps {
		out[i] = phase.NewMatch(h)
	}
	for i := len(order) - 1; i >= 0; i-- {
		a := order[i]
		if err := out[a.hap].Add(gts[a.gen]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
