// internal/engine/greedy.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"haplophase/internal/genotype"
	"haplophase/internal/phase"
)

// DefaultGreedyMaxMarkers bounds the 2^M candidate space Greedy will enumerate.
const DefaultGreedyMaxMarkers = 20

// ErrCandidateSpace is returned when M exceeds GreedyOptions.MaxMarkers.
var ErrCandidateSpace = errors.New("candidate space too large")

// GreedyOptions tunes Greedy.
type GreedyOptions struct {
	// MaxMarkers caps M (0 = DefaultGreedyMaxMarkers, at most 32).
	MaxMarkers int

	// DropUnresolved discards genotypes left uncovered when the candidate pool
	// runs dry instead of reporting them in Result.Unresolved.
	DropUnresolved bool
}

func (o GreedyOptions) maxMarkers() int {
	switch {
	case o.MaxMarkers <= 0:
		return DefaultGreedyMaxMarkers
	case o.MaxMarkers > 32:
		return 32
	}
	return o.MaxMarkers
}

// Greedy repeatedly picks the candidate haplotype that explains the most
// unresolved genotypes until every genotype is explained. It is not
// guaranteed to find the smallest cover.
type Greedy struct {
	opt GreedyOptions
	log logrus.FieldLogger
	mx  *Metrics
}

// NewGreedy returns a Greedy strategy.
func NewGreedy(o GreedyOptions, d Deps) *Greedy {
	return &Greedy{opt: o, log: d.logger(AlgorithmGreedy), mx: d.Metrics}
}

// Phase returns phase.ErrNoInput for an empty genotype set.
func (g *Greedy) Phase(ctx context.Context, m int, gts []genotype.Genotype) (*phase.Result, error) {
	return timed(g.mx, AlgorithmGreedy, func() (*phase.Result, error) {
		return g.phase(ctx, m, gts)
	})
}

// fixedKey is a genotype reduced to bit masks: a candidate c matches when
// (c ^ vals) & mask == 0, i.e. it agrees on every homozygous marker.
type fixedKey struct {
	mask, vals uint64
}

func keyOf(g genotype.Genotype) fixedKey {
	var k fixedKey
	m := g.Len()
	for j := 0; j < m; j++ {
		s := g.At(j)
		if s == genotype.Hetero {
			continue
		}
		bit := uint64(1) << uint(m-1-j)
		k.mask |= bit
		if s == genotype.HomoAlt {
			k.vals |= bit
		}
	}
	return k
}

func (k fixedKey) matches(c uint64) bool { return (c^k.vals)&k.mask == 0 }

func (g *Greedy) phase(ctx context.Context, m int, gts []genotype.Genotype) (*phase.Result, error) {
	if len(gts) == 0 {
		return nil, phase.ErrNoInput
	}
	if err := checkLengths(m, gts); err != nil {
		return nil, err
	}
	if lim := g.opt.maxMarkers(); m > lim {
		return nil, fmt.Errorf("%w: %d markers (limit %d); use a window", ErrCandidateSpace, m, lim)
	}

	// Candidates in lexicographic order, marker 0 most significant.
	cands := make([]uint64, 1<<uint(m))
	for i := range cands {
		cands[i] = uint64(i)
	}
	return g.cover(ctx, m, cands, gts)
}

// cover runs the rounds over an explicit candidate pool, which it consumes.
func (g *Greedy) cover(ctx context.Context, m int, cands []uint64, gts []genotype.Genotype) (*phase.Result, error) {
	log := g.log.WithFields(logrus.Fields{"markers": m, "genotypes": len(gts)})
	log.Debug("greedy phase start")

	unresolved := make([]genotype.Genotype, len(gts))
	copy(unresolved, gts)
	keys := make([]fixedKey, len(unresolved))
	for i, gt := range unresolved {
		keys[i] = keyOf(gt)
	}

	res := &phase.Result{}
	for len(unresolved) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Filter in place: each candidate read appends at most one value, so
		// the write cursor never passes the read cursor.
		var (
			best      uint64
			bestCount int
			possible  = cands[:0]
		)
		for i, c := range cands {
			if i&1023 == 1023 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			count := 0
			for _, k := range keys {
				if k.matches(c) {
					count++
				}
			}
			if count > bestCount {
				if bestCount > 0 {
					possible = append(possible, best)
				}
				best, bestCount = c, count
			} else if count != 0 {
				possible = append(possible, c)
			}
		}
		if bestCount == 0 {
			break
		}

		pm := phase.NewMatch(genotype.FromBits(best, m))
		next, nextKeys := unresolved[:0], keys[:0]
		for i, gt := range unresolved {
			if keys[i].matches(best) {
				if err := pm.Add(gt); err != nil {
					return nil, err
				}
				continue
			}
			next = append(next, gt)
			nextKeys = append(nextKeys, keys[i])
		}
		res.Matches = append(res.Matches, pm)
		res.Stats.Rounds++
		unresolved, keys = next, nextKeys
		cands = possible

		log.WithFields(logrus.Fields{
			"round":      res.Stats.Rounds,
			"haplotype":  pm.Haplotype().String(),
			"explained":  pm.Len(),
			"remaining":  len(unresolved),
			"candidates": len(cands),
		}).Debug("greedy round")

		if len(cands) == 0 {
			break
		}
	}

	if len(unresolved) > 0 {
		log.WithField("unresolved", len(unresolved)).Warn("candidate pool exhausted before every genotype was explained")
		if !g.opt.DropUnresolved {
			res.Unresolved = append([]genotype.Genotype(nil), unresolved...)
		}
	}
	return res, nil
}
