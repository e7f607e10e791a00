// internal/phase/match.go
package phase

import (
	"fmt"

	"haplophase/internal/genotype"
)

// Match is one haplotype plus the genotypes it explains, in insertion order.
// A Match is owned by a single Phase call and is not safe for concurrent
// mutation.
type Match struct {
	hap  genotype.Haplotype
	gens []genotype.Genotype
}

// NewMatch starts an empty group for h.
func NewMatch(h genotype.Haplotype) *Match { return &Match{hap: h} }

func (m *Match) Haplotype() genotype.Haplotype { return m.hap }

// Genotypes returns the member genotypes. The slice must not be modified.
func (m *Match) Genotypes() []genotype.Genotype { return m.gens }

func (m *Match) Len() int { return len(m.gens) }

// Add appends g.
func (m *Match) Add(g genotype.Genotype) error {
	if g.Len() != m.hap.Len() {
		return fmt.Errorf("%w: genotype %d markers, haplotype %d", genotype.ErrLengthMismatch, g.Len(), m.hap.Len())
	}
	m.gens = append(m.gens, g)
	return nil
}

// Complements returns, per member genotype, the haplotype that pairs with
// this match's haplotype to produce it.
func (m *Match) Complements() ([]genotype.Haplotype, error) {
	out := make([]genotype.Haplotype, len(m.gens))
	for i, g := range m.gens {
		c, err := genotype.Complement(m.hap, g)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// UniquePairCount is the number of distinct {haplotype, complement} pairs
// hiding in this group.
func (m *Match) UniquePairCount() (int, error) {
	comps, err := m.Complements()
	if err != nil {
		return 0, err
	}
	consumed := make([]bool, len(comps))
	count := 0
	for i := range comps {
		if consumed[i] {
			continue
		}
		count++
		for j := i + 1; j < len(comps); j++ {
			if !consumed[j] && comps[i].Equal(comps[j]) {
				consumed[j] = true
			}
		}
	}
	return count, nil
}

// Validate checks that the haplotype explains every member genotype.
func (m *Match) Validate() error {
	for _, g := range m.gens {
		ok, err := genotype.Match(m.hap, g)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("haplotype %s does not explain genotype %s", m.hap, g)
		}
	}
	return nil
}
