// internal/sample/sample.go
package sample

import (
	"fmt"

	"haplophase/internal/genotype"
)

// Sample is N genotypes of M markers each. Genotype i carries tag i.
type Sample struct {
	M         int
	Genotypes []genotype.Genotype
}

// N is the number of genotypes.
func (s *Sample) N() int { return len(s.Genotypes) }

// Dims renders the sample shape as "NxM".
func (s *Sample) Dims() string { return fmt.Sprintf("%dx%d", s.N(), s.M) }

// New builds a sample from gts, retagging them by position.
func New(m int, gts []genotype.Genotype) (*Sample, error) {
	out := make([]genotype.Genotype, len(gts))
	for i, g := range gts {
		if g.Len() != m {
			return nil, fmt.Errorf("%w: genotype %d has %d markers, want %d", genotype.ErrLengthMismatch, i+1, g.Len(), m)
		}
		out[i] = g.WithTag(i)
	}
	return &Sample{M: m, Genotypes: out}, nil
}
