// internal/sample/generate.go
package sample

import (
	"math/rand/v2"

	"haplophase/internal/genotype"
)

// Generate draws n genotypes of m markers with every state equally likely.
func Generate(r *rand.Rand, n, m int) *Sample {
	s := &Sample{M: m, Genotypes: make([]genotype.Genotype, n)}
	seq := make([]genotype.State, m)
	for i := range s.Genotypes {
		for j := range seq {
			seq[j] = genotype.State(r.IntN(3))
		}
		g, _ := genotype.NewTaggedGenotype(seq, i)
		s.Genotypes[i] = g
	}
	return s
}

// Draw is GeneratePopulation when p > 0 and Generate otherwise.
func Draw(r *rand.Rand, n, m, p int) *Sample {
	if p > 0 {
		return GeneratePopulation(r, n, m, p)
	}
	return Generate(r, n, m)
}

// MaxPopulation is the largest distinct pair count GeneratePopulation
// honours for m markers: 2^m, saturating for large m.
func MaxPopulation(m int) int {
	if m >= 30 {
		return 1 << 30
	}
	return 1 << m
}

// GeneratePopulation crosses random haplotype pairs until p distinct
// genotypes exist (p is capped at MaxPopulation(m)), then draws n genotypes
// from that pool. The result is a sample known to be explainable by at
// most 2p haplotypes.
func GeneratePopulation(r *rand.Rand, n, m, p int) *Sample {
	p = min(p, MaxPopulation(m))
	s := &Sample{M: m, Genotypes: make([]genotype.Genotype, n)}
	if p < 1 {
		p = 1
	}

	pool := make([]genotype.Genotype, 0, p)
	seen := make(map[string]struct{}, p)
	for len(pool) < p {
		g, _ := genotype.Combine(randomHaplotype(r, m), randomHaplotype(r, m), len(pool))
		key := g.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pool = append(pool, g)
	}
	for i := range s.Genotypes {
		s.Genotypes[i] = pool[r.IntN(len(pool))].WithTag(i)
	}
	return s
}

func randomHaplotype(r *rand.Rand, m int) genotype.Haplotype {
	seq := make([]genotype.Allele, m)
	for j := range seq {
		seq[j] = genotype.Allele(r.IntN(2))
	}
	h, _ := genotype.NewHaplotype(seq)
	return h
}
