// internal/genotype/algebra.go
package genotype

import "fmt"

func checkLen(what string, a, b int) error {
	if a != b {
		return fmt.Errorf("%w: %s (%d vs %d)", ErrLengthMismatch, what, a, b)
	}
	return nil
}

// Match reports whether h can be one of the two chromosomes behind g: every
// homozygous marker of g must carry h's allele.
func Match(h Haplotype, g Genotype) (bool, error) {
	if err := checkLen("haplotype/genotype", h.Len(), g.Len()); err != nil {
		return false, err
	}
	for i, s := range g.seq {
		if s != Hetero && s != State(h.seq[i]) {
			return false, nil
		}
	}
	return true, nil
}

// Complement returns the haplotype that pairs with h to produce g.
// Heterozygous markers take the flipped allele, homozygous markers the
// homozygous value.
func Complement(h Haplotype, g Genotype) (Haplotype, error) {
	if err := checkLen("haplotype/genotype", h.Len(), g.Len()); err != nil {
		return Haplotype{}, err
	}
	out := make([]Allele, len(g.seq))
	for i, s := range g.seq {
		if s == Hetero {
			out[i] = h.seq[i].Flip()
		} else {
			out[i] = Allele(s)
		}
	}
	return Haplotype{seq: out}, nil
}

// Combine pairs two haplotypes into the genotype they produce, tagged with tag.
func Combine(a, b Haplotype, tag int) (Genotype, error) {
	if err := checkLen("haplotype/haplotype", a.Len(), b.Len()); err != nil {
		return Genotype{}, err
	}
	out := make([]State, len(a.seq))
	for i := range a.seq {
		if a.seq[i] == b.seq[i] {
			out[i] = State(a.seq[i])
		} else {
			out[i] = Hetero
		}
	}
	return Genotype{seq: out, tag: tag}, nil
}
