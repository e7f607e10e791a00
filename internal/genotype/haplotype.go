// internal/genotype/haplotype.go
package genotype

import (
	"fmt"
	"strings"
)

// Allele is one marker of a single chromosome.
type Allele uint8

const (
	Ref Allele = 0
	Alt Allele = 1
)

// Flip returns the other allele.
func (a Allele) Flip() Allele { return a ^ 1 }

// Haplotype is an immutable binary allele sequence.
type Haplotype struct {
	seq []Allele
}

// NewHaplotype copies seq and validates every symbol.
func NewHaplotype(seq []Allele) (Haplotype, error) {
	out := make([]Allele, len(seq))
	for i, a := range seq {
		if a > Alt {
			return Haplotype{}, fmt.Errorf("%w: haplotype symbol %d at %d", ErrInvalidSequence, a, i+1)
		}
		out[i] = a
	}
	return Haplotype{seq: out}, nil
}

// ParseHaplotype reads a string of '0' and '1' characters.
func ParseHaplotype(s string) (Haplotype, error) {
	seq := make([]Allele, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '0' && c != '1' {
			return Haplotype{}, fmt.Errorf("%w: haplotype char %q at %d; allowed: 0 1", ErrInvalidSequence, c, i+1)
		}
		seq[i] = Allele(c - '0')
	}
	return Haplotype{seq: seq}, nil
}

// MustParseHaplotype panics on error. Intended for tests and fixed tables.
func MustParseHaplotype(s string) Haplotype {
	h, err := ParseHaplotype(s)
	if err != nil {
		panic(err)
	}
	return h
}

// FromBits builds the m-marker haplotype whose marker 0 is the most
// significant of the m low bits of v.
func FromBits(v uint64, m int) Haplotype {
	seq := make([]Allele, m)
	for j := 0; j < m; j++ {
		seq[j] = Allele((v >> uint(m-1-j)) & 1)
	}
	return Haplotype{seq: seq}
}

// FromHomozygous converts a genotype with no ambiguous markers into the
// haplotype both chromosomes carry.
func FromHomozygous(g Genotype) (Haplotype, error) {
	seq := make([]Allele, g.Len())
	for i, s := range g.seq {
		if s == Hetero {
			return Haplotype{}, fmt.Errorf("%w: genotype %s is heterozygous at %d", ErrInvalidSequence, g, i+1)
		}
		seq[i] = Allele(s)
	}
	return Haplotype{seq: seq}, nil
}

// Concat joins haplotypes in order.
func Concat(parts ...Haplotype) Haplotype {
	n := 0
	for _, p := range parts {
		n += len(p.seq)
	}
	seq := make([]Allele, 0, n)
	for _, p := range parts {
		seq = append(seq, p.seq...)
	}
	return Haplotype{seq: seq}
}

func (h Haplotype) Len() int { return len(h.seq) }

// At returns the allele at marker i.
func (h Haplotype) At(i int) Allele { return h.seq[i] }

// Alleles returns a copy of the underlying sequence.
func (h Haplotype) Alleles() []Allele { return append([]Allele(nil), h.seq...) }

// Equal compares sequences.
func (h Haplotype) Equal(o Haplotype) bool {
	if len(h.seq) != len(o.seq) {
		return false
	}
	for i := range h.seq {
		if h.seq[i] != o.seq[i] {
			return false
		}
	}
	return true
}

func (h Haplotype) String() string {
	var b strings.Builder
	b.Grow(len(h.seq))
	for _, a := range h.seq {
		b.WriteByte('0' + byte(a))
	}
	return b.String()
}
