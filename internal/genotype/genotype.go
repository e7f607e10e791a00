// internal/genotype/genotype.go
package genotype

import (
	"fmt"
	"strings"
)

// State is one marker of a diploid genotype.
type State uint8

const (
	HomoRef State = 0
	HomoAlt State = 1
	Hetero  State = 2
)

func (s State) valid() bool { return s <= Hetero }

// noTag marks a genotype that carries no identity.
const noTag = -1

// Genotype is an immutable sequence of marker states plus an optional identity
// tag. The tag survives slicing and fixing so callers can map derived values
// back to the genotype they were built from; it never takes part in equality.
type Genotype struct {
	seq []State
	tag int
}

// NewGenotype copies seq and validates every symbol.
func NewGenotype(seq []State) (Genotype, error) {
	out := make([]State, len(seq))
	for i, s := range seq {
		if !s.valid() {
			return Genotype{}, fmt.Errorf("%w: genotype symbol %d at %d", ErrInvalidSequence, s, i+1)
		}
		out[i] = s
	}
	return Genotype{seq: out, tag: noTag}, nil
}

// NewTaggedGenotype is NewGenotype followed by WithTag.
func NewTaggedGenotype(seq []State, tag int) (Genotype, error) {
	g, err := NewGenotype(seq)
	if err != nil {
		return Genotype{}, err
	}
	g.tag = tag
	return g, nil
}

// ParseGenotype reads a string of '0', '1' and '2' characters.
func ParseGenotype(s string) (Genotype, error) {
	seq := make([]State, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '2' {
			return Genotype{}, fmt.Errorf("%w: genotype char %q at %d; allowed: 0 1 2", ErrInvalidSequence, c, i+1)
		}
		seq[i] = State(c - '0')
	}
	return Genotype{seq: seq, tag: noTag}, nil
}

// MustParseGenotype panics on error. Intended for tests and fixed tables.
func MustParseGenotype(s string) Genotype {
	g, err := ParseGenotype(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Genotype) Len() int { return len(g.seq) }

// At returns the state at marker i.
func (g Genotype) At(i int) State { return g.seq[i] }

// States returns a copy of the underlying sequence.
func (g Genotype) States() []State { return append([]State(nil), g.seq...) }

// Tag returns the identity tag, if any.
func (g Genotype) Tag() (int, bool) { return g.tag, g.tag != noTag }

// WithTag returns a genotype sharing g's sequence with a new tag.
func (g Genotype) WithTag(tag int) Genotype {
	return Genotype{seq: g.seq, tag: tag}
}

// Slice returns markers [lo, hi) as a new genotype carrying g's tag.
func (g Genotype) Slice(lo, hi int) Genotype {
	return Genotype{seq: g.seq[lo:hi:hi], tag: g.tag}
}

// Fix returns a copy of g with marker pos set to s.
func (g Genotype) Fix(pos int, s State) Genotype {
	out := make([]State, len(g.seq))
	copy(out, g.seq)
	out[pos] = s
	return Genotype{seq: out, tag: g.tag}
}

// HeteroCount is the number of ambiguous markers.
func (g Genotype) HeteroCount() int {
	n := 0
	for _, s := range g.seq {
		if s == Hetero {
			n++
		}
	}
	return n
}

// Equal compares sequences only.
func (g Genotype) Equal(o Genotype) bool {
	if len(g.seq) != len(o.seq) {
		return false
	}
	for i := range g.seq {
		if g.seq[i] != o.seq[i] {
			return false
		}
	}
	return true
}

func (g Genotype) String() string {
	var b strings.Builder
	b.Grow(len(g.seq))
	for _, s := range g.seq {
		b.WriteByte('0' + byte(s))
	}
	return b.String()
}
