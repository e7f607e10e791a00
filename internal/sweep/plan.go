// internal/sweep/plan.go
package sweep

import (
	"errors"
	"fmt"
)

// Sweep modes.
const (
	ModeFixed      = "fixed"      // one N x M sample
	ModeSize       = "size"       // N grows 1..N at fixed M
	ModeLength     = "length"     // M grows 1..M at fixed N
	ModePopulation = "population" // one sample per population size
	ModeGrid       = "grid"       // every (N, M) of two lists
)

// DefaultSizes is the N (and M) list used by grid sweeps when none is given.
var DefaultSizes = []int{1, 10, 25, 50, 100, 200, 500, 750, 1000, 1500, 2000}

// ErrBadPlan reports an unusable sweep description.
var ErrBadPlan = errors.New("bad sweep plan")

// Plan describes a batch of generated samples.
type Plan struct {
	Mode string
	N, M int

	// P > 0 draws samples from P distinct haplotype pairs instead of
	// uniformly random genotypes. Population mode uses Populations instead.
	P int

	Populations []int
	Ns, Ms      []int
}

// Point is the shape of one generated sample.
type Point struct {
	N, M, P int
}

// Points expands p into sample shapes, in run order.
func (p Plan) Points() ([]Point, error) {
	pos := func(name string, v int) error {
		if v < 1 {
			return fmt.Errorf("%w: %s must be >= 1, got %d", ErrBadPlan, name, v)
		}
		return nil
	}
	if p.P < 0 {
		return nil, fmt.Errorf("%w: population must be >= 0", ErrBadPlan)
	}

	var out []Point
	switch p.Mode {
	case ModeFixed, "":
		if err := errors.Join(pos("n", p.N), pos("m", p.M)); err != nil {
			return nil, err
		}
		out = append(out, Point{N: p.N, M: p.M, P: p.P})
	case ModeSize:
		if err := errors.Join(pos("n", p.N), pos("m", p.M)); err != nil {
			return nil, err
		}
		for n := 1; n <= p.N; n++ {
			out = append(out, Point{N: n, M: p.M, P: p.P})
		}
	case ModeLength:
		if err := errors.Join(pos("n", p.N), pos("m", p.M)); err != nil {
			return nil, err
		}
		for m := 1; m <= p.M; m++ {
			out = append(out, Point{N: p.N, M: m, P: p.P})
		}
	case ModePopulation:
		if err := errors.Join(pos("n", p.N), pos("m", p.M)); err != nil {
			return nil, err
		}
		if len(p.Populations) == 0 {
			return nil, fmt.Errorf("%w: population mode needs at least one population size", ErrBadPlan)
		}
		for _, pp := range p.Populations {
			if err := pos("population", pp); err != nil {
				return nil, err
			}
			out = append(out, Point{N: p.N, M: p.M, P: pp})
		}
	case ModeGrid:
		ns, ms := p.Ns, p.Ms
		if len(ns) == 0 {
			ns = DefaultSizes
		}
		if len(ms) == 0 {
			ms = DefaultSizes
		}
		for _, n := range ns {
			for _, m := range ms {
				if err := errors.Join(pos("n", n), pos("m", m)); err != nil {
					return nil, err
				}
				out = append(out, Point{N: n, M: m, P: p.P})
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown mode %q (want fixed | size | length | population | grid)", ErrBadPlan, p.Mode)
	}
	return out, nil
}
