// internal/engine/deduce.go
package engine

import "haplophase/internal/genotype"

const noFix int8 = -1

// overlay is the chain of (marker, state) fixes made along one search path.
// Every genotype still ambiguous at a branched marker takes the fixed state
// there, so a single chain per node replaces per-genotype copies. Nodes
// share their ancestors' links.
type overlay struct {
	pos    int
	val    genotype.State
	parent *overlay
}

// resolve writes the chain into dst, which must hold one slot per marker.
func (o *overlay) resolve(dst []int8) {
	for i := range dst {
		dst[i] = noFix
	}
	for ; o != nil; o = o.parent {
		dst[o.pos] = int8(o.val)
	}
}

// assignment is a persistent list linking input genotypes to haplotypes.
type assignment struct {
	gen    int // index into the caller's genotypes
	hap    int // index into deduction.haps
	parent *assignment
}

// deduction is one node of the search.
type deduction struct {
	haps    []genotype.Haplotype // shared with the parent; never appended in place
	members *assignment
	fixes   *overlay

	unresolved []int // indices into the caller's genotypes

	branch int // marker to branch on, -1 when unresolved is empty
	guess  genotype.State
}

func (d *deduction) count() int { return len(d.haps) }

func (d *deduction) complete() bool { return len(d.unresolved) == 0 }

// deducer owns the scratch buffers of one search. Not safe for concurrent use.
type deducer struct {
	in   []genotype.Genotype
	m    int
	fix  []int8
	freq []int
	imb  []int
}

func newDeducer(in []genotype.Genotype, m int) *deducer {
	return &deducer{
		in:   in,
		m:    m,
		fix:  make([]int8, m),
		freq: make([]int, m),
		imb:  make([]int, m),
	}
}

// state is genotype gi at marker j after the current fixes.
func (dd *deducer) state(gi, j int) genotype.State {
	s := dd.in[gi].At(j)
	if s == genotype.Hetero && dd.fix[j] != noFix {
		return genotype.State(dd.fix[j])
	}
	return s
}

// tally adds (sign=1) or removes (sign=-1) genotype gi's contribution to the
// heterozygous frequency and homozygous imbalance of every marker.
func (dd *deducer) tally(gi, sign int) (hetero int) {
	for j := 0; j < dd.m; j++ {
		switch dd.state(gi, j) {
		case genotype.Hetero:
			dd.freq[j] += sign
			hetero++
		case genotype.HomoRef:
			dd.imb[j] += sign
		case genotype.HomoAlt:
			dd.imb[j] -= sign
		}
	}
	return hetero
}

// explains reports whether h agrees with every determined marker of gi.
func (dd *deducer) explains(h genotype.Haplotype, gi int) bool {
	for j := 0; j < dd.m; j++ {
		s := dd.state(gi, j)
		if s != genotype.Hetero && s != genotype.State(h.At(j)) {
			return false
		}
	}
	return true
}

func (dd *deducer) haplotypeOf(gi int) genotype.Haplotype {
	seq := make([]genotype.Allele, dd.m)
	for j := range seq {
		seq[j] = genotype.Allele(dd.state(gi, j))
	}
	h, _ := genotype.NewHaplotype(seq)
	return h
}

// deduce resolves what the working set already determines under fixes,
// starting from prior's haplotypes. It returns nil when the node needs more
// than bound haplotypes.
func (dd *deducer) deduce(prior *deduction, fixes *overlay, working []int, bound int) *deduction {
	fixes.resolve(dd.fix)
	for j := 0; j < dd.m; j++ {
		dd.freq[j], dd.imb[j] = 0, 0
	}

	d := &deduction{
		haps:    prior.haps,
		members: prior.members,
		fixes:   fixes,
		branch:  -1,
	}
	owned := false
	var resolved []int

	for _, gi := range working {
		hetero := dd.tally(gi, 1)

		// Earliest known haplotype wins, prior ones first.
		found := -1
		for k, h := range d.haps {
			if dd.explains(h, gi) {
				found = k
				break
			}
		}
		switch {
		case found >= 0:
			d.members = &assignment{gen: gi, hap: found, parent: d.members}
			resolved = append(resolved, gi)

		case hetero == 0:
			if !owned {
				d.haps = append(make([]genotype.Haplotype, 0, len(d.haps)+1), d.haps...)
				owned = true
			}
			d.haps = append(d.haps, dd.haplotypeOf(gi))
			d.members = &assignment{gen: gi, hap: len(d.haps) - 1, parent: d.members}
			resolved = append(resolved, gi)
			if len(d.haps) > bound {
				return nil
			}

		default:
			d.unresolved = append(d.unresolved, gi)
		}
	}

	// Resolved genotypes no longer bias the branch choice.
	for _, gi := range resolved {
		dd.tally(gi, -1)
	}

	if len(d.unresolved) > 0 {
		d.branch, d.guess = dd.pickBranch()
	}
	return d
}

// pickBranch prefers the marker with the strongest homozygous imbalance among
// markers still ambiguous somewhere, guessing its majority state. Without any
// imbalance it takes the most frequently ambiguous marker and guesses HomoRef.
func (dd *deducer) pickBranch() (int, genotype.State) {
	pos, strongest := -1, 0
	for j := 0; j < dd.m; j++ {
		if dd.freq[j] == 0 {
			continue
		}
		if a := abs(dd.imb[j]); a > strongest {
			pos, strongest = j, a
		}
	}
	if pos >= 0 {
		if dd.imb[pos] > 0 {
			return pos, genotype.HomoRef
		}
		return pos, genotype.HomoAlt
	}

	most := 0
	for j := 0; j < dd.m; j++ {
		if dd.freq[j] > most {
			pos, most = j, dd.freq[j]
		}
	}
	return pos, genotype.HomoRef
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
