package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haplophase/internal/genotype"
	"haplophase/internal/phase"
)

func haplotypes(res *phase.Result) []string {
	var out []string
	for _, pm := range res.Matches {
		out = append(out, pm.Haplotype().String())
	}
	return out
}

func TestGreedy_EmptyInputSignalsNoInput(t *testing.T) {
	res, err := NewGreedy(GreedyOptions{}, Deps{}).Phase(context.Background(), 3, nil)
	require.ErrorIs(t, err, phase.ErrNoInput)
	assert.Nil(t, res)
}

func TestGreedy_FirstMaximumWins(t *testing.T) {
	// 00, 01, 10 and 11 each explain two genotypes in round one.
	gts := parseAll(t, "02", "20", "12", "21")
	res, err := NewGreedy(GreedyOptions{}, Deps{}).Phase(context.Background(), 2, gts)
	require.NoError(t, err)
	requireCovers(t, gts, res)
	assert.Equal(t, []string{"00", "11"}, haplotypes(res))
	assert.Equal(t, 2, res.Stats.Rounds)
}

func TestGreedy_ConcreteScenario(t *testing.T) {
	gts := parseAll(t, "22", "00", "11")
	res, err := NewGreedy(GreedyOptions{}, Deps{}).Phase(context.Background(), 2, gts)
	require.NoError(t, err)
	requireCovers(t, gts, res)
	assert.Equal(t, []string{"00", "11"}, haplotypes(res))
	assert.Len(t, res.Matches[0].Genotypes(), 2)
}

func TestGreedy_ZeroMarkers(t *testing.T) {
	gts := parseAll(t, "", "")
	res, err := NewGreedy(GreedyOptions{}, Deps{}).Phase(context.Background(), 0, gts)
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, 2, res.Matches[0].Len())
}

func TestGreedy_CandidateSpaceLimit(t *testing.T) {
	gts := parseAll(t, "22222")
	_, err := NewGreedy(GreedyOptions{MaxMarkers: 4}, Deps{}).Phase(context.Background(), 5, gts)
	require.ErrorIs(t, err, ErrCandidateSpace)
}

func TestGreedy_PoolExhaustedReportsUnresolved(t *testing.T) {
	gts := parseAll(t, "00", "11", "02")
	g := NewGreedy(GreedyOptions{}, Deps{})

	// Only 00 is offered: 11 can never be explained.
	res, err := g.cover(context.Background(), 2, []uint64{0}, gts)
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, 2, res.Matches[0].Len())
	require.Len(t, res.Unresolved, 1)
	assert.Equal(t, "11", res.Unresolved[0].String())
}

func TestGreedy_DropUnresolvedCompat(t *testing.T) {
	gts := parseAll(t, "00", "11")
	g := NewGreedy(GreedyOptions{DropUnresolved: true}, Deps{})
	res, err := g.cover(context.Background(), 2, []uint64{0}, gts)
	require.NoError(t, err)
	assert.Empty(t, res.Unresolved)
	assert.Len(t, res.Matches, 1)
}

func TestGreedy_DoesNotReorderCallerSlice(t *testing.T) {
	gts := parseAll(t, "11", "00", "12", "02")
	before := make([]string, len(gts))
	for i, g := range gts {
		before[i] = g.String()
	}
	_, err := NewGreedy(GreedyOptions{}, Deps{}).Phase(context.Background(), 2, gts)
	require.NoError(t, err)
	for i, g := range gts {
		assert.Equal(t, before[i], g.String())
	}
}

func TestKeyOf_AgreesWithMatch(t *testing.T) {
	for _, s := range []string{"012", "222", "000", "121", "201"} {
		g := genotype.MustParseGenotype(s)
		k := keyOf(g)
		for c := uint64(0); c < 8; c++ {
			want, err := genotype.Match(genotype.FromBits(c, 3), g)
			require.NoError(t, err)
			assert.Equal(t, want, k.matches(c), "g=%s c=%03b", s, c)
		}
	}
}
