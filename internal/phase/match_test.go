package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haplophase/internal/genotype"
)

func TestMatch_AddRejectsLengthMismatch(t *testing.T) {
	m := NewMatch(genotype.MustParseHaplotype("01"))
	require.NoError(t, m.Add(genotype.MustParseGenotype("02")))
	err := m.Add(genotype.MustParseGenotype("012"))
	require.ErrorIs(t, err, genotype.ErrLengthMismatch)
	assert.Equal(t, 1, m.Len())
}

func TestUniquePairCount_DistinctComplements(t *testing.T) {
	m := NewMatch(genotype.MustParseHaplotype("00"))
	require.NoError(t, m.Add(genotype.MustParseGenotype("00")))
	require.NoError(t, m.Add(genotype.MustParseGenotype("11")))

	n, err := m.UniquePairCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUniquePairCount_ClustersIdentical(t *testing.T) {
	m := NewMatch(genotype.MustParseHaplotype("010"))
	for _, s := range []string{"212", "212", "010", "212", "012"} {
		require.NoError(t, m.Add(genotype.MustParseGenotype(s)))
	}
	// complements: 111, 111, 010, 111, 011
	n, err := m.UniquePairCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUniquePairCount_Empty(t *testing.T) {
	n, err := NewMatch(genotype.MustParseHaplotype("1")).UniquePairCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResult_ValidateCatchesForeignGenotype(t *testing.T) {
	m := NewMatch(genotype.MustParseHaplotype("00"))
	require.NoError(t, m.Add(genotype.MustParseGenotype("12")))
	r := &Result{Matches: []*Match{m}}
	assert.Error(t, r.Validate())
}

func TestResult_NilSafe(t *testing.T) {
	var r *Result
	assert.Zero(t, r.Size())
	n, err := r.UniquePairs()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, r.Validate())
}
