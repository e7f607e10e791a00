package sweep

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haplophase/internal/engine"
	"haplophase/internal/output"
	"haplophase/internal/phase"
)

func TestPlan_Points(t *testing.T) {
	cases := []struct {
		name string
		plan Plan
		want []Point
	}{
		{"fixed", Plan{Mode: ModeFixed, N: 5, M: 3}, []Point{{5, 3, 0}}},
		{"size", Plan{Mode: ModeSize, N: 3, M: 4, P: 2}, []Point{{1, 4, 2}, {2, 4, 2}, {3, 4, 2}}},
		{"length", Plan{Mode: ModeLength, N: 6, M: 2}, []Point{{6, 1, 0}, {6, 2, 0}}},
		{"population", Plan{Mode: ModePopulation, N: 9, M: 5, Populations: []int{1, 4}}, []Point{{9, 5, 1}, {9, 5, 4}}},
		{"grid", Plan{Mode: ModeGrid, Ns: []int{1, 2}, Ms: []int{3}}, []Point{{1, 3, 0}, {2, 3, 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.plan.Points()
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("points mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlan_GridDefaults(t *testing.T) {
	pts, err := Plan{Mode: ModeGrid}.Points()
	require.NoError(t, err)
	assert.Len(t, pts, len(DefaultSizes)*len(DefaultSizes))
}

func TestPlan_Errors(t *testing.T) {
	for _, p := range []Plan{
		{Mode: ModeFixed, N: 0, M: 3},
		{Mode: ModeLength, N: 3, M: -1},
		{Mode: ModePopulation, N: 3, M: 3},
		{Mode: ModePopulation, N: 3, M: 3, Populations: []int{0}},
		{Mode: ModeGrid, Ns: []int{0}},
		{Mode: ModeFixed, N: 1, M: 1, P: -1},
		{Mode: "spiral", N: 1, M: 1},
	} {
		_, err := p.Points()
		assert.ErrorIs(t, err, ErrBadPlan, "%+v", p)
	}
}

func newRunner(algs ...string) *Runner {
	return &Runner{
		Algorithms: algs,
		Rand:       rand.New(rand.NewPCG(9, 9)),
		Phaser: func(alg string, _ int) (phase.Phaser, error) {
			return engine.New(alg, engine.Config{}, engine.Deps{})
		},
	}
}

func TestRunner_CompareSize(t *testing.T) {
	var runs []output.Run
	err := newRunner(engine.AlgorithmGreedy, engine.AlgorithmSpock).Run(context.Background(),
		Plan{Mode: ModeSize, N: 4, M: 5},
		func(r output.Run) error { runs = append(runs, r); return nil })
	require.NoError(t, err)
	require.Len(t, runs, 8)

	for i, r := range runs {
		assert.Equal(t, i/2+1, r.N)
		assert.Equal(t, 5, r.M)
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, "generated", r.Source)
		require.NoError(t, r.Result.Validate())
	}
	assert.Equal(t, engine.AlgorithmGreedy, runs[0].Algorithm)
	assert.Equal(t, engine.AlgorithmSpock, runs[1].Algorithm)
	for i := 0; i < len(runs); i += 2 {
		assert.LessOrEqual(t, runs[i+1].Result.Size(), runs[i].Result.Size())
	}
}

func TestRunner_PopulationBoundsSolution(t *testing.T) {
	var runs []output.Run
	err := newRunner(engine.AlgorithmSpock).Run(context.Background(),
		Plan{Mode: ModePopulation, N: 30, M: 6, Populations: []int{2}},
		func(r output.Run) error { runs = append(runs, r); return nil })
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.LessOrEqual(t, runs[0].Result.Size(), 4)
}

func TestRunner_StopsOnEmitError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := newRunner(engine.AlgorithmGreedy).Run(context.Background(),
		Plan{Mode: ModeLength, N: 3, M: 4},
		func(output.Run) error { calls++; return stop })
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newRunner(engine.AlgorithmGreedy).Run(ctx, Plan{Mode: ModeFixed, N: 2, M: 2}, func(output.Run) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_PhaserError(t *testing.T) {
	r := newRunner("annealing")
	err := r.Run(context.Background(), Plan{Mode: ModeFixed, N: 2, M: 2}, func(output.Run) error { return nil })
	require.ErrorIs(t, err, engine.ErrUnknownAlgorithm)
}
