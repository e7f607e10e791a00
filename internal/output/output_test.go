package output

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haplophase/internal/genotype"
	"haplophase/internal/phase"
	"haplophase/pkg/api"
)

// sampleRun is 0011 with 0022 and 0012 explained by haplotype 0011; the
// complements are 0011, 0000 and 0010, so three unique pairs.
func sampleRun(t *testing.T) Run {
	t.Helper()
	pm := phase.NewMatch(genotype.MustParseHaplotype("0011"))
	for i, s := range []string{"0011", "0022", "0012"} {
		require.NoError(t, pm.Add(genotype.MustParseGenotype(s).WithTag(i)))
	}
	res := &phase.Result{
		Matches:    []*phase.Match{pm},
		Unresolved: []genotype.Genotype{genotype.MustParseGenotype("1111").WithTag(3)},
		Stats:      phase.Stats{Nodes: 4, Pruned: 1, Solutions: 1},
	}
	return Run{ID: "run-1", Algorithm: "spock", Source: "generated", N: 4, M: 4, Result: res, Elapsed: 1500 * time.Millisecond}
}

func TestStatsLine(t *testing.T) {
	line, err := StatsLine(sampleRun(t))
	require.NoError(t, err)
	assert.Equal(t, "4x4\tSPOCK\t Solution Size: 1\t3\t Time: 1.500000", line)

	r := sampleRun(t)
	r.Result.BestEffort = true
	line, err = StatsLine(r)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(line, "\t best-effort"))
}

func TestWriteRuns_TextVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, Options{Format: FormatText, Verbose: true}, sampleRun(t)))
	want := strings.Join([]string{
		"0011", "\t0011", "\t0011",
		"0022", "\t0011", "\t0000",
		"0012", "\t0011", "\t0010",
		"1111", "\tunresolved",
		"4x4\tSPOCK\t Solution Size: 1\t3\t Time: 1.500000",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRuns_TextDefaultIsStatsOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, Options{Format: FormatText}, sampleRun(t), sampleRun(t)))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.NotContains(t, buf.String(), "unresolved")
}

func TestWriteRuns_Silent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, Options{Format: FormatJSON, Silent: true}, sampleRun(t)))
	assert.Empty(t, buf.String())
}

func TestWriteRuns_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, Options{Format: FormatJSON, Verbose: true}, sampleRun(t), sampleRun(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var got api.RunV1
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 1, got.SolutionSize)
	assert.Equal(t, 3, got.UniquePairs)
	assert.Equal(t, 4, got.Nodes)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "0011", got.Matches[0].Haplotype)
	assert.Equal(t, api.GenotypeV1{Index: 1, Genotype: "0022", Complement: "0000"}, got.Matches[0].Genotypes[1])
	require.Len(t, got.Unresolved, 1)
	assert.Equal(t, 3, got.Unresolved[0].Index)
}

func TestToAPIRun_NonVerboseOmitsMatches(t *testing.T) {
	v, err := ToAPIRun(sampleRun(t), false)
	require.NoError(t, err)
	assert.Empty(t, v.Matches)
	assert.Empty(t, v.Unresolved)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "matches")
	assert.NotContains(t, string(raw), "windows")
}

func TestStartRunWriter_UnknownFormat(t *testing.T) {
	in, done := StartRunWriter(io.Discard, Options{Format: "xml"}, 1)
	in <- sampleRun(t)
	in <- sampleRun(t) // drained, never blocks
	close(in)
	err := <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.Wrap(syscall.EPIPE, "write stdout") }

func TestStartRunWriter_BrokenPipeIsQuiet(t *testing.T) {
	require.NoError(t, WriteRuns(brokenWriter{}, Options{Format: FormatText}, sampleRun(t)))
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, IsBrokenPipe(syscall.EPIPE))
	assert.True(t, IsBrokenPipe(errors.Wrap(io.ErrClosedPipe, "x")))
	assert.False(t, IsBrokenPipe(io.EOF))
	assert.False(t, IsBrokenPipe(nil))
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{FormatJSON, FormatText}, Formats())
}

func TestWriteMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "haplophase_test_total", Help: "Test counter."}).Add(2)

	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, reg))
	assert.Contains(t, buf.String(), "# TYPE haplophase_test_total counter")
	assert.Contains(t, buf.String(), "haplophase_test_total 2")
}

func TestNewRunID_Unique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
