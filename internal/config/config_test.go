package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haplophase/internal/engine"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "haplophase.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.True(t, Default().Spock.GreedyIncumbent)
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	for _, k := range []string{"ALGORITHM", "WINDOW", "THREADS", "MAX_NODES", "TIMEOUT", "LOG_LEVEL"} {
		t.Setenv("HAPLOPHASE_"+k, "")
	}
	c, err := Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("Load(\"\") differs from Default (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	p := writeFile(t, `
algorithm: greedy
window: 8
spock:
  max_nodes: 5000
  timeout: 2s
greedy:
  drop_unresolved: true
output:
  verbosity: verbose
`)
	c, err := Load(p)
	require.NoError(t, err)

	want := Default()
	want.Algorithm = engine.AlgorithmGreedy
	want.Window = 8
	want.Spock.MaxNodes = 5000
	want.Spock.Timeout = 2 * time.Second
	want.Greedy.DropUnresolved = true
	want.Output.Verbosity = VerbosityVerbose
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "algorithm: [not, a, string]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	_, err = Load(writeFile(t, "algorithm: annealing\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"HAPLOPHASE_ALGORITHM": "both",
		"HAPLOPHASE_WINDOW":    "6",
		"HAPLOPHASE_THREADS":   "3",
		"HAPLOPHASE_MAX_NODES": "10",
		"HAPLOPHASE_TIMEOUT":   "150ms",
		"HAPLOPHASE_LOG_LEVEL": "debug",
	}
	c := Default()
	applyEnv(&c, func(k string) string { return env[k] })
	assert.Equal(t, AlgorithmBoth, c.Algorithm)
	assert.Equal(t, 6, c.Window)
	assert.Equal(t, 3, c.Threads)
	assert.Equal(t, 10, c.Spock.MaxNodes)
	assert.Equal(t, 150*time.Millisecond, c.Spock.Timeout)
	assert.Equal(t, "debug", c.Log.Level)

	// Unparseable numbers are ignored.
	c = Default()
	applyEnv(&c, func(k string) string {
		if k == "HAPLOPHASE_WINDOW" {
			return "wide"
		}
		return ""
	})
	assert.Equal(t, Default().Window, c.Window)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"algorithm":   func(c *Config) { c.Algorithm = "" },
		"window":      func(c *Config) { c.Window = -1 },
		"threads":     func(c *Config) { c.Threads = -2 },
		"max_nodes":   func(c *Config) { c.Spock.MaxNodes = -1 },
		"timeout":     func(c *Config) { c.Spock.Timeout = -time.Second },
		"max_markers": func(c *Config) { c.Greedy.MaxMarkers = 40 },
		"format":      func(c *Config) { c.Output.Format = "xml" },
		"verbosity":   func(c *Config) { c.Output.Verbosity = "loud" },
		"log.format":  func(c *Config) { c.Log.Format = "logfmt" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestAlgorithms(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{engine.AlgorithmSpock}, c.Algorithms())
	c.Algorithm = AlgorithmBoth
	assert.Equal(t, []string{engine.AlgorithmGreedy, engine.AlgorithmSpock}, c.Algorithms())
}

func TestEngineAndPipeline(t *testing.T) {
	c := Default()
	c.Spock.MaxNodes = 7
	c.Greedy.MaxMarkers = 10
	c.Threads = 2

	ec := c.Engine()
	assert.Equal(t, 7, ec.Spock.MaxNodes)
	assert.False(t, ec.Spock.NoIncumbent)
	assert.Equal(t, 10, ec.Greedy.MaxMarkers)

	pc, warns := c.Pipeline(engine.AlgorithmGreedy, 30)
	assert.Equal(t, 10, pc.WindowSize)
	assert.Equal(t, 2, pc.Threads)
	assert.Len(t, warns, 1)

	pc, warns = c.Pipeline(engine.AlgorithmSpock, 12)
	assert.Equal(t, 0, pc.WindowSize)
	assert.Empty(t, warns)
}
