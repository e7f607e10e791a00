// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"haplophase/internal/engine"
	"haplophase/internal/pipeline"
	"haplophase/internal/runutil"
)

// AlgorithmBoth runs greedy and spock on the same sample, one after the other.
const AlgorithmBoth = "both"

// Output verbosity levels.
const (
	VerbosityDefault  = "default"  // run statistics only
	VerbositySuppress = "suppress" // nothing on stdout
	VerbosityVerbose  = "verbose"  // phase matches, then statistics
)

// Config is a complete run configuration. Fields left out of a YAML file keep
// their Default values; explicitly set CLI flags override both.
type Config struct {
	Algorithm string `yaml:"algorithm"`
	Window    int    `yaml:"window"`
	Threads   int    `yaml:"threads"`

	Spock  SpockConfig  `yaml:"spock"`
	Greedy GreedyConfig `yaml:"greedy"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// SpockConfig bounds the branch-and-bound search.
type SpockConfig struct {
	MaxNodes        int           `yaml:"max_nodes"`
	Timeout         time.Duration `yaml:"timeout"`
	GreedyIncumbent bool          `yaml:"greedy_incumbent"`
}

// GreedyConfig tunes the max-cover strategy.
type GreedyConfig struct {
	MaxMarkers     int  `yaml:"max_markers"`
	DropUnresolved bool `yaml:"drop_unresolved"`
}

type OutputConfig struct {
	Format    string `yaml:"format"`
	Verbosity string `yaml:"verbosity"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Algorithm: engine.AlgorithmSpock,
		Window:    runutil.DefaultWindowSize,
		Spock: SpockConfig{
			GreedyIncumbent: true,
		},
		Greedy: GreedyConfig{
			MaxMarkers: engine.DefaultGreedyMaxMarkers,
		},
		Output: OutputConfig{
			Format:    "text",
			Verbosity: VerbosityDefault,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load starts from Default, overlays the YAML file at path (if non-empty)
// and then HAPLOPHASE_* environment variables, and validates the result.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, errors.Wrapf(err, "parse config %s", path)
		}
	}
	applyEnv(&c, os.Getenv)
	if err := c.Validate(); err != nil {
		return c, errors.Wrap(err, "invalid config")
	}
	return c, nil
}

func applyEnv(c *Config, getenv func(string) string) {
	if v := getenv("HAPLOPHASE_ALGORITHM"); v != "" {
		c.Algorithm = v
	}
	if v := getenv("HAPLOPHASE_WINDOW"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			c.Window = i
		}
	}
	if v := getenv("HAPLOPHASE_THREADS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			c.Threads = i
		}
	}
	if v := getenv("HAPLOPHASE_MAX_NODES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			c.Spock.MaxNodes = i
		}
	}
	if v := getenv("HAPLOPHASE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Spock.Timeout = d
		}
	}
	if v := getenv("HAPLOPHASE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks value domains; it does not look at any sample.
func (c Config) Validate() error {
	switch c.Algorithm {
	case engine.AlgorithmGreedy, engine.AlgorithmSpock, AlgorithmBoth:
	default:
		return errors.Errorf("algorithm must be greedy, spock or both, got %q", c.Algorithm)
	}
	if c.Window < 0 {
		return errors.New("window must be >= 0")
	}
	if c.Threads < 0 {
		return errors.New("threads must be >= 0")
	}
	if c.Spock.MaxNodes < 0 {
		return errors.New("spock.max_nodes must be >= 0")
	}
	if c.Spock.Timeout < 0 {
		return errors.New("spock.timeout must be >= 0")
	}
	if c.Greedy.MaxMarkers < 0 || c.Greedy.MaxMarkers > 32 {
		return errors.New("greedy.max_markers must be between 0 and 32")
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return errors.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	switch c.Output.Verbosity {
	case VerbosityDefault, VerbositySuppress, VerbosityVerbose:
	default:
		return errors.Errorf("output.verbosity must be default, suppress or verbose, got %q", c.Output.Verbosity)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Algorithms expands the configured algorithm into the strategies to run.
func (c Config) Algorithms() []string {
	if c.Algorithm == AlgorithmBoth {
		return []string{engine.AlgorithmGreedy, engine.AlgorithmSpock}
	}
	return []string{c.Algorithm}
}

// Engine maps the strategy settings onto engine options.
func (c Config) Engine() engine.Config {
	return engine.Config{
		Greedy: engine.GreedyOptions{
			MaxMarkers:     c.Greedy.MaxMarkers,
			DropUnresolved: c.Greedy.DropUnresolved,
		},
		Spock: engine.SpockOptions{
			MaxNodes:    c.Spock.MaxNodes,
			Timeout:     c.Spock.Timeout,
			NoIncumbent: !c.Spock.GreedyIncumbent,
		},
	}
}

// Pipeline plans windowing for an m-marker sample phased by algorithm. The
// returned warnings are meant for the user.
func (c Config) Pipeline(algorithm string, m int) (pipeline.Config, []string) {
	maxMarkers := c.Greedy.MaxMarkers
	if maxMarkers == 0 {
		maxMarkers = engine.DefaultGreedyMaxMarkers
	}
	window, warns := runutil.ValidateWindowing(algorithm, m, c.Window, maxMarkers)
	return pipeline.Config{
		WindowSize: window,
		Threads:    runutil.EffectiveThreads(c.Threads),
	}, warns
}
