// internal/cli/options.go
package cli

import (
	"strconv"
	"strings"
	"time"

	"haplophase/internal/cliutil"
	"haplophase/internal/config"
)

// Global flags shared by every command.
type Global struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

// Apply copies explicitly set flags onto c.
func (g Global) Apply(c *config.Config, changed func(string) bool) {
	if changed("log-level") {
		c.Log.Level = g.LogLevel
	}
	if changed("log-format") {
		c.Log.Format = g.LogFormat
	}
}

// EngineFlags select and tune the phasing strategy.
type EngineFlags struct {
	Algorithm      string
	Window         int
	Threads        int
	MaxNodes       int
	Timeout        time.Duration
	NoIncumbent    bool
	MaxMarkers     int
	DropUnresolved bool
	Output         string
	Metrics        bool
}

// Apply copies explicitly set flags onto c. Unset flags keep the config
// file's (or the default) value.
func (e EngineFlags) Apply(c *config.Config, changed func(string) bool) {
	if changed("algorithm") {
		c.Algorithm = e.Algorithm
	}
	if changed("window") {
		c.Window = e.Window
	}
	if changed("threads") {
		c.Threads = e.Threads
	}
	if changed("max-nodes") {
		c.Spock.MaxNodes = e.MaxNodes
	}
	if changed("timeout") {
		c.Spock.Timeout = e.Timeout
	}
	if changed("no-incumbent") {
		c.Spock.GreedyIncumbent = !e.NoIncumbent
	}
	if changed("max-markers") {
		c.Greedy.MaxMarkers = e.MaxMarkers
	}
	if changed("drop-unresolved") {
		c.Greedy.DropUnresolved = e.DropUnresolved
	}
	if changed("output") {
		c.Output.Format = e.Output
	}
}

func (e EngineFlags) validate() error {
	if e.Window < 0 {
		return usagef("--window must be ≥ 0")
	}
	if e.Threads < 0 {
		return usagef("--threads must be ≥ 0")
	}
	if e.MaxNodes < 0 {
		return usagef("--max-nodes must be ≥ 0")
	}
	if e.Timeout < 0 {
		return usagef("--timeout must be ≥ 0")
	}
	return nil
}

// PhaseOptions holds the flags of the phase command.
type PhaseOptions struct {
	EngineFlags

	Input      string
	Inputs     []string // Input plus expanded positionals, in order
	Generate   string   // "N,M" as given
	N, M       int      // parsed from Generate
	Population int
	Seed       uint64
	Verbosity  string
	Verify     bool
	Save       string
}

// Apply copies explicitly set flags onto c.
func (o PhaseOptions) Apply(c *config.Config, changed func(string) bool) {
	o.EngineFlags.Apply(c, changed)
	if changed("verbosity") {
		c.Output.Verbosity = o.Verbosity
	}
}

// Validate checks flag combinations against the positional sample files
// and fills Inputs, N and M.
func (o *PhaseOptions) Validate(changed func(string) bool, args []string) error {
	if err := o.EngineFlags.validate(); err != nil {
		return err
	}
	files, err := cliutil.ExpandPositionals(args)
	if err != nil {
		return &UsageError{Err: err}
	}
	o.Inputs = nil
	if o.Input != "" {
		o.Inputs = append(o.Inputs, o.Input)
	}
	o.Inputs = append(o.Inputs, files...)

	switch {
	case len(o.Inputs) > 0 && o.Generate != "":
		return usagef("sample files conflict with --generate")
	case len(o.Inputs) == 0 && o.Generate == "":
		return usagef("provide sample FILEs (or --input FILE) or --generate N,M")
	}
	if o.Generate != "" {
		n, m, err := ParseDims(o.Generate)
		if err != nil {
			return err
		}
		o.N, o.M = n, m
	}
	if o.Population < 0 {
		return usagef("--population must be ≥ 0")
	}
	if o.Population > 0 && o.Generate == "" {
		return usagef("--population requires --generate")
	}
	if changed("seed") && o.Generate == "" {
		return usagef("--seed only applies to --generate")
	}
	if o.Save != "" && o.Generate == "" {
		return usagef("--save only applies to --generate")
	}
	return nil
}

// GenerateOptions holds the flags of the generate command.
type GenerateOptions struct {
	N, M       int
	Population int
	Seed       uint64
	Out        string
}

func (o GenerateOptions) Validate() error {
	if o.N < 1 || o.M < 1 {
		return usagef("-n and -m must be ≥ 1")
	}
	if o.Population < 0 {
		return usagef("--population must be ≥ 0")
	}
	return nil
}

// SweepOptions holds the flags of the sweep command.
type SweepOptions struct {
	EngineFlags

	Mode        string
	N, M        int
	Population  int
	Populations []int
	Ns, Ms      []int
	Seed        uint64
}

func (o SweepOptions) Validate() error {
	if err := o.EngineFlags.validate(); err != nil {
		return err
	}
	if o.Population < 0 {
		return usagef("--population must be ≥ 0")
	}
	return nil
}

// ParseDims reads "N,M" (or "NxM") into positive integers.
func ParseDims(s string) (n, m int, err error) {
	f := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == 'x' || r == 'X' })
	if len(f) != 2 {
		return 0, 0, usagef("bad dimensions %q (want N,M)", s)
	}
	n, errN := strconv.Atoi(strings.TrimSpace(f[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(f[1]))
	if errN != nil || errM != nil || n < 1 || m < 1 {
		return 0, 0, usagef("bad dimensions %q (N and M must be positive integers)", s)
	}
	return n, m, nil
}
