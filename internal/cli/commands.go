// internal/cli/commands.go
package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"haplophase/internal/config"
	"haplophase/internal/output"
	"haplophase/internal/sweep"
)

// Handlers run the commands once their flags are parsed and validated.
type Handlers struct {
	Phase    func(cmd *cobra.Command, g Global, o PhaseOptions) error
	Generate func(cmd *cobra.Command, g Global, o GenerateOptions) error
	Sweep    func(cmd *cobra.Command, g Global, o SweepOptions) error
}

// NewRootCommand builds the haplophase command tree. Flag and argument
// errors come back as *UsageError.
func NewRootCommand(version string, h Handlers) *cobra.Command {
	var g Global
	root := &cobra.Command{
		Use:   "haplophase",
		Short: "Infer a minimal haplotype set explaining unphased diploid genotypes",
		Long: "haplophase resolves a population of unphased genotypes (0 = homozygous reference,\n" +
			"1 = homozygous alternate, 2 = heterozygous per marker) into a small set of\n" +
			"haplotypes such that every genotype is one haplotype paired with its complement.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.ConfigPath, "config", "", "YAML run config (flags override it)")
	pf.StringVar(&g.LogLevel, "log-level", "warn", "log level: debug | info | warn | error")
	pf.StringVar(&g.LogFormat, "log-format", "text", "log format: text | json")

	root.AddCommand(newPhaseCmd(&g, h.Phase), newGenerateCmd(&g, h.Generate), newSweepCmd(&g, h.Sweep))
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s takes no arguments, got %q", cmd.CommandPath(), args)
	}
	return nil
}

func addEngineFlags(f *pflag.FlagSet, e *EngineFlags) {
	def := config.Default()
	f.StringVarP(&e.Algorithm, "algorithm", "a", def.Algorithm, "phasing algorithm: greedy | spock | both")
	f.IntVarP(&e.Window, "window", "w", def.Window, "markers per window (0 = no windowing)")
	f.IntVarP(&e.Threads, "threads", "t", def.Threads, "windows phased concurrently (0 = all CPUs)")
	f.IntVar(&e.MaxNodes, "max-nodes", def.Spock.MaxNodes, "spock node budget (0 = unlimited)")
	f.DurationVar(&e.Timeout, "timeout", def.Spock.Timeout, "spock time budget (0 = unlimited)")
	f.BoolVar(&e.NoIncumbent, "no-incumbent", !def.Spock.GreedyIncumbent, "do not seed spock's bound with a greedy cover")
	f.IntVar(&e.MaxMarkers, "max-markers", def.Greedy.MaxMarkers, "largest marker count greedy enumerates (≤ 32)")
	f.BoolVar(&e.DropUnresolved, "drop-unresolved", def.Greedy.DropUnresolved, "greedy: silently drop genotypes no candidate explains")
	f.StringVarP(&e.Output, "output", "o", def.Output.Format, "output format: "+strings.Join(output.Formats(), " | "))
	f.BoolVar(&e.Metrics, "metrics", false, "print search metrics to stderr when done")
}

func newPhaseCmd(g *Global, run func(*cobra.Command, Global, PhaseOptions) error) *cobra.Command {
	var o PhaseOptions
	cmd := &cobra.Command{
		Use:   "phase [FILE...]",
		Short: "Phase sample files or a generated sample",
		Example: "  haplophase phase sample.txt --algorithm spock --verbosity verbose\n" +
			"  haplophase phase 'runs/*.txt' --algorithm both -o json\n" +
			"  haplophase phase --generate 200,40 --population 12 --algorithm both",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(cmd.Flags().Changed, args); err != nil {
				return err
			}
			return run(cmd, *g, o)
		},
	}
	f := cmd.Flags()
	addEngineFlags(f, &o.EngineFlags)
	f.StringVarP(&o.Input, "input", "i", "", "sample file (\"N M\" header + N rows of M digits)")
	f.StringVarP(&o.Generate, "generate", "g", "", "generate a random N,M sample instead of reading one")
	f.IntVarP(&o.Population, "population", "p", 0, "draw generated genotypes from P unique haplotype pairs (0 = uniform)")
	f.Uint64Var(&o.Seed, "seed", 0, "random seed for --generate (0 = time based)")
	f.StringVar(&o.Verbosity, "verbosity", config.VerbosityDefault, "default | suppress | verbose")
	f.BoolVar(&o.Verify, "verify", false, "check that every haplotype explains its genotypes")
	f.StringVar(&o.Save, "save", "", "also write the generated sample to this file")
	return cmd
}

func newGenerateCmd(g *Global, run func(*cobra.Command, Global, GenerateOptions) error) *cobra.Command {
	var o GenerateOptions
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Write a random sample file",
		Example: "  haplophase generate -n 100 -m 20 --population 8 -o sample.txt",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return run(cmd, *g, o)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&o.N, "genotypes", "n", 10, "number of genotypes")
	f.IntVarP(&o.M, "markers", "m", 10, "markers per genotype")
	f.IntVarP(&o.Population, "population", "p", 0, "unique haplotype pairs to draw from (0 = uniform)")
	f.Uint64Var(&o.Seed, "seed", 0, "random seed (0 = time based)")
	f.StringVarP(&o.Out, "out", "o", "-", "output file ('-' = stdout)")
	return cmd
}

func newSweepCmd(g *Global, run func(*cobra.Command, Global, SweepOptions) error) *cobra.Command {
	var o SweepOptions
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Phase a series of generated samples and print one line per run",
		Example: "  haplophase sweep --mode size -n 50 -m 10 --algorithm both\n" +
			"  haplophase sweep --mode population -n 500 -m 30 --populations 1,5,25",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return run(cmd, *g, o)
		},
	}
	f := cmd.Flags()
	addEngineFlags(f, &o.EngineFlags)
	f.StringVar(&o.Mode, "mode", sweep.ModeFixed, "fixed | size | length | population | grid")
	f.IntVarP(&o.N, "genotypes", "n", 10, "number of genotypes (upper bound for size mode)")
	f.IntVarP(&o.M, "markers", "m", 10, "markers per genotype (upper bound for length mode)")
	f.IntVarP(&o.Population, "population", "p", 0, "unique haplotype pairs per sample (0 = uniform)")
	f.IntSliceVar(&o.Populations, "populations", nil, "population sizes for population mode")
	f.IntSliceVar(&o.Ns, "ns", nil, "genotype counts for grid mode")
	f.IntSliceVar(&o.Ms, "ms", nil, "marker counts for grid mode")
	f.Uint64Var(&o.Seed, "seed", 0, "random seed (0 = time based)")
	return cmd
}
