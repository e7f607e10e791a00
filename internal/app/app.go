// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"haplophase/internal/appcore"
	"haplophase/internal/cli"
	"haplophase/internal/config"
	"haplophase/internal/output"
	"haplophase/internal/sample"
	"haplophase/internal/sweep"
	"haplophase/internal/version"
)

// inputError marks failures caused by what the user handed in (sample or
// config files), reported with the usage exit code.
type inputError struct{ err error }

func (e inputError) Error() string { return e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

type app struct {
	stdout, stderr io.Writer
	started        bool // a command handler was entered
}

// RunContext executes one command line and returns the process exit code:
// 0 ok, 2 usage or input error, 3 runtime or write error, 130 cancelled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := cli.NewRootCommand(version.Version, cli.Handlers{
		Phase:    a.phase,
		Generate: a.generate,
		Sweep:    a.sweep,
	})
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(parent)
	return a.exitCode(parent, err)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func (a *app) exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		return 130
	case output.IsBrokenPipe(err):
		return 0
	case cli.IsUsage(err) || !a.started:
		_, _ = fmt.Fprintf(a.stderr, "error: %v\nRun 'haplophase --help' for usage.\n", err)
		return 2
	case errors.As(err, new(inputError)):
		_, _ = fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 2
	default:
		_, _ = fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 3
	}
}

// env loads the config file, overlays explicitly set flags and builds the
// per-run logger and metrics.
func (a *app) env(cmd *cobra.Command, g cli.Global, apply func(*config.Config, func(string) bool)) (*appcore.Env, error) {
	a.started = true
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return nil, inputError{err}
	}
	g.Apply(&cfg, changed)
	if apply != nil {
		apply(&cfg, changed)
	}
	if err := cfg.Validate(); err != nil {
		return nil, &cli.UsageError{Err: err}
	}
	e, err := appcore.NewEnv(cfg, a.stderr)
	if err != nil {
		return nil, &cli.UsageError{Err: err}
	}
	return e, nil
}

// newRand seeds from the clock when seed is 0 and reports the seed used.
func newRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed
}

func (a *app) phase(cmd *cobra.Command, g cli.Global, o cli.PhaseOptions) error {
	e, err := a.env(cmd, g, o.Apply)
	if err != nil {
		return err
	}

	var (
		samples []*sample.Sample
		sources []string
		rng     *rand.Rand
	)
	if o.Generate != "" {
		var seed uint64
		rng, seed = newRand(o.Seed)
		e.Log.WithField("seed", seed).Info("generating sample")
		s := sample.Draw(rng, o.N, o.M, o.Population)
		if o.Save != "" {
			if err := sample.Save(o.Save, s); err != nil {
				return err
			}
		}
		samples, sources = append(samples, s), append(sources, "generated")
	} else {
		// Load everything up front so a bad file fails before any output.
		for _, fn := range o.Inputs {
			s, err := sample.Load(fn)
			if err != nil {
				return inputError{err}
			}
			samples, sources = append(samples, s), append(sources, fn)
		}
	}

	r := &sweep.Runner{Algorithms: e.Config.Algorithms(), Phaser: e.Phaser, Rand: rng, Log: e.Log}
	opt := output.Options{
		Format:  e.Config.Output.Format,
		Verbose: e.Config.Output.Verbosity == config.VerbosityVerbose,
		Silent:  e.Config.Output.Verbosity == config.VerbositySuppress,
	}
	err = appcore.Stream(cmd.Context(), a.stdout, opt, o.Verify, e.Log,
		func(ctx context.Context, emit func(output.Run) error) error {
			for i, s := range samples {
				if err := r.Sample(ctx, sources[i], s, emit); err != nil {
					return err
				}
			}
			return nil
		})
	return a.finish(e, o.Metrics, err)
}

func (a *app) generate(cmd *cobra.Command, g cli.Global, o cli.GenerateOptions) error {
	e, err := a.env(cmd, g, nil)
	if err != nil {
		return err
	}
	rng, seed := newRand(o.Seed)
	e.Log.WithField("seed", seed).Info("generating sample")

	s := sample.Draw(rng, o.N, o.M, o.Population)
	if o.Out == "" || o.Out == "-" {
		return sample.Write(a.stdout, s)
	}
	return sample.Save(o.Out, s)
}

func (a *app) sweep(cmd *cobra.Command, g cli.Global, o cli.SweepOptions) error {
	e, err := a.env(cmd, g, o.EngineFlags.Apply)
	if err != nil {
		return err
	}
	rng, seed := newRand(o.Seed)
	e.Log.WithField("seed", seed).Info("sweep seed")

	plan := sweep.Plan{
		Mode:        o.Mode,
		N:           o.N,
		M:           o.M,
		P:           o.Population,
		Populations: o.Populations,
		Ns:          o.Ns,
		Ms:          o.Ms,
	}
	if _, err := plan.Points(); err != nil {
		return &cli.UsageError{Err: err}
	}

	r := &sweep.Runner{Algorithms: e.Config.Algorithms(), Phaser: e.Phaser, Rand: rng, Log: e.Log}
	opt := output.Options{Format: e.Config.Output.Format}
	err = appcore.Stream(cmd.Context(), a.stdout, opt, false, e.Log,
		func(ctx context.Context, emit func(output.Run) error) error {
			return r.Run(ctx, plan, emit)
		})
	return a.finish(e, o.Metrics, err)
}

// finish dumps metrics when asked, even after a failed run.
func (a *app) finish(e *appcore.Env, metrics bool, err error) error {
	if metrics {
		if merr := output.WriteMetrics(a.stderr, e.Registry); merr != nil && err == nil {
			err = merr
		}
	}
	return err
}
