// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"haplophase/internal/config"
	"haplophase/internal/engine"
	"haplophase/internal/logging"
	"haplophase/internal/output"
	"haplophase/internal/phase"
	"haplophase/internal/pipeline"
)

// ErrVerify is returned when a run's result fails its consistency check.
var ErrVerify = errors.New("verification failed")

// Env is the state of one invocation: the merged config, its logger and a
// private metrics registry. Nothing here is process-global.
type Env struct {
	Config   config.Config
	Log      *logrus.Logger
	Registry *prometheus.Registry
	Metrics  *engine.Metrics
}

// NewEnv builds the logger and metrics for cfg; logs go to stderr.
func NewEnv(cfg config.Config, stderr io.Writer) (*Env, error) {
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	return &Env{Config: cfg, Log: log, Registry: reg, Metrics: engine.NewMetrics(reg)}, nil
}

// Phaser builds the strategy for algorithm, wrapped in a window stitcher
// planned for m markers.
func (e *Env) Phaser(algorithm string, m int) (phase.Phaser, error) {
	inner, err := engine.New(algorithm, e.Config.Engine(), engine.Deps{Log: e.Log, Metrics: e.Metrics})
	if err != nil {
		return nil, err
	}
	pc, warns := e.Config.Pipeline(algorithm, m)
	for _, w := range warns {
		e.Log.Warn(w)
	}
	return pipeline.New(inner, pc, e.Log), nil
}

// Stream runs drive and renders every run it emits on out. Verify checks
// each result before it is written. The writer is always drained and
// closed; a writer failure takes precedence over drive's error.
func Stream(
	parent context.Context,
	out io.Writer,
	opt output.Options,
	verify bool,
	log logrus.FieldLogger,
	drive func(ctx context.Context, emit func(output.Run) error) error,
) error {
	in, writeErr := output.StartRunWriter(out, opt, 4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	perr := drive(ctx, func(r output.Run) error {
		if verify {
			if err := r.Result.Validate(); err != nil {
				return fmt.Errorf("%w: run %s: %v", ErrVerify, r.ID, err)
			}
		}
		if n := len(r.Result.Unresolved); n > 0 {
			log.WithFields(logrus.Fields{"run_id": r.ID, "algorithm": r.Algorithm, "unresolved": n}).
				Warn("some genotypes are not explained by any haplotype")
		}
		select {
		case in <- r:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(in)
	if werr := <-writeErr; werr != nil {
		return fmt.Errorf("write output: %w", werr)
	}
	return perr
}
