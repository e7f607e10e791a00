// internal/sweep/runner.go
package sweep

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"haplophase/internal/logging"
	"haplophase/internal/output"
	"haplophase/internal/phase"
	"haplophase/internal/sample"
)

// PhaserFunc builds the phaser for one algorithm and marker count.
type PhaserFunc func(algorithm string, m int) (phase.Phaser, error)

// Runner phases samples with one or more algorithms and reports each run.
type Runner struct {
	Algorithms []string
	Phaser     PhaserFunc
	Rand       *rand.Rand
	Log        logrus.FieldLogger
}

func (r *Runner) log() logrus.FieldLogger {
	if r.Log == nil {
		return logging.Discard()
	}
	return logging.Component(r.Log, "sweep")
}

// Sample phases s with every configured algorithm, in order, and passes each
// finished run to emit. The first phasing or emit error stops the loop.
func (r *Runner) Sample(ctx context.Context, source string, s *sample.Sample, emit func(output.Run) error) error {
	for _, alg := range r.Algorithms {
		p, err := r.Phaser(alg, s.M)
		if err != nil {
			return err
		}
		start := time.Now()
		res, err := p.Phase(ctx, s.M, s.Genotypes)
		if err != nil {
			return fmt.Errorf("%s %s: %w", alg, s.Dims(), err)
		}
		run := output.Run{
			ID:        output.NewRunID(),
			Algorithm: alg,
			Source:    source,
			N:         s.N(),
			M:         s.M,
			Result:    res,
			Elapsed:   time.Since(start),
		}
		r.log().WithFields(logrus.Fields{
			"run_id":    run.ID,
			"algorithm": alg,
			"dims":      s.Dims(),
			"size":      res.Size(),
		}).Debug("run finished")
		if err := emit(run); err != nil {
			return err
		}
	}
	return nil
}

// Generate draws the sample for pt.
func (r *Runner) Generate(pt Point) *sample.Sample {
	return sample.Draw(r.Rand, pt.N, pt.M, pt.P)
}

// Run generates and phases every point of plan in order.
func (r *Runner) Run(ctx context.Context, plan Plan, emit func(output.Run) error) error {
	pts, err := plan.Points()
	if err != nil {
		return err
	}
	r.log().WithFields(logrus.Fields{"mode": plan.Mode, "points": len(pts), "algorithms": r.Algorithms}).Info("sweep start")
	for _, pt := range pts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Sample(ctx, "generated", r.Generate(pt), emit); err != nil {
			return err
		}
	}
	return nil
}
