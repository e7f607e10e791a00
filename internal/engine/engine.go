// internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"haplophase/internal/genotype"
	"haplophase/internal/logging"
	"haplophase/internal/phase"
)

// Algorithm names accepted by New.
const (
	AlgorithmGreedy = "greedy"
	AlgorithmSpock  = "spock"
)

// ErrUnknownAlgorithm is returned by New for names other than the constants.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Config holds the options of every strategy; New picks the relevant part.
type Config struct {
	Greedy GreedyOptions
	Spock  SpockOptions
}

// Deps are the ambient collaborators shared by strategies. Zero values are
// valid: a nil Log discards output and nil Metrics records nothing.
type Deps struct {
	Log     logrus.FieldLogger
	Metrics *Metrics
}

func (d Deps) logger(component string) logrus.FieldLogger {
	if d.Log == nil {
		return logging.Discard()
	}
	return logging.Component(d.Log, component)
}

// New returns the strategy registered under name.
func New(name string, c Config, d Deps) (phase.Phaser, error) {
	switch name {
	case AlgorithmGreedy:
		return NewGreedy(c.Greedy, d), nil
	case AlgorithmSpock:
		return NewSpock(c.Spock, c.Greedy, d), nil
	default:
		return nil, fmt.Errorf("%w %q (want %s | %s)", ErrUnknownAlgorithm, name, AlgorithmGreedy, AlgorithmSpock)
	}
}

// checkLengths aborts a phase call on the first genotype whose length is not m.
func checkLengths(m int, gts []genotype.Genotype) error {
	for i, g := range gts {
		if g.Len() != m {
			return fmt.Errorf("%w: genotype %d has %d markers, want %d", genotype.ErrLengthMismatch, i+1, g.Len(), m)
		}
	}
	return nil
}

// timed wraps a strategy body with metrics bookkeeping.
func timed(mx *Metrics, alg string, fn func() (*phase.Result, error)) (*phase.Result, error) {
	start := time.Now()
	res, err := fn()
	mx.observe(alg, res, err, time.Since(start))
	return res, err
}
