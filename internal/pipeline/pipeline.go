// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"haplophase/internal/genotype"
	"haplophase/internal/logging"
	"haplophase/internal/phase"
	"haplophase/internal/runutil"
)

// Config controls windowing.
type Config struct {
	WindowSize int // markers per window; 0 disables windowing
	Threads    int // concurrent windows (>=1)
}

// Stitcher wraps a phaser and applies it window by window when the marker
// count exceeds Config.WindowSize. It satisfies phase.Phaser.
type Stitcher struct {
	cfg   Config
	inner phase.Phaser
	log   logrus.FieldLogger
}

// New returns a Stitcher around inner. A nil log discards output.
func New(inner phase.Phaser, cfg Config, log logrus.FieldLogger) *Stitcher {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Stitcher{cfg: cfg, inner: inner, log: logging.Component(log, "stitcher")}
}

// windowOut is what one window contributes: per genotype index, the
// haplotype that explains it there.
type windowOut struct {
	frag  []genotype.Haplotype
	have  []bool
	stats phase.Stats
}

// Phase delegates directly when m fits in one window. Otherwise it phases
// every window concurrently, waits for all of them, and regroups genotypes
// by their concatenated haplotype. It returns the first error encountered
// (including context cancellation).
func (s *Stitcher) Phase(ctx context.Context, m int, gts []genotype.Genotype) (*phase.Result, error) {
	wins := runutil.Windows(m, s.cfg.WindowSize)
	if len(wins) == 1 || len(gts) == 0 {
		return s.inner.Phase(ctx, m, gts)
	}
	for i, g := range gts {
		if g.Len() != m {
			return nil, fmt.Errorf("%w: genotype %d has %d markers, want %d", genotype.ErrLengthMismatch, i+1, g.Len(), m)
		}
	}

	log := s.log.WithFields(logrus.Fields{"markers": m, "genotypes": len(gts), "windows": len(wins)})
	log.Debug("phasing in windows")

	outs := make([]windowOut, len(wins))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.Threads)
	for wi, w := range wins {
		eg.Go(func() error {
			sub := make([]genotype.Genotype, len(gts))
			for j, g := range gts {
				sub[j] = g.Slice(w.Lo, w.Hi).WithTag(j)
			}
			r, err := s.inner.Phase(egCtx, w.Len(), sub)
			if err != nil {
				return fmt.Errorf("window %d [%d,%d): %w", wi+1, w.Lo, w.Hi, err)
			}
			out := windowOut{
				frag:  make([]genotype.Haplotype, len(gts)),
				have:  make([]bool, len(gts)),
				stats: r.Stats,
			}
			for _, pm := range r.Matches {
				for _, g := range pm.Genotypes() {
					j, ok := g.Tag()
					if !ok || j < 0 || j >= len(gts) {
						return fmt.Errorf("window %d: phaser returned a genotype without its window tag", wi+1)
					}
					out.frag[j], out.have[j] = pm.Haplotype(), true
				}
			}
			outs[wi] = out
			log.WithFields(logrus.Fields{"window": wi + 1, "size": r.Size()}).Debug("window phased")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &phase.Result{BestEffort: true}
	res.Stats.Windows = len(wins)
	for _, o := range outs {
		res.Stats.Add(o.stats)
	}

	byHap := make(map[string]*phase.Match)
	parts := make([]genotype.Haplotype, len(wins))
genotypes:
	for j, g := range gts {
		for wi := range outs {
			if !outs[wi].have[j] {
				res.Unresolved = append(res.Unresolved, g)
				continue genotypes
			}
			parts[wi] = outs[wi].frag[j]
		}
		h := genotype.Concat(parts...)
		key := h.String()
		pm, ok := byHap[key]
		if !ok {
			pm = phase.NewMatch(h)
			byHap[key] = pm
			res.Matches = append(res.Matches, pm)
		}
		if err := pm.Add(g); err != nil {
			return nil, err
		}
	}
	if len(res.Unresolved) > 0 {
		log.WithField("unresolved", len(res.Unresolved)).Warn("genotypes left unexplained in at least one window")
	}
	return res, nil
}
