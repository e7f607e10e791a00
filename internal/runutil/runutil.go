// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"runtime"
)

// DefaultWindowSize is the largest marker count phased in one piece by
// default. The candidate space doubles per marker, so exhaustive search past
// this point is impractical.
const DefaultWindowSize = 15

// Window is the half-open marker range [Lo, Hi).
type Window struct {
	Lo, Hi int
}

func (w Window) Len() int { return w.Hi - w.Lo }

// Windows partitions m markers into consecutive windows of size markers; the
// last one may be shorter. size <= 0 or size >= m yields a single window.
func Windows(m, size int) []Window {
	if size <= 0 || size >= m {
		return []Window{{Lo: 0, Hi: m}}
	}
	out := make([]Window, 0, (m+size-1)/size)
	for lo := 0; lo < m; lo += size {
		hi := lo + size
		if hi > m {
			hi = m
		}
		out = append(out, Window{Lo: lo, Hi: hi})
	}
	return out
}

// ValidateWindowing decides the effective window size, returns (window, warnings).
// Rules:
//   - window <= 0 or window >= m → no windowing (0)
//   - the greedy strategy never gets a span above greedyMax markers; such a
//     span is cut to greedyMax, with a warning
func ValidateWindowing(algorithm string, m, window, greedyMax int) (int, []string) {
	if window <= 0 || window >= m {
		window = 0
	}
	span := window
	if span == 0 {
		span = m
	}
	if algorithm == "greedy" && greedyMax > 0 && span > greedyMax {
		return greedyMax, []string{fmt.Sprintf("greedy cannot enumerate %d markers; phasing in windows of %d", span, greedyMax)}
	}
	return window, nil
}

// EffectiveThreads maps 0 (or less) to all CPUs.
func EffectiveThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
