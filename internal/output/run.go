// internal/output/run.go
package output

import (
	"time"

	"github.com/google/uuid"

	"haplophase/internal/phase"
)

// Run is one finished phasing call plus what is needed to report it.
type Run struct {
	ID        string
	Algorithm string
	Source    string // sample path, or "generated"
	N, M      int
	Result    *phase.Result
	Elapsed   time.Duration
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }
