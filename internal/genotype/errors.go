// internal/genotype/errors.go
package genotype

import "errors"

var (
	// ErrInvalidSequence reports a symbol outside the type's allowed domain.
	ErrInvalidSequence = errors.New("invalid sequence")
	// ErrLengthMismatch reports two sequences that must align position for
	// position but differ in length.
	ErrLengthMismatch = errors.New("length mismatch")
)
