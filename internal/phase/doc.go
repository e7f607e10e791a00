// Package phase holds the output contract shared by every phasing strategy:
// a Match groups one explaining haplotype with the genotypes it explains, and
// a Result collects the matches of one Phase call.
//
// Strategies live in internal/engine; windowing lives in internal/pipeline.
// This package never imports either.
package phase
