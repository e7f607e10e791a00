// Package pipeline phases long marker sequences in independent windows and
// stitches the per-window haplotypes back together.
//
// The only contract it needs is phase.Phaser. This keeps the windowing
// swappable and testable with fakes.
//
// Stitching is a heuristic: each window is optimised without information from
// its neighbours, so the stitched solution is neither guaranteed minimal nor
// guaranteed to agree with a full-length search. Results of more than one
// window are flagged BestEffort.
package pipeline
