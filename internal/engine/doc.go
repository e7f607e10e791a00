// Package engine contains the phasing strategies. It never imports app,
// output, cli, or pipeline; keep it domain-only.
//
// Greedy is an iterative maximum-cover heuristic over all 2^M candidate
// haplotypes. Spock is a branch-and-bound depth-first search that deduces
// determined haplotypes at every node and branches on the most informative
// ambiguous marker.
package engine
