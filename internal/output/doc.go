// Package output turns phasing runs into serialized reports.
//
// Writers own all presentation knowledge (statistics lines, verbose match
// blocks, JSON lines). JSON goes through pkg/api (v1) for a stable wire
// format. Runs are streamed: a sweep emits one report per run as soon as it
// finishes.
package output
