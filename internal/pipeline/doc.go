// Package pipeline wires ingestion, reconciliation, artifact lookup and
// report synthesis into one run.
//
// A Run owns every piece of per-run state: the aggregation store and its
// journal, the artifact cache, and the synthesizer's once-per-run guard.
// Reset swaps all of them to a fresh run under a single lock, so a report
// never mixes records from two runs.
package pipeline
