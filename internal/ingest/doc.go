// Package ingest accepts one completion record per finished test and keeps
// at most one record per identity key.
//
// The Aggregator is an explicit object owned by the caller: construct one per
// run, pass it to the stages that need it, and Reset it between runs. All
// methods are safe for concurrent use; the check-then-insert of Ingest happens
// under a single lock so two near-simultaneous records with the same identity
// key can never both be accepted.
//
// When a Journal is attached, acceptance is also recorded durably. The
// journal applies the same first-write-wins rule across processes, so a record
// accepted by another worker process is reported here as a duplicate.
package ingest
