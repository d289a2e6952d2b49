// Package harness runs fixture scenarios through the full reporting pipeline.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	manifest:
//	  - {subject: standard_user, source: purchase-flow, scenario: complete purchase}
//	artifacts:
//	  - standard_user_01-cart.png
//	batches:
//	  - worker: worker-1
//	    events:
//	      - subject: standard_user
//	        source: purchase-flow
//	        scenario: complete purchase
//	        status: passed
//	        duration_ms: 4210
//	expect:
//	  accepted: 1
//	  total: 1
//	  missing: 0
//
// Batches are ingested in order, each one standing in for a worker's
// results. Artifacts are created as small placeholder files.
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory journal, a fixed run ID and
// a fixed report clock, so the console summary and the reconciliation
// snapshot are identical across runs. RunWithGolden compares that snapshot
// against testdata/golden/{name}.golden.
package harness
