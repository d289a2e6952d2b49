// Package ir defines the record model shared by every stage of the report
// pipeline: test execution records, canonical manifest entries, and the
// identity key that deduplicates them.
//
// Identity keys are computed from NFC-normalized canonical JSON so that the
// same (source, subject, scenario) triple always produces the same key no
// matter which worker or retry delivered it.
package ir
