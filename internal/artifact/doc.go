// Package artifact discovers screenshot files, restores their capture order,
// and associates them with the test execution they belong to.
//
// The artifact directory is the only source of truth: the scanner lists it
// fresh for every report, and the correlator derives ownership from file
// names rather than trusting what producers claimed. Encoded payloads are
// cached in a bounded Cache for the duration of one synthesis pass.
package artifact
