package ir

import (
	"fmt"
	"strings"
	"time"
)

// Status is the terminal outcome of one test execution.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Statuses lists the valid statuses in report order.
var Statuses = []Status{StatusPassed, StatusFailed, StatusSkipped}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// ParseStatus converts producer text into a Status.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", raw)}
	}
	return s, nil
}

// UnmarshalText accepts any casing of a known status. Unknown text is kept
// as-is so Validate rejects the one record instead of the whole document.
func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		*s = Status(b)
		return nil
	}
	*s = parsed
	return nil
}

// TestExecutionRecord is one completed test instance as delivered by the
// test-execution harness.
type TestExecutionRecord struct {
	SubjectIdentity    string    `json:"subject_identity" yaml:"subject"`
	ScenarioName       string    `json:"scenario_name" yaml:"scenario"`
	SourceFile         string    `json:"source_file" yaml:"source"`
	RuntimeEnvironment string    `json:"runtime_environment" yaml:"browser"`
	Status             Status    `json:"status" yaml:"status"`
	DurationMs         int64     `json:"duration_ms" yaml:"duration_ms"`
	Timestamp          time.Time `json:"timestamp" yaml:"timestamp"`
	ErrorMessage       string    `json:"error_message,omitempty" yaml:"error,omitempty"`

	// AdvisoryArtifacts are filenames the producer believes belong to this
	// execution. They feed origin inference only.
	AdvisoryArtifacts []string `json:"advisory_artifacts,omitempty" yaml:"artifacts,omitempty"`

	// ArtifactRefs is filled by the correlator, never by the producer.
	ArtifactRefs []string `json:"artifact_refs,omitempty" yaml:"-"`
}

// IdentityKey returns the deduplication key for the record.
func (r TestExecutionRecord) IdentityKey() IdentityKey {
	return NewIdentityKey(r.SourceFile, r.SubjectIdentity, r.ScenarioName)
}

// Clone returns a deep copy so that callers can rewrite fields without
// touching the stored original.
func (r TestExecutionRecord) Clone() TestExecutionRecord {
	c := r
	if r.AdvisoryArtifacts != nil {
		c.AdvisoryArtifacts = append([]string(nil), r.AdvisoryArtifacts...)
	}
	if r.ArtifactRefs != nil {
		c.ArtifactRefs = append([]string(nil), r.ArtifactRefs...)
	}
	return c
}

// NormalizeIdentity NFC-normalizes the fields that form the identity key.
func (r *TestExecutionRecord) NormalizeIdentity() {
	r.SubjectIdentity = NormalizeField(r.SubjectIdentity)
	r.ScenarioName = NormalizeField(r.ScenarioName)
	r.SourceFile = NormalizeField(r.SourceFile)
}

// ManifestEntry describes one scenario a complete report must account for.
type ManifestEntry struct {
	SubjectIdentity string `json:"subject" yaml:"subject"`
	SourceFile      string `json:"source" yaml:"source"`
	ScenarioName    string `json:"scenario" yaml:"scenario"`
}

// IdentityKey returns the key a record must carry to match this entry exactly.
func (e ManifestEntry) IdentityKey() IdentityKey {
	return NewIdentityKey(e.SourceFile, e.SubjectIdentity, e.ScenarioName)
}

// Normalized returns the entry with every identity field in NFC form.
func (e ManifestEntry) Normalized() ManifestEntry {
	return ManifestEntry{
		SubjectIdentity: NormalizeField(e.SubjectIdentity),
		SourceFile:      NormalizeField(e.SourceFile),
		ScenarioName:    NormalizeField(e.ScenarioName),
	}
}

func (e ManifestEntry) String() string {
	return fmt.Sprintf("%s/%s/%s", e.SourceFile, e.SubjectIdentity, e.ScenarioName)
}
