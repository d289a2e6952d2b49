package ir

import "fmt"

// ValidationError reports a malformed record. It is fatal to the single
// ingest call that produced it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the producer-supplied fields of a record.
// SourceFile may be empty; ingestion infers it.
func Validate(r TestExecutionRecord) error {
	if r.ScenarioName == "" {
		return &ValidationError{Field: "scenario_name", Message: "must not be empty"}
	}
	if r.SubjectIdentity == "" {
		return &ValidationError{Field: "subject_identity", Message: "must not be empty"}
	}
	if !r.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", r.Status)}
	}
	if r.DurationMs < 0 {
		return &ValidationError{Field: "duration_ms", Message: fmt.Sprintf("must be >= 0, got %d", r.DurationMs)}
	}
	return nil
}

// ValidateManifestEntry checks that every identity field is present.
func ValidateManifestEntry(e ManifestEntry) error {
	switch {
	case e.SubjectIdentity == "":
		return &ValidationError{Field: "subject", Message: "must not be empty"}
	case e.SourceFile == "":
		return &ValidationError{Field: "source", Message: "must not be empty"}
	case e.ScenarioName == "":
		return &ValidationError{Field: "scenario", Message: "must not be empty"}
	}
	return nil
}
