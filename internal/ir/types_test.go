package ir

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{"passed", StatusPassed, false},
		{"FAILED", StatusFailed, false},
		{" Skipped ", StatusSkipped, false},
		{"timedOut", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if tt.wantErr {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, "status", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func validRecord() TestExecutionRecord {
	return TestExecutionRecord{
		SubjectIdentity: "standard_user",
		ScenarioName:    "complete purchase",
		SourceFile:      "purchase-flow",
		Status:          StatusPassed,
		DurationMs:      1200,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TestExecutionRecord)
		field  string
	}{
		{"valid", func(*TestExecutionRecord) {}, ""},
		{"empty source is allowed", func(r *TestExecutionRecord) { r.SourceFile = "" }, ""},
		{"zero duration", func(r *TestExecutionRecord) { r.DurationMs = 0 }, ""},
		{"missing scenario", func(r *TestExecutionRecord) { r.ScenarioName = "" }, "scenario_name"},
		{"missing subject", func(r *TestExecutionRecord) { r.SubjectIdentity = "" }, "subject_identity"},
		{"bad status", func(r *TestExecutionRecord) { r.Status = "flaky" }, "status"},
		{"negative duration", func(r *TestExecutionRecord) { r.DurationMs = -1 }, "duration_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			err := Validate(rec)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateManifestEntry(t *testing.T) {
	assert.NoError(t, ValidateManifestEntry(ManifestEntry{SubjectIdentity: "u", SourceFile: "s", ScenarioName: "n"}))

	err := ValidateManifestEntry(ManifestEntry{SubjectIdentity: "u", ScenarioName: "n"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "source", verr.Field)
}

func TestClone_Independent(t *testing.T) {
	rec := validRecord()
	rec.ArtifactRefs = []string{"a.png"}
	rec.AdvisoryArtifacts = []string{"b.png"}

	c := rec.Clone()
	c.ArtifactRefs[0] = "changed.png"
	c.AdvisoryArtifacts[0] = "changed.png"
	c.ScenarioName = "other"

	assert.Equal(t, "a.png", rec.ArtifactRefs[0])
	assert.Equal(t, "b.png", rec.AdvisoryArtifacts[0])
	assert.Equal(t, "complete purchase", rec.ScenarioName)
}

func TestStatus_DecodeAnyCase(t *testing.T) {
	var fromYAML []TestExecutionRecord
	require.NoError(t, yaml.Unmarshal([]byte("- status: Passed\n- status: FAILED\n- status: ' skipped '\n- status: flaky\n"), &fromYAML))
	require.Len(t, fromYAML, 4)
	assert.Equal(t, StatusPassed, fromYAML[0].Status)
	assert.Equal(t, StatusFailed, fromYAML[1].Status)
	assert.Equal(t, StatusSkipped, fromYAML[2].Status)
	assert.Equal(t, Status("flaky"), fromYAML[3].Status)
	assert.False(t, fromYAML[3].Status.Valid())

	var fromJSON TestExecutionRecord
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Skipped"}`), &fromJSON))
	assert.Equal(t, StatusSkipped, fromJSON.Status)
}

func TestNormalizeIdentity(t *testing.T) {
	rec := validRecord()
	rec.SubjectIdentity = "cafe\u0301_user"
	rec.ScenarioName = "re\u0301sume\u0301"
	rec.NormalizeIdentity()

	assert.Equal(t, "caf\u00e9_user", rec.SubjectIdentity)
	assert.Equal(t, "r\u00e9sum\u00e9", rec.ScenarioName)

	entry := ManifestEntry{SubjectIdentity: "cafe\u0301_user", SourceFile: "purchase-flow", ScenarioName: "re\u0301sume\u0301"}.Normalized()
	assert.Equal(t, rec.SubjectIdentity, entry.SubjectIdentity)
	assert.Equal(t, rec.ScenarioName, entry.ScenarioName)
}
