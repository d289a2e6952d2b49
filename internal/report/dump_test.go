package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ingest"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

func TestMarshalDump(t *testing.T) {
	rec := ir.TestExecutionRecord{
		SourceFile: "purchase-flow", SubjectIdentity: "standard_user", ScenarioName: "buy",
		RuntimeEnvironment: "chromium", Status: ir.StatusFailed, DurationMs: 42,
		Timestamp:    time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
		ErrorMessage: "<boom>",
		ArtifactRefs: []string{"a.png", "b.png"},
	}

	raw, err := MarshalDump(Dump{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC),
		Summary:     Summarize([]ir.TestExecutionRecord{rec}, 2, 3),
		Ingestion:   ingest.Stats{Accepted: 1, Duplicates: 2},
		Reconciliation: ReconciliationDump{
			Tiers:   map[string]int{"exact": 1},
			Missing: []ir.ManifestEntry{{SubjectIdentity: "u2", SourceFile: "X", ScenarioName: "s2"}},
		},
		Records: []DumpRecord{newDumpRecord(rec)},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	records := decoded["records"].([]any)
	require.Len(t, records, 1)
	first := records[0].(map[string]any)
	assert.Equal(t, float64(2), first["artifact_count"])
	assert.Equal(t, "<boom>", first["error_message"])
	assert.NotContains(t, string(raw), "a.png", "dump carries counts, not artifact content")

	ingestion := decoded["ingestion"].(map[string]any)
	assert.Equal(t, float64(2), ingestion["duplicates"])
}

func TestMarshalDump_EmptyIsValid(t *testing.T) {
	raw, err := MarshalDump(Dump{RunID: "run-1"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"records": []`)
}

func TestValidateDump_RejectsBadStatus(t *testing.T) {
	raw := []byte(`{
		"run_id": "r", "generated_at": "2026-10-14T10:00:00Z",
		"summary": {"total": 1, "passed": 0, "failed": 0, "skipped": 0, "success_rate": 0,
		            "expected": 1, "missing": 0, "artifacts_available": 0, "artifacts_referenced": 0},
		"ingestion": {"accepted": 1, "duplicates": 0, "invalid": 0},
		"reconciliation": {"tiers": {}, "missing": []},
		"records": [{"subject": "u", "scenario": "s", "source": "x", "status": "flaky",
		             "duration_ms": 1, "timestamp": "t", "artifact_count": 0}]
	}`)
	assert.Error(t, ValidateDump(raw))
}

func TestValidateDump_RejectsMissingSummary(t *testing.T) {
	assert.Error(t, ValidateDump([]byte(`{"run_id": "r"}`)))
}
