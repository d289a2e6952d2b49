package reconcile

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rec(source, subject, scenario string, status ir.Status, durationMs int64) ir.TestExecutionRecord {
	return ir.TestExecutionRecord{
		SourceFile:      source,
		SubjectIdentity: subject,
		ScenarioName:    scenario,
		Status:          status,
		DurationMs:      durationMs,
		Timestamp:       time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	}
}

func entry(source, subject, scenario string) ir.ManifestEntry {
	return ir.ManifestEntry{SourceFile: source, SubjectIdentity: subject, ScenarioName: scenario}
}

func TestReconcile_Exact(t *testing.T) {
	records := []ir.TestExecutionRecord{
		rec("X", "u2", "s2", ir.StatusFailed, 20),
		rec("X", "u1", "s1", ir.StatusPassed, 10),
	}
	manifest := []ir.ManifestEntry{entry("X", "u1", "s1"), entry("X", "u2", "s2")}

	res := Reconcile(records, manifest, quietLogger())

	require.Len(t, res.Records, 2)
	// Manifest order, not record order.
	assert.Equal(t, "u1", res.Records[0].SubjectIdentity)
	assert.Equal(t, "u2", res.Records[1].SubjectIdentity)
	assert.True(t, res.Complete())
	assert.Equal(t, map[Tier]int{TierExact: 2}, res.TierCounts())
	assert.Empty(t, res.Unclaimed)
}

func TestReconcile_SubjectScenarioKeepsSource(t *testing.T) {
	records := []ir.TestExecutionRecord{rec("Y", "u1", "s1", ir.StatusPassed, 10)}
	res := Reconcile(records, []ir.ManifestEntry{entry("X", "u1", "s1")}, quietLogger())

	require.Len(t, res.Records, 1)
	assert.Equal(t, TierSubjectScenario, res.Matches[0].Tier)
	assert.Equal(t, "Y", res.Records[0].SourceFile)
	assert.Equal(t, "s1", res.Records[0].ScenarioName)
}

func TestReconcile_SubjectSourceRewritesScenario(t *testing.T) {
	records := []ir.TestExecutionRecord{rec("X", "u1", "renamed scenario", ir.StatusFailed, 30)}
	res := Reconcile(records, []ir.ManifestEntry{entry("X", "u1", "s1")}, quietLogger())

	require.Len(t, res.Records, 1)
	assert.Equal(t, TierSubjectSource, res.Matches[0].Tier)
	assert.Equal(t, "X", res.Records[0].SourceFile)
	assert.Equal(t, "s1", res.Records[0].ScenarioName)
	assert.Equal(t, ir.StatusFailed, res.Records[0].Status)
}

func TestReconcile_SubjectOnlyRewritesBoth(t *testing.T) {
	records := []ir.TestExecutionRecord{rec("Y", "u2", "different", ir.StatusFailed, 777)}
	res := Reconcile(records, []ir.ManifestEntry{entry("X", "u2", "s2")}, quietLogger())

	require.Len(t, res.Records, 1)
	got := res.Records[0]
	assert.Equal(t, TierSubject, res.Matches[0].Tier)
	assert.Equal(t, "X", got.SourceFile)
	assert.Equal(t, "s2", got.ScenarioName)
	assert.Equal(t, ir.StatusFailed, got.Status)
	assert.Equal(t, int64(777), got.DurationMs)
	assert.Equal(t, ir.NewIdentityKey("Y", "u2", "different"), res.Matches[0].Original)

	// Input untouched.
	assert.Equal(t, "Y", records[0].SourceFile)
	assert.Equal(t, "different", records[0].ScenarioName)
}

func TestReconcile_MissingNotFabricated(t *testing.T) {
	records := []ir.TestExecutionRecord{
		rec("X", "u1", "s1", ir.StatusPassed, 10),
		rec("X", "u3", "s3", ir.StatusSkipped, 0),
	}
	manifest := []ir.ManifestEntry{
		entry("X", "u1", "s1"),
		entry("X", "u2", "s2"),
		entry("X", "u3", "s3"),
	}

	res := Reconcile(records, manifest, quietLogger())

	assert.Equal(t, 3, res.Expected)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "u1", res.Records[0].SubjectIdentity)
	assert.Equal(t, "u3", res.Records[1].SubjectIdentity)
	assert.Equal(t, []ir.ManifestEntry{entry("X", "u2", "s2")}, res.Missing)
	assert.False(t, res.Complete())
}

func TestReconcile_EmptyStore(t *testing.T) {
	res := Reconcile(nil, []ir.ManifestEntry{entry("X", "u1", "s1")}, quietLogger())
	assert.Empty(t, res.Records)
	assert.Len(t, res.Missing, 1)
}

func TestReconcile_RecordClaimedOnce(t *testing.T) {
	records := []ir.TestExecutionRecord{rec("Z", "u1", "other", ir.StatusPassed, 5)}
	manifest := []ir.ManifestEntry{entry("X", "u1", "a"), entry("X", "u1", "b")}

	res := Reconcile(records, manifest, quietLogger())

	require.Len(t, res.Records, 1)
	assert.Equal(t, "a", res.Records[0].ScenarioName)
	assert.Equal(t, []ir.ManifestEntry{entry("X", "u1", "b")}, res.Missing)
}

func TestReconcile_LooseTierDoesNotStealExactMatch(t *testing.T) {
	records := []ir.TestExecutionRecord{rec("X", "u1", "s2", ir.StatusPassed, 5)}
	manifest := []ir.ManifestEntry{entry("X", "u1", "s1"), entry("X", "u1", "s2")}

	res := Reconcile(records, manifest, quietLogger())

	require.Len(t, res.Records, 1)
	assert.Equal(t, "s2", res.Records[0].ScenarioName)
	assert.Equal(t, TierExact, res.Matches[0].Tier)
	assert.Equal(t, []ir.ManifestEntry{entry("X", "u1", "s1")}, res.Missing)
}

func TestReconcile_EarliestRecordWinsWithinTier(t *testing.T) {
	records := []ir.TestExecutionRecord{
		rec("A", "u1", "first", ir.StatusPassed, 1),
		rec("B", "u1", "second", ir.StatusFailed, 2),
	}
	res := Reconcile(records, []ir.ManifestEntry{entry("X", "u1", "s1")}, quietLogger())

	require.Len(t, res.Records, 1)
	assert.Equal(t, int64(1), res.Records[0].DurationMs)
	require.Len(t, res.Unclaimed, 1)
	assert.Equal(t, "second", res.Unclaimed[0].ScenarioName)
}

func TestReconcile_CustomCascade(t *testing.T) {
	exactOnly := NewWithCascade(Cascade[:1], quietLogger())
	records := []ir.TestExecutionRecord{rec("Y", "u1", "s1", ir.StatusPassed, 1)}

	res := exactOnly.Reconcile(records, []ir.ManifestEntry{entry("X", "u1", "s1")})
	assert.Empty(t, res.Records)
	assert.Len(t, res.Missing, 1)
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "exact", TierExact.String())
	assert.Equal(t, "subject+scenario", TierSubjectScenario.String())
	assert.Equal(t, "subject+source", TierSubjectSource.String())
	assert.Equal(t, "subject", TierSubject.String())
	assert.Equal(t, "none", TierNone.String())
}
