package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with minimal required fields.
func createTestRecord(source, subject, scenario string, status ir.Status, durationMs int64) ir.TestExecutionRecord {
	return ir.TestExecutionRecord{
		SourceFile:         source,
		SubjectIdentity:    subject,
		ScenarioName:       scenario,
		RuntimeEnvironment: "chromium",
		Status:             status,
		DurationMs:         durationMs,
		Timestamp:          time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
	}
}
