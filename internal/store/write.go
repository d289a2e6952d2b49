package store

import (
	"context"
	"fmt"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

// InsertRecord writes a record under the current run.
// Uses ON CONFLICT(identity_digest) DO NOTHING so that the first record for
// an identity key wins; inserted reports whether this call stored the row.
//
// The record must already be validated and carry its final SourceFile.
func (s *Store) InsertRecord(ctx context.Context, runID string, rec ir.TestExecutionRecord) (inserted bool, err error) {
	artifactsJSON, err := marshalArtifacts(rec.AdvisoryArtifacts)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}

	key := rec.IdentityKey()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO records
		(identity_digest, identity_key, run_id, subject, scenario, source, runtime_env,
		 status, duration_ms, timestamp, error_message, advisory_artifacts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity_digest) DO NOTHING
	`,
		key.Digest(),
		string(key),
		runID,
		rec.SubjectIdentity,
		rec.ScenarioName,
		rec.SourceFile,
		rec.RuntimeEnvironment,
		string(rec.Status),
		rec.DurationMs,
		formatTimestamp(rec.Timestamp),
		rec.ErrorMessage,
		artifactsJSON,
	)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert record: rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
