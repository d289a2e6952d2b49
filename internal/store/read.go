package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

const recordColumns = `subject, scenario, source, runtime_env, status, duration_ms, timestamp, error_message, advisory_artifacts`

// ReadRecords returns every journaled record in acceptance order.
//
// Returns an empty slice (not nil) if the journal is empty.
func (s *Store) ReadRecords(ctx context.Context) ([]ir.TestExecutionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []ir.TestExecutionRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// ReadRecord retrieves the record stored under key.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRecord(ctx context.Context, key ir.IdentityKey) (ir.TestExecutionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE identity_digest = ?
	`, key.Digest())
	return scanRecord(row)
}

// CountRecords returns the number of journaled records.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (ir.TestExecutionRecord, error) {
	var rec ir.TestExecutionRecord
	var status, ts, artifactsJSON string

	if err := row.Scan(
		&rec.SubjectIdentity, &rec.ScenarioName, &rec.SourceFile, &rec.RuntimeEnvironment,
		&status, &rec.DurationMs, &ts, &rec.ErrorMessage, &artifactsJSON,
	); err != nil {
		if err == sql.ErrNoRows {
			return ir.TestExecutionRecord{}, err
		}
		return ir.TestExecutionRecord{}, fmt.Errorf("scan record: %w", err)
	}

	rec.Status = ir.Status(status)

	t, err := parseTimestamp(ts)
	if err != nil {
		return ir.TestExecutionRecord{}, err
	}
	rec.Timestamp = t

	artifacts, err := unmarshalArtifacts(artifactsJSON)
	if err != nil {
		return ir.TestExecutionRecord{}, err
	}
	rec.AdvisoryArtifacts = artifacts

	return rec, nil
}
