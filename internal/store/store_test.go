package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	require.NoError(t, s.verifyPragma("journal_mode", "wal"))
	require.NoError(t, s.verifyPragma("synchronous", "1"))
	require.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	require.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	s1, err := Open(path)
	require.NoError(t, err)
	inserted, err := s1.InsertRecord(context.Background(), "run-1", createTestRecord("X", "u1", "s1", "passed", 100))
	require.NoError(t, err)
	require.True(t, inserted)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.CountRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestRunID_EmptyBeforeReset(t *testing.T) {
	s := createTestStore(t)
	id, err := s.RunID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestReset_ClearsRecordsAndStampsRun(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.InsertRecord(ctx, "run-1", createTestRecord("X", "u1", "s1", "passed", 100))
	require.NoError(t, err)
	_, err = s.InsertRecord(ctx, "run-1", createTestRecord("X", "u2", "s2", "failed", 200))
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx, "run-2"))

	n, err := s.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	id, err := s.RunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", id)

	// Second reset overwrites the stamp rather than failing on the key.
	require.NoError(t, s.Reset(ctx, "run-3"))
	id, err = s.RunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-3", id)
}
