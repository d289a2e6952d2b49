package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

func TestInsertRecord_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	rec := createTestRecord("purchase-flow", "standard_user", "complete purchase", ir.StatusFailed, 4321)
	rec.ErrorMessage = "expected <Thank you> banner"
	rec.AdvisoryArtifacts = []string{"standard_user_01-cart.png", "standard_user_02-done.png"}

	inserted, err := s.InsertRecord(ctx, "run-1", rec)
	require.NoError(t, err)
	require.True(t, inserted)

	got, err := s.ReadRecord(ctx, rec.IdentityKey())
	require.NoError(t, err)

	assert.Equal(t, rec.SubjectIdentity, got.SubjectIdentity)
	assert.Equal(t, rec.ScenarioName, got.ScenarioName)
	assert.Equal(t, rec.SourceFile, got.SourceFile)
	assert.Equal(t, rec.RuntimeEnvironment, got.RuntimeEnvironment)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.DurationMs, got.DurationMs)
	assert.True(t, rec.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, rec.ErrorMessage, got.ErrorMessage)
	assert.Equal(t, rec.AdvisoryArtifacts, got.AdvisoryArtifacts)
}

func TestInsertRecord_FirstWriteWins(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	first := createTestRecord("X", "u1", "s1", ir.StatusPassed, 100)
	second := createTestRecord("X", "u1", "s1", ir.StatusFailed, 999)

	inserted, err := s.InsertRecord(ctx, "run-1", first)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.InsertRecord(ctx, "run-1", second)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := s.ReadRecord(ctx, first.IdentityKey())
	require.NoError(t, err)
	assert.Equal(t, ir.StatusPassed, got.Status)
	assert.Equal(t, int64(100), got.DurationMs)

	n, err := s.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertRecord_CheckConstraints(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.InsertRecord(ctx, "run-1", createTestRecord("X", "u1", "s1", "flaky", 1))
	assert.Error(t, err)

	_, err = s.InsertRecord(ctx, "run-1", createTestRecord("X", "u1", "s2", ir.StatusPassed, -5))
	assert.Error(t, err)
}

func TestInsertRecord_ConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	const workers = 16
	var wg sync.WaitGroup
	results := make([]bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inserted, err := s.InsertRecord(ctx, "run-1", createTestRecord("X", "u1", "s1", ir.StatusPassed, int64(i)))
			assert.NoError(t, err)
			results[i] = inserted
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, ok := range results {
		if ok {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestReadRecord_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRecord(context.Background(), ir.NewIdentityKey("nope", "nope", "nope"))
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
