package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestListPairs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "test-report-20261014-100000.000.html")
	touch(t, dir, "test-report-20261014-100000.000.json")
	touch(t, dir, "test-report-20261013-090000.000.json") // orphaned half still counts
	touch(t, dir, "test-report-20261015-080000.000.txt")
	touch(t, dir, "other-20261016-000000.000.html")

	stamps, err := ListPairs(dir, DefaultPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"20261013-090000.000", "20261014-100000.000"}, stamps)
}

func TestListPairs_MissingDir(t *testing.T) {
	stamps, err := ListPairs(filepath.Join(t.TempDir(), "nope"), DefaultPrefix)
	require.NoError(t, err)
	assert.Empty(t, stamps)
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	stamps := []string{"20261014-100000.000", "20261014-100001.000", "20261014-100002.000"}
	for _, s := range stamps {
		touch(t, dir, DefaultPrefix+s+".html")
		touch(t, dir, DefaultPrefix+s+".json")
	}
	touch(t, dir, "unrelated.html")

	removed, err := Prune(dir, DefaultPrefix, 1)
	require.NoError(t, err)
	assert.Equal(t, stamps[:2], removed)

	left, err := ListPairs(dir, DefaultPrefix)
	require.NoError(t, err)
	assert.Equal(t, stamps[2:], left)
	assert.FileExists(t, filepath.Join(dir, "unrelated.html"))
}

func TestPrune_UnderCap(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, DefaultPrefix+"20261014-100000.000.html")

	removed, err := Prune(dir, DefaultPrefix, 5)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestPrune_Protected(t *testing.T) {
	dir := t.TempDir()
	stamps := []string{"20261014-100000.000", "20261014-100001.000", "20261014-100002.000"}
	for _, s := range stamps {
		touch(t, dir, DefaultPrefix+s+".html")
		touch(t, dir, DefaultPrefix+s+".json")
	}

	removed, err := Prune(dir, DefaultPrefix, 2, stamps[0])
	require.NoError(t, err)
	assert.Equal(t, stamps[1:2], removed)

	left, err := ListPairs(dir, DefaultPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{stamps[0], stamps[2]}, left)
}
