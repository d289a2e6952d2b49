package report

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// DefaultRetention is the number of document pairs kept on disk.
const DefaultRetention = 5

// DefaultPrefix marks files owned by the synthesizer.
const DefaultPrefix = "test-report-"

var pairExtensions = []string{".html", ".json"}

// ListPairs returns the stamps of document pairs in dir, oldest first.
// A stamp is the file name between prefix and extension; a pair counts if
// either of its files exists.
func ListPairs(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		ext := filepath.Ext(name)
		if !isPairExtension(ext) {
			continue
		}
		seen[strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)] = true
	}

	stamps := make([]string, 0, len(seen))
	for s := range seen {
		stamps = append(stamps, s)
	}
	sort.Strings(stamps)
	return stamps, nil
}

// Prune deletes the oldest pairs so that at most keep remain. Stamps listed
// in protect are never removed but still count toward keep. It returns the
// stamps it removed.
func Prune(dir, prefix string, keep int, protect ...string) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	stamps, err := ListPairs(dir, prefix)
	if err != nil {
		return nil, err
	}

	excess := len(stamps) - keep
	var removed []string
	for _, stamp := range stamps {
		if excess <= 0 {
			break
		}
		if slices.Contains(protect, stamp) {
			continue
		}
		for _, ext := range pairExtensions {
			path := filepath.Join(dir, prefix+stamp+ext)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return removed, fmt.Errorf("prune %s: %w", path, err)
			}
		}
		removed = append(removed, stamp)
		excess--
	}
	return removed, nil
}

func isPairExtension(ext string) bool {
	for _, e := range pairExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
