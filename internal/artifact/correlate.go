package artifact

import (
	"strings"

	"golang.org/x/text/cases"
)

// Correlate returns the artifacts whose file name contains subject as a
// case-insensitive substring, in capture order.
//
// An empty result is normal and not an error.
func Correlate(subject string, available []string) []string {
	if subject == "" {
		return []string{}
	}

	fold := cases.Fold()
	needle := fold.String(subject)

	matched := []string{}
	for _, name := range available {
		if strings.Contains(fold.String(name), needle) {
			matched = append(matched, name)
		}
	}
	SortBySequence(matched)
	return matched
}

// Names extracts file names from artifacts.
func Names(artifacts []Artifact) []string {
	names := make([]string, len(artifacts))
	for i, a := range artifacts {
		names[i] = a.Name
	}
	return names
}
