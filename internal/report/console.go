package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

var statusMarker = map[ir.Status]string{
	ir.StatusPassed:  "PASS",
	ir.StatusFailed:  "FAIL",
	ir.StatusSkipped: "SKIP",
}

// WriteConsole renders the condensed summary: records grouped by source,
// then by subject, followed by a single execution tally line and, when the
// record count differs from the manifest size, a mismatch note.
func WriteConsole(w io.Writer, records []ir.TestExecutionRecord, summary Summary) error {
	groups := make(map[string]map[string][]ir.TestExecutionRecord)
	for _, r := range records {
		bySubject, ok := groups[r.SourceFile]
		if !ok {
			bySubject = make(map[string][]ir.TestExecutionRecord)
			groups[r.SourceFile] = bySubject
		}
		bySubject[r.SubjectIdentity] = append(bySubject[r.SubjectIdentity], r)
	}

	var b strings.Builder
	b.WriteString("Test Execution Summary\n")
	b.WriteString("======================\n")

	for _, source := range sortedKeys(groups) {
		fmt.Fprintf(&b, "\n%s\n", source)
		bySubject := groups[source]
		for _, subject := range sortedKeys(bySubject) {
			fmt.Fprintf(&b, "  %s\n", subject)
			for _, r := range bySubject[subject] {
				fmt.Fprintf(&b, "    [%s] %s (%s)", statusMarker[r.Status], r.ScenarioName, FormatDuration(r.DurationMs))
				if n := len(r.ArtifactRefs); n > 0 {
					fmt.Fprintf(&b, " screenshots=%d", n)
				}
				b.WriteString("\n")
				if r.ErrorMessage != "" {
					fmt.Fprintf(&b, "      error: %s\n", firstLine(r.ErrorMessage))
				}
			}
		}
	}

	fmt.Fprintf(&b, "\nExecuted %d: %d passed, %d failed, %d skipped (%.1f%% success)\n",
		summary.Total, summary.Passed, summary.Failed, summary.Skipped, summary.SuccessRate)
	if summary.Total != summary.Expected {
		fmt.Fprintf(&b, "Note: %d of %d expected scenarios reported\n", summary.Total, summary.Expected)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatDuration renders milliseconds as seconds with two decimals.
func FormatDuration(ms int64) string {
	return fmt.Sprintf("%.2fs", float64(ms)/1000)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
