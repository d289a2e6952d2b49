package harness

import (
	"fmt"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ingest"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/report"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is false when any expectation failed.
	Pass   bool
	Errors []string

	Console  string
	Stats    ingest.Stats
	Summary  report.Summary
	Records  []ir.TestExecutionRecord
	Tiers    map[string]int
	Missing  []ir.ManifestEntry
	Failures int
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{Pass: true}
}

// AddError records a failed expectation.
func (r *Result) AddError(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
