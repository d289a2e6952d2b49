package report

import (
	"math"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

// Summary holds the aggregate counts shown at the top of every output.
type Summary struct {
	Total               int     `json:"total"`
	Passed              int     `json:"passed"`
	Failed              int     `json:"failed"`
	Skipped             int     `json:"skipped"`
	SuccessRate         float64 `json:"success_rate"`
	Expected            int     `json:"expected"`
	Missing             int     `json:"missing"`
	ArtifactsAvailable  int     `json:"artifacts_available"`
	ArtifactsReferenced int     `json:"artifacts_referenced"`
	TotalDurationMs     int64   `json:"total_duration_ms"`
}

// Summarize counts records by status. Records must already carry their
// correlated ArtifactRefs.
func Summarize(records []ir.TestExecutionRecord, expected, available int) Summary {
	s := Summary{
		Total:              len(records),
		Expected:           expected,
		ArtifactsAvailable: available,
	}
	if expected > len(records) {
		s.Missing = expected - len(records)
	}

	referenced := make(map[string]struct{})
	for _, r := range records {
		switch r.Status {
		case ir.StatusPassed:
			s.Passed++
		case ir.StatusFailed:
			s.Failed++
		case ir.StatusSkipped:
			s.Skipped++
		}
		s.TotalDurationMs += r.DurationMs
		for _, a := range r.ArtifactRefs {
			referenced[a] = struct{}{}
		}
	}
	s.ArtifactsReferenced = len(referenced)
	s.SuccessRate = SuccessRate(s.Passed, s.Total)
	return s
}

// SuccessRate returns passed/total as a percentage rounded to one decimal.
func SuccessRate(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(passed)*1000/float64(total)) / 10
}
