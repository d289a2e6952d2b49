package harness

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders the deterministic part of a result: the console summary
// followed by ingestion counters, reconciliation tiers and missing entries.
func Snapshot(r *Result) []byte {
	var b strings.Builder
	b.WriteString(r.Console)

	fmt.Fprintf(&b, "\nIngestion: accepted=%d duplicates=%d invalid=%d\n",
		r.Stats.Accepted, r.Stats.Duplicates, r.Stats.Invalid)

	tiers := make([]string, 0, len(r.Tiers))
	for name := range r.Tiers {
		tiers = append(tiers, name)
	}
	sort.Strings(tiers)
	b.WriteString("Tiers:")
	for _, name := range tiers {
		fmt.Fprintf(&b, " %s=%d", name, r.Tiers[name])
	}
	b.WriteString("\n")

	if len(r.Missing) > 0 {
		b.WriteString("Missing:\n")
		for _, m := range r.Missing {
			fmt.Fprintf(&b, "  %s\n", m)
		}
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(result))
	return result, nil
}
