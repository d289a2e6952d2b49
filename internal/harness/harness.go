package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/manifest"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/pipeline"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/report"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/store"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/testutil"
)

// RunID is stamped on every harness run.
const RunID = "harness-run"

// ReportTime is the fixed generation time of harness reports.
var ReportTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// placeholderPNG is a 1x1 transparent PNG.
var placeholderPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// Run executes a scenario in a fresh workspace and returns the result.
//
// Execution flow:
// 1. Create a temporary artifacts and reports directory
// 2. Open an in-memory journal and start a run over the scenario manifest
// 3. Ingest every batch in order; invalid events are counted, not fatal
// 4. Generate the report and read back the structured dump
// 5. Check the scenario's expectations
func Run(scenario *Scenario) (*Result, error) {
	workdir, err := os.MkdirTemp("", "saucereport-harness-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer os.RemoveAll(workdir)

	artifactsDir := filepath.Join(workdir, "screenshots")
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifacts dir: %w", err)
	}
	for _, name := range scenario.Artifacts {
		if err := os.WriteFile(filepath.Join(artifactsDir, name), placeholderPNG, 0o644); err != nil {
			return nil, fmt.Errorf("failed to create artifact %s: %w", name, err)
		}
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	run, err := pipeline.New(ctx,
		manifest.Manifest{Name: scenario.Name, Entries: scenario.Manifest},
		pipeline.Settings{
			ArtifactsDir: artifactsDir,
			ReportsDir:   filepath.Join(workdir, "reports"),
		},
		pipeline.WithJournal(st),
		pipeline.WithRunIDs(testutil.NewFixedRunIDs(RunID)),
		pipeline.WithClock(testutil.NewStepClock(ReportTime, time.Second).Now),
		pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	for _, batch := range scenario.Batches {
		for i, ev := range batch.Events {
			if _, err := run.Ingest(ctx, ev); err != nil {
				var verr *ir.ValidationError
				if !errors.As(err, &verr) {
					return nil, fmt.Errorf("%s event %d: %w", batch.Worker, i, err)
				}
			}
		}
	}

	out, err := run.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	raw, err := os.ReadFile(out.JSONPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	var dump report.Dump
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, fmt.Errorf("failed to decode dump: %w", err)
	}

	result := NewResult()
	result.Console = out.Console
	result.Stats = run.Stats()
	result.Summary = out.Summary
	result.Records = out.Records
	result.Tiers = dump.Reconciliation.Tiers
	result.Missing = dump.Reconciliation.Missing
	result.Failures = out.ArtifactFailures

	checkExpectations(result, scenario.Expect)
	return result, nil
}

func checkExpectations(r *Result, e Expectation) {
	check := func(name string, want *int, got int) {
		if want != nil && *want != got {
			r.AddError("%s: expected %d, got %d", name, *want, got)
		}
	}
	check("accepted", e.Accepted, r.Stats.Accepted)
	check("duplicates", e.Duplicates, r.Stats.Duplicates)
	check("invalid", e.Invalid, r.Stats.Invalid)
	check("total", e.Total, r.Summary.Total)
	check("missing", e.Missing, r.Summary.Missing)
	check("failed", e.Failed, r.Summary.Failed)
}
