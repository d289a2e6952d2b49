package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/artifact"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ingest"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/reconcile"
)

// stampLayout sorts lexically in generation order.
const stampLayout = "20060102-150405.000"

// WriteError reports that a document could not be written. It is fatal to
// the Synthesize call.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Options configures a Synthesizer.
type Options struct {
	// Dir receives the document pairs.
	Dir string
	// Prefix names every generated file; defaults to DefaultPrefix.
	Prefix string
	// Retention is the number of pairs kept after a write; defaults to
	// DefaultRetention.
	Retention int
	// Now supplies the generation time; defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Input is one reconciled dataset ready for rendering.
type Input struct {
	RunID        string
	ManifestName string
	Reconciled   reconcile.Result
	// Available is the fresh artifact listing for this pass.
	Available []artifact.Artifact
	Ingestion ingest.Stats
}

// Output describes what a synthesis pass produced.
type Output struct {
	HTMLPath string
	JSONPath string
	Console  string
	Summary  Summary
	Records  []ir.TestExecutionRecord
	// ArtifactFailures counts artifacts rendered as placeholders.
	ArtifactFailures int
	// Pruned lists stamps of pairs removed by retention.
	Pruned []string
}

// Synthesizer renders reports and enforces retention.
type Synthesizer struct {
	opts   Options
	loader ArtifactLoader
	logger *slog.Logger

	mu   sync.Mutex
	last *Output
}

// NewSynthesizer returns a synthesizer writing to opts.Dir and loading
// artifact payloads through loader.
func NewSynthesizer(opts Options, loader ArtifactLoader) *Synthesizer {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{opts: opts, loader: loader, logger: logger}
}

// Synthesize correlates artifacts, renders all three outputs, and writes the
// document pair. A second call before Reset returns the first Output
// without rendering or writing anything.
func (s *Synthesizer) Synthesize(ctx context.Context, in Input) (Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil {
		s.logger.Debug("report already generated this run", "html", s.last.HTMLPath)
		return *s.last, nil
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	names := artifact.Names(in.Available)
	records := make([]ir.TestExecutionRecord, len(in.Reconciled.Records))
	for i, r := range in.Reconciled.Records {
		rec := r.Clone()
		rec.ArtifactRefs = artifact.Correlate(rec.SubjectIdentity, names)
		records[i] = rec
	}

	summary := Summarize(records, in.Reconciled.Expected, len(in.Available))
	now := s.opts.Now()

	var console bytes.Buffer
	if err := WriteConsole(&console, records, summary); err != nil {
		return Output{}, fmt.Errorf("render console: %w", err)
	}

	out := Output{Console: console.String(), Summary: summary, Records: records}

	var html bytes.Buffer
	err := writeHTML(&html, htmlInput{
		RunID:       in.RunID,
		GeneratedAt: now,
		Summary:     summary,
		Missing:     in.Reconciled.Missing,
		Records:     records,
	}, s.loader, func(p artifact.Payload) {
		out.ArtifactFailures++
		s.logger.Warn("artifact unavailable", "artifact", p.Name, "error", p.Err)
	})
	if err != nil {
		return Output{}, err
	}

	dump, err := MarshalDump(Dump{
		RunID:       in.RunID,
		GeneratedAt: now.UTC(),
		Manifest:    in.ManifestName,
		Summary:     summary,
		Ingestion:   in.Ingestion,
		Reconciliation: ReconciliationDump{
			Tiers:   tierNames(in.Reconciled),
			Missing: in.Reconciled.Missing,
		},
		Records: dumpRecords(records),
	})
	if err != nil {
		return Output{}, err
	}

	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return Output{}, &WriteError{Path: s.opts.Dir, Err: err}
	}

	stamp := now.UTC().Format(stampLayout)
	out.HTMLPath = filepath.Join(s.opts.Dir, s.opts.Prefix+stamp+".html")
	out.JSONPath = filepath.Join(s.opts.Dir, s.opts.Prefix+stamp+".json")

	if err := os.WriteFile(out.HTMLPath, html.Bytes(), 0o644); err != nil {
		return Output{}, &WriteError{Path: out.HTMLPath, Err: err}
	}
	if err := os.WriteFile(out.JSONPath, dump, 0o644); err != nil {
		// A pair is written whole or not at all.
		if rmErr := os.Remove(out.HTMLPath); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("remove partial report", "path", out.HTMLPath, "error", rmErr)
		}
		return Output{}, &WriteError{Path: out.JSONPath, Err: err}
	}

	// Old pairs go only once the new one is on disk.
	pruned, err := Prune(s.opts.Dir, s.opts.Prefix, s.opts.Retention, stamp)
	if err != nil {
		s.logger.Warn("prune old reports", "dir", s.opts.Dir, "error", err)
	}
	if len(pruned) > 0 {
		s.logger.Info("pruned old reports", "count", len(pruned), "oldest", pruned[0])
	}
	out.Pruned = pruned

	s.logger.Info("report written",
		"html", out.HTMLPath,
		"json", out.JSONPath,
		"records", summary.Total,
		"expected", summary.Expected,
		"artifact_failures", out.ArtifactFailures,
	)

	s.last = &out
	return out, nil
}

// Generated reports whether a pair has been written since the last Reset.
func (s *Synthesizer) Generated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last != nil
}

// Reset clears the per-run guard so the next Synthesize writes a new pair.
func (s *Synthesizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = nil
}

func dumpRecords(records []ir.TestExecutionRecord) []DumpRecord {
	out := make([]DumpRecord, len(records))
	for i, r := range records {
		out[i] = newDumpRecord(r)
	}
	return out
}

func tierNames(res reconcile.Result) map[string]int {
	out := make(map[string]int)
	for t, n := range res.TierCounts() {
		out[t.String()] = n
	}
	return out
}
