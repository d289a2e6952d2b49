package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/artifact"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ingest"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/manifest"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/origin"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/reconcile"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/report"
)

// Journal is a durable record journal that remembers its current run.
// *store.Store satisfies it.
type Journal interface {
	ingest.Journal
	RunID(ctx context.Context) (string, error)
}

// Settings holds the filesystem layout and limits of a run.
type Settings struct {
	ArtifactsDir  string
	ReportsDir    string
	ReportPrefix  string
	Retention     int
	CacheCapacity int
	// Extensions overrides the artifact extensions the scanner accepts.
	Extensions []string
}

// Option configures a Run.
type Option func(*Run)

// WithJournal makes the run durable. The journal's run ID is resumed when
// present.
func WithJournal(j Journal) Option {
	return func(r *Run) { r.journal = j }
}

// WithRunIDs overrides the run ID generator.
func WithRunIDs(g RunIDGenerator) Option {
	return func(r *Run) { r.ids = g }
}

// WithClock overrides the report generation clock.
func WithClock(now func() time.Time) Option {
	return func(r *Run) { r.now = now }
}

// WithClassifier overrides the origin classifier.
func WithClassifier(c *origin.Classifier) Option {
	return func(r *Run) { r.classifier = c }
}

// WithLogger sets the logger shared by every stage.
func WithLogger(l *slog.Logger) Option {
	return func(r *Run) { r.logger = l }
}

// Run is one reporting lifecycle over a fixed manifest.
type Run struct {
	// mu is held shared by Ingest and Generate and exclusively by Reset.
	mu sync.RWMutex

	manifest   manifest.Manifest
	settings   Settings
	journal    Journal
	ids        RunIDGenerator
	now        func() time.Time
	classifier *origin.Classifier
	logger     *slog.Logger

	agg        *ingest.Aggregator
	scanner    *artifact.Scanner
	cache      *artifact.Cache
	synth      *report.Synthesizer
	reconciler *reconcile.Reconciler
}

// New assembles a run. With a journal attached, the journal's current run
// is resumed; an unstamped journal is reset to a new run ID first.
func New(ctx context.Context, m manifest.Manifest, settings Settings, opts ...Option) (*Run, error) {
	r := &Run{manifest: m, settings: settings}
	for _, opt := range opts {
		opt(r)
	}
	if r.ids == nil {
		r.ids = UUIDv7Generator{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.settings.CacheCapacity <= 0 {
		r.settings.CacheCapacity = artifact.DefaultCacheCapacity
	}

	runID, err := r.startingRunID(ctx)
	if err != nil {
		return nil, err
	}

	aggOpts := []ingest.Option{ingest.WithLogger(r.logger)}
	if r.classifier != nil {
		aggOpts = append(aggOpts, ingest.WithClassifier(r.classifier))
	}
	if r.journal != nil {
		aggOpts = append(aggOpts, ingest.WithJournal(r.journal, runID))
	}
	r.agg = ingest.New(aggOpts...)
	if _, err := r.agg.Load(ctx); err != nil {
		return nil, err
	}

	r.scanner = artifact.NewScanner(settings.ArtifactsDir, settings.Extensions)
	r.cache = artifact.NewCache(settings.ArtifactsDir, r.settings.CacheCapacity)
	r.synth = report.NewSynthesizer(report.Options{
		Dir:       settings.ReportsDir,
		Prefix:    settings.ReportPrefix,
		Retention: settings.Retention,
		Now:       r.now,
		Logger:    r.logger,
	}, r.cache)
	r.reconciler = reconcile.New(r.logger)

	if r.journal == nil {
		// Without a journal the run ID only lives in memory.
		if err := r.agg.Reset(ctx, runID); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("run ready",
		"run_id", runID,
		"manifest", m.Name,
		"expected", m.Len(),
		"journaled", r.agg.Len(),
	)
	return r, nil
}

func (r *Run) startingRunID(ctx context.Context) (string, error) {
	if r.journal == nil {
		return r.ids.Generate(), nil
	}
	id, err := r.journal.RunID(ctx)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = r.ids.Generate()
	if err := r.journal.Reset(ctx, id); err != nil {
		return "", fmt.Errorf("stamp journal: %w", err)
	}
	return id, nil
}

// Ingest submits one record to the current run.
func (r *Run) Ingest(ctx context.Context, rec ir.TestExecutionRecord) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agg.Ingest(ctx, rec)
}

// Generate reconciles the run against the manifest and writes the report.
// Repeated calls before Reset return the first result.
func (r *Run) Generate(ctx context.Context) (report.Output, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.synth.Generated() {
		return r.synth.Synthesize(ctx, report.Input{})
	}

	if _, err := r.agg.Load(ctx); err != nil {
		return report.Output{}, err
	}
	result := r.reconciler.Reconcile(r.agg.Records(), r.manifest.Entries)

	available, err := r.scanner.List()
	if err != nil {
		// Reports still go out without screenshots.
		r.logger.Warn("artifact scan failed", "dir", r.scanner.Dir(), "error", err)
		available = nil
	}

	return r.synth.Synthesize(ctx, report.Input{
		RunID:        r.agg.RunID(),
		ManifestName: r.manifest.Name,
		Reconciled:   result,
		Available:    available,
		Ingestion:    r.agg.Stats(),
	})
}

// Reset discards every record, cached artifact and the generated-report
// guard, and starts a new run. It returns the new run ID.
func (r *Run) Reset(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.ids.Generate()
	if err := r.agg.Reset(ctx, id); err != nil {
		return "", err
	}
	r.cache.Reset()
	r.synth.Reset()

	r.logger.Info("run reset", "run_id", id)
	return id, nil
}

// RunID returns the current run ID.
func (r *Run) RunID() string {
	return r.agg.RunID()
}

// Stats returns the current ingestion counters.
func (r *Run) Stats() ingest.Stats {
	return r.agg.Stats()
}

// Records returns the records collected so far, in acceptance order.
func (r *Run) Records() []ir.TestExecutionRecord {
	return r.agg.Records()
}

// CacheStats returns the artifact cache counters.
func (r *Run) CacheStats() artifact.CacheStats {
	return r.cache.Stats()
}

// Manifest returns the manifest the run reconciles against.
func (r *Run) Manifest() manifest.Manifest {
	return r.manifest
}
