package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/origin"
)

// Journal is the durable side of the aggregation store.
// *store.Store satisfies it.
type Journal interface {
	InsertRecord(ctx context.Context, runID string, rec ir.TestExecutionRecord) (bool, error)
	ReadRecords(ctx context.Context) ([]ir.TestExecutionRecord, error)
	Reset(ctx context.Context, runID string) error
}

// Stats counts what happened to every Ingest call since the last Reset.
type Stats struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// Aggregator is the in-memory AggregationStore.
type Aggregator struct {
	mu         sync.Mutex
	records    map[ir.IdentityKey]ir.TestExecutionRecord
	order      []ir.IdentityKey
	stats      Stats
	runID      string
	journal    Journal
	classifier *origin.Classifier
	logger     *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithJournal attaches a durable journal. runID is stamped on every row.
func WithJournal(j Journal, runID string) Option {
	return func(a *Aggregator) {
		a.journal = j
		a.runID = runID
	}
}

// WithClassifier overrides the origin classifier used for records that
// arrive without a source.
func WithClassifier(c *origin.Classifier) Option {
	return func(a *Aggregator) { a.classifier = c }
}

// WithLogger sets the logger for rejections and acceptances.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// New creates an empty Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		records: make(map[ir.IdentityKey]ir.TestExecutionRecord),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.classifier == nil {
		a.classifier = origin.NewClassifier(nil)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Ingest stores rec unless a record with the same identity key is already
// present. It returns accepted=false with a nil error for duplicates.
//
// A *ir.ValidationError is returned for malformed records; the caller
// decides whether to abort or skip.
func (a *Aggregator) Ingest(ctx context.Context, rec ir.TestExecutionRecord) (bool, error) {
	if err := ir.Validate(rec); err != nil {
		a.mu.Lock()
		a.stats.Invalid++
		a.mu.Unlock()
		return false, err
	}

	rec = rec.Clone()
	rec.ArtifactRefs = nil
	rec.NormalizeIdentity()
	if rec.SourceFile == "" {
		rec.SourceFile = a.classifier.Resolve(rec.ScenarioName, rec.AdvisoryArtifacts)
		a.logger.Debug("inferred source",
			"subject", rec.SubjectIdentity,
			"scenario", rec.ScenarioName,
			"source", rec.SourceFile,
		)
	}
	key := rec.IdentityKey()

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.records[key]; exists {
		a.rejectLocked(rec, "already ingested")
		return false, nil
	}

	if a.journal != nil {
		inserted, err := a.journal.InsertRecord(ctx, a.runID, rec)
		if err != nil {
			return false, fmt.Errorf("ingest: %w", err)
		}
		if !inserted {
			a.rejectLocked(rec, "already journaled by another worker")
			return false, nil
		}
	}

	a.records[key] = rec
	a.order = append(a.order, key)
	a.stats.Accepted++

	a.logger.Debug("record accepted",
		"identity_key", string(key),
		"status", rec.Status,
		"duration_ms", rec.DurationMs,
	)
	return true, nil
}

func (a *Aggregator) rejectLocked(rec ir.TestExecutionRecord, reason string) {
	a.stats.Duplicates++
	a.logger.Warn("duplicate record rejected",
		"identity_key", string(rec.IdentityKey()),
		"reason", reason,
		"status", rec.Status,
		"duration_ms", rec.DurationMs,
	)
}

// Load pulls journaled records that are not yet in memory, in journal order.
// It is how a reporting process picks up records written by worker processes.
// Loaded records do not count as accepted by this process.
func (a *Aggregator) Load(ctx context.Context) (int, error) {
	if a.journal == nil {
		return 0, nil
	}

	records, err := a.journal.ReadRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("load journal: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	loaded := 0
	for _, rec := range records {
		key := rec.IdentityKey()
		if _, exists := a.records[key]; exists {
			continue
		}
		a.records[key] = rec
		a.order = append(a.order, key)
		loaded++
	}
	return loaded, nil
}

// Records returns copies of all stored records in acceptance order.
func (a *Aggregator) Records() []ir.TestExecutionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]ir.TestExecutionRecord, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.records[key].Clone())
	}
	return out
}

// Lookup returns a copy of the record stored under key.
func (a *Aggregator) Lookup(key ir.IdentityKey) (ir.TestExecutionRecord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.records[key]
	if !ok {
		return ir.TestExecutionRecord{}, false
	}
	return rec.Clone(), true
}

// Len returns the number of stored records.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.order)
}

// Stats returns a snapshot of the ingestion counters.
func (a *Aggregator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// RunID returns the run the aggregator is currently collecting.
func (a *Aggregator) RunID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runID
}

// Reset discards every record and counter and starts run runID. The journal,
// when attached, is cleared in the same critical section.
func (a *Aggregator) Reset(ctx context.Context, runID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.journal != nil {
		if err := a.journal.Reset(ctx, runID); err != nil {
			return fmt.Errorf("reset journal: %w", err)
		}
	}

	a.records = make(map[ir.IdentityKey]ir.TestExecutionRecord)
	a.order = nil
	a.stats = Stats{}
	a.runID = runID
	return nil
}
