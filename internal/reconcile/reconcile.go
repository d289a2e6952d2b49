// Package reconcile matches ingested records against the canonical manifest.
//
// Each manifest entry is resolved by an ordered list of match tiers, most
// specific first. The most specific tier that finds an unclaimed record wins. A
// manifest entry with no match is omitted and reported as missing: the output
// never contains fabricated results.
//
// A record can satisfy at most one manifest entry. Without that guard the
// looser tiers would let one execution fill several manifest slots.
package reconcile

import (
	"log/slog"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

// Tier identifies which match rule resolved a manifest entry.
type Tier int

const (
	TierNone Tier = iota
	// TierExact matches source, subject, and scenario.
	TierExact
	// TierSubjectScenario ignores source.
	TierSubjectScenario
	// TierSubjectSource ignores scenario and rewrites it.
	TierSubjectSource
	// TierSubject matches subject alone and rewrites source and scenario.
	TierSubject
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSubjectScenario:
		return "subject+scenario"
	case TierSubjectSource:
		return "subject+source"
	case TierSubject:
		return "subject"
	default:
		return "none"
	}
}

// Predicate reports whether rec can satisfy entry.
type Predicate func(entry ir.ManifestEntry, rec ir.TestExecutionRecord) bool

// Matcher is one tier of the cascade.
type Matcher struct {
	Tier  Tier
	Match Predicate
	// Rewrite, when set, aligns the matched record's identity with the entry.
	Rewrite func(entry ir.ManifestEntry, rec *ir.TestExecutionRecord)
}

// Cascade is the default tier order.
var Cascade = []Matcher{
	{
		Tier: TierExact,
		Match: func(e ir.ManifestEntry, r ir.TestExecutionRecord) bool {
			return e.SourceFile == r.SourceFile && e.SubjectIdentity == r.SubjectIdentity && e.ScenarioName == r.ScenarioName
		},
	},
	{
		Tier: TierSubjectScenario,
		Match: func(e ir.ManifestEntry, r ir.TestExecutionRecord) bool {
			return e.SubjectIdentity == r.SubjectIdentity && e.ScenarioName == r.ScenarioName
		},
	},
	{
		Tier: TierSubjectSource,
		Match: func(e ir.ManifestEntry, r ir.TestExecutionRecord) bool {
			return e.SubjectIdentity == r.SubjectIdentity && e.SourceFile == r.SourceFile
		},
		Rewrite: func(e ir.ManifestEntry, r *ir.TestExecutionRecord) {
			r.ScenarioName = e.ScenarioName
		},
	},
	{
		Tier: TierSubject,
		Match: func(e ir.ManifestEntry, r ir.TestExecutionRecord) bool {
			return e.SubjectIdentity == r.SubjectIdentity
		},
		Rewrite: func(e ir.ManifestEntry, r *ir.TestExecutionRecord) {
			r.SourceFile = e.SourceFile
			r.ScenarioName = e.ScenarioName
		},
	},
}

// Match records how one manifest entry was resolved.
type Match struct {
	Entry ir.ManifestEntry
	Tier  Tier
	// Original is the identity key of the stored record that was claimed.
	Original ir.IdentityKey
}

// Result is the reconciled output.
type Result struct {
	// Records are in manifest order, one per resolved entry.
	Records []ir.TestExecutionRecord
	Matches []Match
	// Missing lists manifest entries no record could satisfy.
	Missing []ir.ManifestEntry
	// Unclaimed lists stored records no manifest entry used.
	Unclaimed []ir.TestExecutionRecord
	// Expected is the manifest size.
	Expected int
}

// TierCounts returns how many entries each tier resolved.
func (r Result) TierCounts() map[Tier]int {
	counts := make(map[Tier]int)
	for _, m := range r.Matches {
		counts[m.Tier]++
	}
	return counts
}

// Complete reports whether every manifest entry was resolved.
func (r Result) Complete() bool {
	return len(r.Missing) == 0
}

// Reconciler applies a cascade of matchers.
type Reconciler struct {
	cascade []Matcher
	logger  *slog.Logger
}

// New returns a Reconciler using Cascade. A nil logger selects slog.Default.
func New(logger *slog.Logger) *Reconciler {
	return NewWithCascade(Cascade, logger)
}

// NewWithCascade returns a Reconciler with a custom tier order.
func NewWithCascade(cascade []Matcher, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{cascade: cascade, logger: logger}
}

// Reconcile resolves every manifest entry against records.
//
// Tiers are applied across the whole manifest before the next tier is tried,
// so a loose match for an early entry can never take a record that exactly
// matches a later one. Within a tier, entries are visited in manifest order
// and the earliest unclaimed record wins. The input slice is never modified:
// rewritten records are copies.
func (rc *Reconciler) Reconcile(records []ir.TestExecutionRecord, entries []ir.ManifestEntry) Result {
	result := Result{
		Records:  make([]ir.TestExecutionRecord, 0, len(entries)),
		Expected: len(entries),
	}
	claimed := make([]bool, len(records))
	resolved := make([]*Match, len(entries))
	out := make([]ir.TestExecutionRecord, len(entries))

	for _, m := range rc.cascade {
		for ei, entry := range entries {
			if resolved[ei] != nil {
				continue
			}
			idx := firstUnclaimed(m, entry, records, claimed)
			if idx < 0 {
				continue
			}

			claimed[idx] = true
			rec := records[idx].Clone()
			if m.Rewrite != nil {
				m.Rewrite(entry, &rec)
			}
			out[ei] = rec
			resolved[ei] = &Match{Entry: entry, Tier: m.Tier, Original: records[idx].IdentityKey()}

			if m.Tier != TierExact {
				rc.logger.Info("manifest entry resolved by fallback",
					"tier", m.Tier.String(),
					"subject", entry.SubjectIdentity,
					"expected_source", entry.SourceFile,
					"expected_scenario", entry.ScenarioName,
					"actual_source", records[idx].SourceFile,
					"actual_scenario", records[idx].ScenarioName,
				)
			}
		}
	}

	for ei, entry := range entries {
		if resolved[ei] == nil {
			rc.logger.Warn("manifest entry unresolved",
				"subject", entry.SubjectIdentity,
				"source", entry.SourceFile,
				"scenario", entry.ScenarioName,
			)
			result.Missing = append(result.Missing, entry)
			continue
		}
		result.Records = append(result.Records, out[ei])
		result.Matches = append(result.Matches, *resolved[ei])
	}

	for i, rec := range records {
		if !claimed[i] {
			result.Unclaimed = append(result.Unclaimed, rec.Clone())
		}
	}

	if len(result.Records) != result.Expected {
		rc.logger.Warn("reconciled record count differs from manifest",
			"expected", result.Expected,
			"actual", len(result.Records),
			"missing", len(result.Missing),
		)
	}
	return result
}

func firstUnclaimed(m Matcher, entry ir.ManifestEntry, records []ir.TestExecutionRecord, claimed []bool) int {
	for i, rec := range records {
		if !claimed[i] && m.Match(entry, rec) {
			return i
		}
	}
	return -1
}

// Reconcile is a convenience wrapper using the default cascade.
func Reconcile(records []ir.TestExecutionRecord, entries []ir.ManifestEntry, logger *slog.Logger) Result {
	return New(logger).Reconcile(records, entries)
}
