package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ingest"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

//go:embed dump.schema.json
var dumpSchemaJSON string

const dumpSchemaURL = "https://saucereport.local/dump.schema.json"

var (
	dumpSchemaOnce sync.Once
	dumpSchema     *jsonschema.Schema
	dumpSchemaErr  error
)

// Dump is the machine-readable report. Records carry an artifact count,
// never artifact content.
type Dump struct {
	RunID          string             `json:"run_id"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Manifest       string             `json:"manifest,omitempty"`
	Summary        Summary            `json:"summary"`
	Ingestion      ingest.Stats       `json:"ingestion"`
	Reconciliation ReconciliationDump `json:"reconciliation"`
	Records        []DumpRecord       `json:"records"`
}

// ReconciliationDump explains how the record set relates to the manifest.
type ReconciliationDump struct {
	Tiers   map[string]int     `json:"tiers"`
	Missing []ir.ManifestEntry `json:"missing"`
}

// DumpRecord is one record in the structured dump.
type DumpRecord struct {
	Subject       string    `json:"subject"`
	Scenario      string    `json:"scenario"`
	Source        string    `json:"source"`
	Browser       string    `json:"browser,omitempty"`
	Status        ir.Status `json:"status"`
	DurationMs    int64     `json:"duration_ms"`
	Timestamp     time.Time `json:"timestamp"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	ArtifactCount int       `json:"artifact_count"`
}

func newDumpRecord(r ir.TestExecutionRecord) DumpRecord {
	return DumpRecord{
		Subject:       r.SubjectIdentity,
		Scenario:      r.ScenarioName,
		Source:        r.SourceFile,
		Browser:       r.RuntimeEnvironment,
		Status:        r.Status,
		DurationMs:    r.DurationMs,
		Timestamp:     r.Timestamp,
		ErrorMessage:  r.ErrorMessage,
		ArtifactCount: len(r.ArtifactRefs),
	}
}

// MarshalDump encodes d as indented JSON and validates it against the
// embedded schema.
func MarshalDump(d Dump) ([]byte, error) {
	if d.Records == nil {
		d.Records = []DumpRecord{}
	}
	if d.Reconciliation.Tiers == nil {
		d.Reconciliation.Tiers = map[string]int{}
	}
	if d.Reconciliation.Missing == nil {
		d.Reconciliation.Missing = []ir.ManifestEntry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("marshal dump: %w", err)
	}

	if err := ValidateDump(buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ValidateDump checks raw JSON against the dump schema.
func ValidateDump(raw []byte) error {
	schema, err := compiledDumpSchema()
	if err != nil {
		return err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode dump: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dump does not match schema: %w", err)
	}
	return nil
}

func compiledDumpSchema() (*jsonschema.Schema, error) {
	dumpSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(dumpSchemaURL, bytes.NewReader([]byte(dumpSchemaJSON))); err != nil {
			dumpSchemaErr = fmt.Errorf("add dump schema: %w", err)
			return
		}
		dumpSchema, dumpSchemaErr = compiler.Compile(dumpSchemaURL)
		if dumpSchemaErr != nil {
			dumpSchemaErr = fmt.Errorf("compile dump schema: %w", dumpSchemaErr)
		}
	})
	return dumpSchema, dumpSchemaErr
}
