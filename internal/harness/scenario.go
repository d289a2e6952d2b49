package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

// Scenario is one end-to-end reporting fixture.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Manifest lists the expected scenarios, in report order.
	Manifest []ir.ManifestEntry `yaml:"manifest"`

	// Artifacts are screenshot file names present when the report is built.
	Artifacts []string `yaml:"artifacts,omitempty"`

	// Batches are ingested in order.
	Batches []Batch `yaml:"batches"`

	// Expect holds optional count checks.
	Expect Expectation `yaml:"expect,omitempty"`
}

// Batch is the set of events one worker reported.
type Batch struct {
	Worker string                   `yaml:"worker"`
	Events []ir.TestExecutionRecord `yaml:"events"`
}

// Expectation lists counts the run must produce. Nil fields are unchecked.
type Expectation struct {
	Accepted   *int `yaml:"accepted,omitempty"`
	Duplicates *int `yaml:"duplicates,omitempty"`
	Invalid    *int `yaml:"invalid,omitempty"`
	Total      *int `yaml:"total,omitempty"`
	Missing    *int `yaml:"missing,omitempty"`
	Failed     *int `yaml:"failed,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Manifest) == 0 {
		return fmt.Errorf("manifest list is required and must be non-empty")
	}
	for i, e := range s.Manifest {
		if err := ir.ValidateManifestEntry(e); err != nil {
			return fmt.Errorf("manifest[%d]: %w", i, err)
		}
	}
	if len(s.Batches) == 0 {
		return fmt.Errorf("batches list is required and must be non-empty")
	}
	for i, b := range s.Batches {
		if b.Worker == "" {
			return fmt.Errorf("batches[%d]: worker is required", i)
		}
	}
	for i, a := range s.Artifacts {
		if a == "" || a != filepath.Base(a) {
			return fmt.Errorf("artifacts[%d]: %q must be a bare file name", i, a)
		}
	}
	return nil
}
