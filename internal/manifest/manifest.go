// Package manifest loads the canonical manifest: the fixed, hand-authored
// list of scenarios a complete report must account for.
//
// Manifests are written in YAML (or JSON) or in CUE. Either way the content
// is unified with an embedded CUE schema, so every entry is guaranteed to
// carry a non-empty subject, source, and scenario before reconciliation
// sees it.
package manifest

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

//go:embed schema.cue
var schemaCUE string

//go:embed default.yaml
var defaultYAML []byte

// Manifest is an ordered list of expected scenarios. Its length defines the
// expected report size.
type Manifest struct {
	Name    string
	Entries []ir.ManifestEntry
}

// Len returns the expected report size.
func (m Manifest) Len() int {
	return len(m.Entries)
}

// file is the on-disk shape shared by the YAML and CUE formats.
type file struct {
	Name      string             `json:"name,omitempty" yaml:"name,omitempty"`
	Scenarios []ir.ManifestEntry `json:"scenarios" yaml:"scenarios"`
}

// Default returns the built-in saucedemo manifest.
func Default() (Manifest, error) {
	return Parse("default.yaml", defaultYAML)
}

// Load reads and validates the manifest at path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes a manifest. The format is chosen by the extension of name:
// ".cue" is compiled as CUE, anything else is decoded as YAML.
func Parse(name string, data []byte) (Manifest, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue")).LookupPath(cue.ParsePath("#Manifest"))
	if err := schema.Err(); err != nil {
		return Manifest{}, fmt.Errorf("compile manifest schema: %w", err)
	}

	var value cue.Value
	switch filepath.Ext(name) {
	case ".cue":
		value = ctx.CompileBytes(data, cue.Filename(name))
		if err := value.Err(); err != nil {
			return Manifest{}, fmt.Errorf("compile %s: %w", name, err)
		}
	default:
		var f file
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Manifest{}, fmt.Errorf("decode %s: %w", name, err)
		}
		value = ctx.Encode(f)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Manifest{}, fmt.Errorf("validate %s: %w", name, err)
	}

	var f file
	if err := unified.Decode(&f); err != nil {
		return Manifest{}, fmt.Errorf("decode %s: %w", name, err)
	}

	m := Manifest{Name: f.Name, Entries: make([]ir.ManifestEntry, len(f.Scenarios))}
	for i, e := range f.Scenarios {
		m.Entries[i] = e.Normalized()
	}
	if err := checkUnique(m.Entries); err != nil {
		return Manifest{}, fmt.Errorf("validate %s: %w", name, err)
	}
	return m, nil
}

func checkUnique(entries []ir.ManifestEntry) error {
	seen := make(map[ir.IdentityKey]int, len(entries))
	for i, e := range entries {
		if err := ir.ValidateManifestEntry(e); err != nil {
			return fmt.Errorf("scenarios[%d]: %w", i, err)
		}
		key := e.IdentityKey()
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("scenarios[%d] duplicates scenarios[%d] (%s)", i, prev, e)
		}
		seen[key] = i
	}
	return nil
}
