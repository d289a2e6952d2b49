package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the file types treated as artifacts.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}

// Artifact is one file discovered in the artifact directory.
type Artifact struct {
	Name     string
	Path     string
	Sequence int
	Size     int64
}

// Scanner lists artifacts in a single directory.
type Scanner struct {
	dir        string
	extensions map[string]bool
}

// NewScanner returns a scanner for dir. A nil extensions slice selects
// DefaultExtensions.
func NewScanner(dir string, extensions []string) *Scanner {
	if extensions == nil {
		extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Scanner{dir: dir, extensions: exts}
}

// Dir returns the scanned directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// List returns every artifact in the directory sorted by name.
// A missing directory yields an empty list.
func (s *Scanner) List() ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []Artifact{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list artifacts in %s: %w", s.dir, err)
	}

	artifacts := []Artifact{}
	for _, e := range entries {
		if e.IsDir() || !s.extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		artifacts = append(artifacts, Artifact{
			Name:     e.Name(),
			Path:     filepath.Join(s.dir, e.Name()),
			Sequence: SequenceNumber(e.Name()),
			Size:     size,
		})
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })
	return artifacts, nil
}
