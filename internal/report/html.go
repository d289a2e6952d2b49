package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/artifact"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

//go:embed report.html.tmpl
var htmlTemplateText string

var htmlTemplate = template.Must(template.New("report").Parse(htmlTemplateText))

// ArtifactLoader returns the encoded payload for an artifact file name.
// *artifact.Cache satisfies it.
type ArtifactLoader interface {
	Load(name string) artifact.Payload
}

type htmlPage struct {
	Title       string
	RunID       string
	GeneratedAt string
	Summary     Summary
	Missing     []ir.ManifestEntry
	Records     []htmlRecord
}

type htmlRecord struct {
	Subject      string
	Scenario     string
	Source       string
	Browser      string
	Status       ir.Status
	Duration     string
	ErrorMessage string
	Shots        []htmlShot
}

type htmlShot struct {
	Name string
	Src  template.URL
	OK   bool
}

// htmlInput carries everything the document shows.
type htmlInput struct {
	RunID       string
	GeneratedAt time.Time
	Summary     Summary
	Missing     []ir.ManifestEntry
	Records     []ir.TestExecutionRecord
}

// writeHTML renders the document. Each artifact is loaded through loader;
// a failed load becomes a placeholder and is reported through onFailure.
func writeHTML(w io.Writer, in htmlInput, loader ArtifactLoader, onFailure func(artifact.Payload)) error {
	page := htmlPage{
		Title:       "Sauce Demo Regression Report",
		RunID:       in.RunID,
		GeneratedAt: in.GeneratedAt.UTC().Format(time.RFC3339),
		Summary:     in.Summary,
		Missing:     in.Missing,
		Records:     make([]htmlRecord, 0, len(in.Records)),
	}

	for _, r := range in.Records {
		hr := htmlRecord{
			Subject:      r.SubjectIdentity,
			Scenario:     r.ScenarioName,
			Source:       r.SourceFile,
			Browser:      r.RuntimeEnvironment,
			Status:       r.Status,
			Duration:     FormatDuration(r.DurationMs),
			ErrorMessage: r.ErrorMessage,
		}
		for _, name := range r.ArtifactRefs {
			p := loader.Load(name)
			if !p.OK() {
				onFailure(p)
				hr.Shots = append(hr.Shots, htmlShot{Name: name})
				continue
			}
			// Data URIs produced by the cache are trusted.
			hr.Shots = append(hr.Shots, htmlShot{Name: name, Src: template.URL(p.DataURI), OK: true})
		}
		page.Records = append(page.Records, hr)
	}

	if err := htmlTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
