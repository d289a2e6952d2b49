// Package report renders a reconciled, correlated record set into three
// outputs: a self-contained HTML document with screenshots inline, a JSON
// dump for machines, and a condensed console summary.
//
// A Synthesizer produces at most one document pair per run. Calling
// Synthesize again before Reset returns the paths written the first time.
// Before each new pair is written, older pairs beyond the retention cap are
// deleted.
//
// Artifact read failures degrade to a visible placeholder for that artifact
// only. Failing to write either document is returned as a *WriteError.
package report
