package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ingest"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	RunFlags
}

// IngestResult is the ingest command's JSON payload.
type IngestResult struct {
	Events   int             `json:"events"`
	Stats    ingest.Stats    `json:"stats"`
	Rejected []RejectedEvent `json:"rejected,omitempty"`
}

// RejectedEvent describes an event skipped as invalid.
type RejectedEvent struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <events-file>",
		Short: "Record test execution events in the run journal",
		Long: `Record test execution events in the current run's journal.

The events file is YAML or JSON: either a list of events or a document with
a "records" list. Use "-" to read from stdin. Invalid events are skipped and
counted; events already recorded for the same source, subject and scenario
are rejected as duplicates.

Example:
  saucereport ingest --db ./results.db worker-1.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, args[0], cmd)
		},
	}

	addRunFlags(cmd, &opts.RunFlags)
	return cmd
}

func runIngest(opts *IngestOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())

	cfg, err := resolveConfig(opts.RootOptions, &opts.RunFlags)
	if err != nil {
		return configError(formatter, err)
	}

	data, err := readEvents(path, cmd.InOrStdin())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, "events file not found", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to read events", err)
	}
	events, err := decodeEvents(data)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParseEvents, "failed to decode events", err)
	}

	ctx := commandContext(cmd)
	sess, err := openSession(ctx, opts.RootOptions, cfg, formatter, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := IngestResult{Events: len(events)}
	for i, ev := range events {
		if _, err := sess.run.Ingest(ctx, ev); err != nil {
			var verr *ir.ValidationError
			if errors.As(err, &verr) {
				logger.Warn("invalid event skipped", "index", i, "error", verr)
				result.Rejected = append(result.Rejected, RejectedEvent{Index: i, Error: verr.Error()})
				continue
			}
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to record event", err)
		}
	}
	result.Stats = sess.run.Stats()

	text := fmt.Sprintf("Ingested %d events into run %s: %d accepted, %d duplicates, %d invalid\n",
		result.Events, sess.run.RunID(), result.Stats.Accepted, result.Stats.Duplicates, result.Stats.Invalid)
	return formatter.Success(sess.run.RunID(), result, text)
}

func readEvents(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// decodeEvents accepts a bare list or a {records: [...]} document. JSON is
// decoded through the same YAML path.
func decodeEvents(data []byte) ([]ir.TestExecutionRecord, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var events []ir.TestExecutionRecord
		if err := root.Decode(&events); err != nil {
			return nil, err
		}
		return events, nil
	case yaml.MappingNode:
		var file struct {
			Records []ir.TestExecutionRecord `yaml:"records"`
		}
		if err := root.Decode(&file); err != nil {
			return nil, err
		}
		return file.Records, nil
	default:
		return nil, fmt.Errorf("events must be a list or a mapping with \"records\", got %s", nodeKind(root.Kind))
	}
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
