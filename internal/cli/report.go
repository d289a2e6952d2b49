package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/report"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	RunFlags
	ArtifactsDir string
	ReportsDir   string
	Prefix       string
	Retention    int
	Strict       bool
}

// ReportResult is the report command's JSON payload.
type ReportResult struct {
	HTML             string         `json:"html"`
	JSON             string         `json:"json"`
	Summary          report.Summary `json:"summary"`
	ArtifactFailures int            `json:"artifact_failures"`
	Pruned           []string       `json:"pruned,omitempty"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the HTML and JSON report for the current run",
		Long: `Generate the report for the current run.

Journaled records are reconciled against the manifest, screenshots are
correlated by subject, and a timestamped HTML and JSON pair is written to the
reports directory. Older pairs beyond the retention limit are removed. The
console summary is printed in text mode.

With --strict the command exits 1 when any scenario failed or is missing.

Example:
  saucereport report --db ./results.db --artifacts ./screenshots --reports ./reports`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	addRunFlags(cmd, &opts.RunFlags)
	cmd.Flags().StringVar(&opts.ArtifactsDir, "artifacts", "", "screenshot directory (default from config)")
	cmd.Flags().StringVar(&opts.ReportsDir, "reports", "", "report output directory (default from config)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "report file name prefix (default from config)")
	cmd.Flags().IntVar(&opts.Retention, "retention", 0, "number of report pairs to keep (default from config)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when scenarios failed or are missing")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())

	cfg, err := resolveConfig(opts.RootOptions, &opts.RunFlags)
	if err != nil {
		return configError(formatter, err)
	}
	if opts.ArtifactsDir != "" {
		cfg.ArtifactsDir = opts.ArtifactsDir
	}
	if opts.ReportsDir != "" {
		cfg.ReportsDir = opts.ReportsDir
	}
	if opts.Prefix != "" {
		cfg.ReportPrefix = opts.Prefix
	}
	if cmd.Flags().Changed("retention") {
		cfg.Retention = opts.Retention
	}
	if err := cfg.Validate(); err != nil {
		return configError(formatter, err)
	}

	ctx := commandContext(cmd)
	sess, err := openSession(ctx, opts.RootOptions, cfg, formatter, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	out, err := sess.run.Generate(ctx)
	if err != nil {
		var werr *report.WriteError
		if errors.As(err, &werr) {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write report", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to generate report", err)
	}

	result := ReportResult{
		HTML:             out.HTMLPath,
		JSON:             out.JSONPath,
		Summary:          out.Summary,
		ArtifactFailures: out.ArtifactFailures,
		Pruned:           out.Pruned,
	}

	var text strings.Builder
	text.WriteString(out.Console)
	fmt.Fprintf(&text, "HTML report: %s\nJSON report: %s\n", out.HTMLPath, out.JSONPath)
	if err := formatter.Success(sess.run.RunID(), result, text.String()); err != nil {
		return err
	}

	if opts.Strict && (out.Summary.Failed > 0 || out.Summary.Missing > 0) {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%d failed, %d missing of %d expected", out.Summary.Failed, out.Summary.Missing, out.Summary.Expected))
	}
	return nil
}
