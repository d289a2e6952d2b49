package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	RunFlags
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard journaled records and start a new run",
		Long: `Discard every journaled record and start a new run with a fresh run ID.

Run this before launching workers so records from a previous run never leak
into the next report.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(opts, cmd)
		},
	}

	addRunFlags(cmd, &opts.RunFlags)
	return cmd
}

func runReset(opts *ResetOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())

	cfg, err := resolveConfig(opts.RootOptions, &opts.RunFlags)
	if err != nil {
		return configError(formatter, err)
	}

	ctx := commandContext(cmd)
	sess, err := openSession(ctx, opts.RootOptions, cfg, formatter, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	previous := sess.run.RunID()
	id, err := sess.run.Reset(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to reset run", err)
	}

	data := map[string]string{"previous_run_id": previous, "run_id": id}
	return formatter.Success(id, data, fmt.Sprintf("Started run %s\n", id))
}
