package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/config"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/manifest"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/pipeline"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/store"
)

// RunFlags are the flags shared by commands that open a run.
type RunFlags struct {
	Database string
	Manifest string
}

func addRunFlags(cmd *cobra.Command, f *RunFlags) {
	cmd.Flags().StringVar(&f.Database, "db", "", "path to the SQLite journal (default from config)")
	cmd.Flags().StringVar(&f.Manifest, "manifest", "", "manifest file (.yaml or .cue); built-in when empty")
}

// resolveConfig loads the config file, when given, and applies flag overrides.
func resolveConfig(opts *RootOptions, f *RunFlags) (config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if f.Database != "" {
		cfg.Database = f.Database
	}
	if f.Manifest != "" {
		cfg.Manifest = f.Manifest
	}
	return cfg, nil
}

func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func loadManifest(path string) (manifest.Manifest, error) {
	if path == "" {
		return manifest.Default()
	}
	return manifest.Load(path)
}

// session is an open run plus the journal backing it.
type session struct {
	run     *pipeline.Run
	journal *store.Store
	logger  *slog.Logger
}

func (s *session) Close() {
	if err := s.journal.Close(); err != nil {
		s.logger.Error("error closing journal", "error", err)
	}
}

// openSession opens the journal and assembles a run over it. Failures are
// reported through formatter and returned as ExitErrors.
func openSession(ctx context.Context, opts *RootOptions, cfg config.Config, formatter *OutputFormatter, logger *slog.Logger) (*session, error) {
	m, err := loadManifest(cfg.Manifest)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeManifest, "failed to load manifest", err)
	}

	if dir := filepath.Dir(cfg.Database); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to create journal directory", err)
		}
	}
	logger.Debug("opening journal", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
	}

	runOpts := []pipeline.Option{pipeline.WithJournal(st), pipeline.WithLogger(logger)}
	if opts.RunIDs != nil {
		runOpts = append(runOpts, pipeline.WithRunIDs(opts.RunIDs))
	}
	if opts.Now != nil {
		runOpts = append(runOpts, pipeline.WithClock(opts.Now))
	}

	run, err := pipeline.New(ctx, m, cfg.Settings(), runOpts...)
	if err != nil {
		st.Close()
		return nil, formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to start run", err)
	}
	return &session{run: run, journal: st, logger: logger}, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

func configError(formatter *OutputFormatter, err error) error {
	return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
}
