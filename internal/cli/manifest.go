package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/ir"
)

// ManifestResult is the manifest command's JSON payload.
type ManifestResult struct {
	Name     string             `json:"name"`
	Expected int                `json:"expected"`
	Entries  []ir.ManifestEntry `json:"entries"`
}

// NewManifestCommand creates the manifest command.
func NewManifestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest [file]",
		Short: "Validate and print a scenario manifest",
		Long: `Validate a scenario manifest (.yaml or .cue) and print its entries.

Without a file, the built-in Sauce Demo manifest is printed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runManifest(rootOpts, path, cmd)
		},
	}
	return cmd
}

func runManifest(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	m, err := loadManifest(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeManifest, "invalid manifest", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Manifest %s: %d expected scenarios\n", m.Name, m.Len())
	for i, e := range m.Entries {
		fmt.Fprintf(&text, "%3d. %s\n", i+1, e)
	}

	return formatter.Success("", ManifestResult{Name: m.Name, Expected: m.Len(), Entries: m.Entries}, text.String())
}
