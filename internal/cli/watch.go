package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roamly/roamly/internal/app"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the catalog in sync until interrupted",
		Long: `Watch scans the library, then runs the OCR worker, the filesystem watcher
(local libraries with watch_library enabled) and the rescan_cron schedule
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				cfg := a.Settings.Current()
				fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s library %s (Ctrl-C to stop)\n", cfg.Driver, cfg.Root())
				return a.Run(cmd.Context())
			})
		},
	}
}
