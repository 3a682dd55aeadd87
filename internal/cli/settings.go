package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roamly/roamly/internal/app"
	"github.com/roamly/roamly/internal/settings"
	"github.com/roamly/roamly/pkg/types"
)

func printStorage(out io.Writer, cfg types.StorageConfig) {
	fmt.Fprintf(out, "Driver:      %s\n", cfg.Driver)
	fmt.Fprintf(out, "Library:     %s\n", orDash(cfg.MapLibraryDir))
	fmt.Fprintf(out, "WebDAV URL:  %s\n", orDash(cfg.WebDAV.URL))
	fmt.Fprintf(out, "WebDAV user: %s\n", orDash(cfg.WebDAV.Username))
	fmt.Fprintf(out, "WebDAV pass: %s\n", orDash(cfg.WebDAV.Password))
	fmt.Fprintf(out, "WebDAV root: %s\n", cfg.WebDAV.RootPath)
	fmt.Fprintf(out, "Project key: %s\n", cfg.ProjectKey())
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the active storage",
	}
	cmd.AddCommand(newSettingsShowCmd(), newSettingsSetCmd())
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active storage settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				cfg := a.Settings.Redacted()
				if flags.jsonMode {
					return printJSON(cmd, cfg)
				}
				printStorage(cmd.OutOrStdout(), cfg)
				fmt.Fprintf(cmd.OutOrStdout(), "Saved in:    %s\n", a.Settings.Path())
				return nil
			})
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var driver, dir, url, user, pass, root string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Switch the active storage and rescan",
		Long: `Set changes the active library. A local directory must exist. The new library
is scanned right away and its sidecar becomes the active one.`,
		Example: `  roamly settings set --driver local --dir ~/Maps
  roamly settings set --driver webdav --webdav-url https://dav.example.com --user me --password secret --root /maps`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var u settings.Update
			pick := func(name string, v *string) *string {
				if cmd.Flags().Changed(name) {
					return v
				}
				return nil
			}
			u.Driver = pick("driver", &driver)
			u.MapLibraryDir = pick("dir", &dir)
			u.WebDAVURL = pick("webdav-url", &url)
			u.Username = pick("user", &user)
			u.Password = pick("password", &pass)
			u.RootPath = pick("root", &root)
			if u == (settings.Update{}) {
				return fmt.Errorf("%w: no settings given", errUsage)
			}

			return withApp(cmd, func(a *app.App) error {
				_, res, err := a.SwitchStorage(cmd.Context(), u)
				if err != nil {
					return err
				}
				cfg := a.Settings.Redacted()
				if flags.jsonMode {
					return printJSON(cmd, map[string]any{"settings": cfg, "scan": res})
				}
				printStorage(cmd.OutOrStdout(), cfg)
				fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d map(s)\n", res.Scanned)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&driver, "driver", "", "storage driver (local, webdav)")
	f.StringVar(&dir, "dir", "", "local map library directory")
	f.StringVar(&url, "webdav-url", "", "WebDAV server URL")
	f.StringVar(&user, "user", "", "WebDAV user name")
	f.StringVar(&pass, "password", "", "WebDAV password")
	f.StringVar(&root, "root", "", "WebDAV library root path")
	return cmd
}
