package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roamly/roamly/internal/app"
	"github.com/roamly/roamly/internal/paths"
	"github.com/roamly/roamly/internal/settings"
	"github.com/roamly/roamly/internal/sqlite"
)

func newInitCmd() *cobra.Command {
	var library string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize roamly configuration and catalog",
		Long: "Create the configuration and data directories, write a default config.yaml\n" +
			"if none exists, and create the catalog database.",
		Example: "  roamly init --library ~/Maps",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, library)
		},
	}
	cmd.Flags().StringVar(&library, "library", "", "local map library directory")
	return cmd
}

func runInit(cmd *cobra.Command, library string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	cfg := app.DefaultConfig()
	if library != "" {
		dir, err := settings.CheckLocalDir(library)
		if err != nil {
			return err
		}
		cfg.MapLibraryDir = dir
	}
	if flags.dataDir != "" {
		cfg.DataDir, err = filepath.Abs(flags.dataDir)
		if err != nil {
			return err
		}
	}

	configPath := paths.ConfigFile(configDir)
	written, err := writeConfigIfMissing(configPath, cfg)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	effective, err := loadConfig(configDir, flags.dataDir)
	if err != nil {
		return err
	}

	catalog := sqlite.NewBackend()
	if err := catalog.Attach(cmd.Context(), sqlite.Config{DataDir: effective.DataDir}); err != nil {
		return fmt.Errorf("initialize catalog: %w", err)
	}
	if err := catalog.Detach(); err != nil {
		return fmt.Errorf("finalize catalog: %w", err)
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	} else {
		fmt.Fprintf(out, "Kept existing %s\n", configPath)
	}
	fmt.Fprintf(out, "Catalog ready in %s\n", effective.DataDir)
	return nil
}
