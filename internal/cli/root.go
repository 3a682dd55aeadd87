// Package cli implements the roamly command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roamly/roamly/internal/app"
	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/paths"
	"github.com/roamly/roamly/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

var (
	flags  rootFlags
	loaded app.Config
)

// NewRootCmd creates the top-level "roamly" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags = rootFlags{}
	loaded = app.Config{}

	root := &cobra.Command{
		Use:   "roamly",
		Short: "A catalog for a library of map images",
		Long: "Roamly indexes a folder (local or WebDAV) of map images, infers where each\n" +
			"map belongs from its path, file name and OCR text, and keeps user metadata\n" +
			"in a portable sidecar next to the images.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "init" {
				return nil
			}
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configDir, flags.dataDir)
			if err != nil {
				return err
			}
			loaded = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newFavoriteCmd())
	root.AddCommand(newOCRCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newResolveCityCmd())
	root.AddCommand(newCitiesCmd())
	root.AddCommand(newUploadCmd())
	root.AddCommand(newFoldersCmd())
	root.AddCommand(newSettingsCmd())
	root.AddCommand(newMetaCmd())
	root.AddCommand(newFacetsCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newWatchCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "roamly:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode separates bad input from failures of the system.
func exitCode(err error) int {
	for _, target := range []error{
		types.ErrNotFound,
		types.ErrInvalidID,
		types.ErrPathEscape,
		types.ErrDriverUnknown,
		types.ErrLibraryDirEmpty,
		types.ErrWebDAVNotConfigured,
		types.ErrRootMissing,
		types.ErrRootNotDirectory,
		errUsage,
		errNoMatch,
	} {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

var (
	errUsage   = errors.New("invalid argument")
	errNoMatch = errors.New("no match")
)

// openApp builds the application for one command. The caller must Close it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	l, err := logger.InitGlobal(&loaded.Log)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cmd.Context(), loaded, l.Logger)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// withApp runs fn against a freshly opened application.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.L().Warn("closing catalog", zap.Error(cerr))
		}
	}()
	return fn(a)
}
