package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roamly/roamly/pkg/roamly"
)

const modulePath = "github.com/roamly/roamly"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the roamly version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "roamly v%s\nmodule: %s\n", roamly.Version, modulePath)
			return nil
		},
	}
}
