package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roamly/roamly/internal/gazetteer"
	"github.com/roamly/roamly/pkg/types"
)

func printLocations(cmd *cobra.Command, locs []types.Location) {
	t := newTable(cmd.OutOrStdout(), "SCOPE", "COUNTRY", "PROVINCE", "CITY", "COORDINATES")
	for _, l := range locs {
		t.row(orDash(l.ScopeLevel), orDash(l.CountryName), orDash(l.Province), orDash(l.City), coords(l))
	}
	t.flush()
}

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [query]",
		Short: "Suggest known places matching a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locs := gazetteer.Suggest(strings.Join(args, " "))
			if flags.jsonMode {
				return printJSON(cmd, locs)
			}
			if len(locs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No places found.")
				return nil
			}
			printLocations(cmd, locs)
			return nil
		},
	}
}

func newResolveCityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-city <name>",
		Short: "Resolve a city name to a full location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, ok := gazetteer.ResolveCity(args[0])
			if !ok {
				return fmt.Errorf("%w for city %q", errNoMatch, args[0])
			}
			if flags.jsonMode {
				return printJSON(cmd, loc)
			}
			printLocations(cmd, []types.Location{loc})
			return nil
		},
	}
}

func newCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the prefecture-level cities of China",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := gazetteer.ChinaCities()
			if flags.jsonMode {
				locs := make([]types.Location, len(entries))
				for i, e := range entries {
					locs[i] = e.Location()
				}
				return printJSON(cmd, locs)
			}
			t := newTable(cmd.OutOrStdout(), "CODE", "PROVINCE", "CITY", "FULL NAME")
			for _, e := range entries {
				t.row(e.Code, e.Province, e.City, e.FullCity)
			}
			t.flush()
			return nil
		},
	}
}
