package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roamly/roamly/internal/app"
	"github.com/roamly/roamly/internal/library"
	"github.com/roamly/roamly/internal/sqlite"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the active library into the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				res, err := a.Rescan(cmd.Context())
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d map(s) from %s, removed %d, pruned %d sidecar record(s)\n",
					res.Scanned, res.Source, res.Removed, res.Pruned)
				return nil
			})
		},
	}
}

func newListCmd() *cobra.Command {
	var q sqlite.ListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List maps with optional filters",
		Long: `List pages through the catalog, favorites first, newest first.

Filter values "unknown", "未知" and "未设置" match maps where the field is blank.
Country "全球" also matches international maps and maps without a country.`,
		Example: `  roamly list --country 中国 --province 四川
  roamly list -q 地铁 --limit 50
  roamly list --favorite --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				res, err := a.Catalog.List(cmd.Context(), q)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, res)
				}
				out := cmd.OutOrStdout()
				if len(res.Items) == 0 {
					fmt.Fprintln(out, "No maps found.")
					return nil
				}
				t := newTable(out, "ID", "TITLE", "PLACE", "OCR", "FAV")
				for _, m := range res.Items {
					fav := ""
					if m.Favorite {
						fav = "*"
					}
					t.row(shortID(m.ID), truncate(m.Title, 40), truncate(place(m.Location), 30), orDash(m.OCRStatus), fav)
				}
				t.flush()
				fmt.Fprintf(out, "Page %d, %d of %d map(s)\n", res.Page, len(res.Items), res.Total)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&q.Query, "query", "q", "", "search title, file name, place and OCR text")
	f.StringVar(&q.Scope, "scope", "", "scope level (national, international, unknown)")
	f.StringVar(&q.Country, "country", "", "country name or code")
	f.StringVar(&q.Province, "province", "", "province")
	f.StringVar(&q.City, "city", "", "city")
	f.StringVar(&q.Source, "source", "", "storage driver (local, webdav)")
	f.StringVar(&q.Tag, "tag", "", "tag")
	f.BoolVar(&q.FavoriteOnly, "favorite", false, "favorites only")
	f.IntVar(&q.Page, "page", 1, "page number")
	f.IntVar(&q.Limit, "limit", sqlite.DefaultPageSize, "maps per page (max 120)")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a map with full details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				m, err := a.Library.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, m)
				}
				printMap(cmd.OutOrStdout(), m)
				return nil
			})
		},
	}
}

// parseCoordinate reads a --lat/--lon value. "none" clears the field.
func parseCoordinate(s string) (library.Coordinate, error) {
	if strings.EqualFold(strings.TrimSpace(s), "none") || strings.TrimSpace(s) == "" {
		return library.Coordinate{Set: true}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return library.Coordinate{}, fmt.Errorf("%w: coordinate %q", errUsage, s)
	}
	return library.Coordinate{Set: true, Value: &v}, nil
}

// splitTags splits a comma-separated tag list, dropping blanks.
func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func newEditCmd() *cobra.Command {
	var (
		text      = map[string]*string{}
		tags      string
		lat, lon  string
		noResolve bool
	)
	fields := []struct{ name, usage string }{
		{"title", "title"},
		{"description", "description"},
		{"collection", "collecting institution"},
		{"year", "year label"},
		{"scope", "scope level (national, international)"},
		{"country-code", "country code"},
		{"country", "country name"},
		{"province", "province"},
		{"city", "city; resolved through the gazetteer unless --no-resolve"},
		{"district", "district"},
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a map's metadata",
		Long: `Edit changes only the fields given. The result is written to the catalog and
mirrored to the project sidecar. A known city fills the province, country and
coordinates the map does not already have.`,
		Example: `  roamly edit 3f2a9c --title "成都市地图" --city 成都
  roamly edit 3f2a9c --tags "地铁,交通" --lat none --lon none`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edit := library.MetaEdit{}
			changed := func(name string) *string {
				if cmd.Flags().Changed(name) {
					return text[name]
				}
				return nil
			}
			edit.Title = changed("title")
			edit.Description = changed("description")
			edit.CollectionUnit = changed("collection")
			edit.YearLabel = changed("year")
			edit.ScopeLevel = changed("scope")
			edit.CountryCode = changed("country-code")
			edit.CountryName = changed("country")
			edit.Province = changed("province")
			edit.City = changed("city")
			edit.District = changed("district")
			if cmd.Flags().Changed("tags") {
				t := splitTags(tags)
				edit.Tags = &t
			}
			var err error
			if cmd.Flags().Changed("lat") {
				if edit.Latitude, err = parseCoordinate(lat); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("lon") {
				if edit.Longitude, err = parseCoordinate(lon); err != nil {
					return err
				}
			}
			if noResolve {
				f := false
				edit.AutoResolveCity = &f
			}

			return withApp(cmd, func(a *app.App) error {
				m, err := a.Library.UpdateMeta(cmd.Context(), args[0], edit)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, m)
				}
				printMap(cmd.OutOrStdout(), m)
				return nil
			})
		},
	}
	for _, f := range fields {
		text[f.name] = new(string)
		cmd.Flags().StringVar(text[f.name], f.name, "", f.usage)
	}
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags, replacing the current ones")
	cmd.Flags().StringVar(&lat, "lat", "", `latitude, or "none" to clear`)
	cmd.Flags().StringVar(&lon, "lon", "", `longitude, or "none" to clear`)
	cmd.Flags().BoolVar(&noResolve, "no-resolve", false, "do not look the city up in the gazetteer")
	return cmd
}

func newFavoriteCmd() *cobra.Command {
	var set string
	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle or set a map's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value *bool
			if cmd.Flags().Changed("set") {
				b, err := strconv.ParseBool(set)
				if err != nil {
					return fmt.Errorf("%w: --set %q", errUsage, set)
				}
				value = &b
			}
			return withApp(cmd, func(a *app.App) error {
				m, err := a.Library.SetFavorite(cmd.Context(), args[0], value)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, map[string]any{"id": m.ID, "favorite": m.Favorite})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s favorite: %t\n", m.ID, m.Favorite)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&set, "set", "", "true or false; toggles when omitted")
	return cmd
}
