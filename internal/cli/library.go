package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roamly/roamly/internal/app"
	"github.com/roamly/roamly/internal/library"
	"github.com/roamly/roamly/internal/sqlite"
	"github.com/roamly/roamly/internal/storage"
)

func newUploadCmd() *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Copy image files into the library and rescan",
		Long: `Upload copies files into a folder of the active library. Existing files are
never overwritten: a colliding name gets a numeric suffix (photo_1.jpg).`,
		Example: "  roamly upload --folder national/中国/四川 chengdu.png",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []library.Upload
			for _, p := range args {
				f, err := os.Open(p)
				if err != nil {
					return fmt.Errorf("open %s: %w", p, err)
				}
				defer f.Close()
				files = append(files, library.Upload{Name: filepath.Base(p), Reader: f})
			}

			return withApp(cmd, func(a *app.App) error {
				res, err := a.Library.SaveUploads(cmd.Context(), folder, files)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, res)
				}
				out := cmd.OutOrStdout()
				for _, p := range res.Paths {
					fmt.Fprintf(out, "Saved %s\n", p)
				}
				fmt.Fprintf(out, "Scanned %d map(s)\n", res.Scan.Scanned)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "library-relative target folder")
	return cmd
}

func newFoldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List the folders of the active library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				dirs, err := a.Library.Folders(cmd.Context())
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, dirs)
				}
				for _, d := range dirs {
					fmt.Fprintln(cmd.OutOrStdout(), d)
				}
				return nil
			})
		},
	}
}

func newMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Inspect the project sidecar",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "snapshot",
		Short: "Print every sidecar record of the active library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				snap, err := a.Library.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, snap)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Project: %s\n", snap.ProjectKey)
				st := a.Store.Status()
				fmt.Fprintf(out, "Cache:   %s\n", st.CacheFile)
				t := newTable(out, "PATH", "TITLE", "PLACE", "OCR")
				for _, rel := range sortedKeys(snap.Maps) {
					rec := snap.Maps[rel]
					t.row(rel, truncate(rec.Title, 30), truncate(place(rec.Location), 30), orDash(rec.OCRStatus))
				}
				t.flush()
				return nil
			})
		},
	})
	return cmd
}

func newFacetsCmd() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Count maps by scope, country, province and city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				ctx := cmd.Context()
				facets, err := a.Catalog.Facets(ctx, source)
				if err != nil {
					return err
				}
				china, err := a.Catalog.ChinaDistribution(ctx, source)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, map[string]any{"facets": facets, "china": china})
				}
				out := cmd.OutOrStdout()
				for _, group := range []struct {
					name   string
					counts []sqlite.FacetCount
				}{
					{"SCOPE", facets.Scope},
					{"COUNTRY", facets.Country},
					{"PROVINCE", facets.Province},
					{"CITY", facets.City},
					{"CHINA PROVINCE", china},
				} {
					t := newTable(out, group.name, "MAPS")
					for _, c := range group.counts {
						t.row(c.Value, fmt.Sprint(c.Count))
					}
					t.flush()
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "storage driver (local, webdav)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var source, out string
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write the catalog as JSON lines",
		Example: "  roamly export --source local --out maps.jsonl",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if out == "" {
					_, err := a.Catalog.Export(cmd.Context(), cmd.OutOrStdout(), source)
					return err
				}
				var buf bytes.Buffer
				n, err := a.Catalog.Export(cmd.Context(), &buf, source)
				if err != nil {
					return err
				}
				if err := storage.WriteFileAtomic(out, &buf); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d map(s) to %s\n", n, out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "storage driver (local, webdav)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: stdout)")
	return cmd
}
