package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/roamly/roamly/pkg/types"
)

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// table buffers tab-separated rows and prints them aligned, trimming
// trailing whitespace from each line.
type table struct {
	out io.Writer
	sb  strings.Builder
	w   *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{out: out}
	t.w = tabwriter.NewWriter(&t.sb, 0, 0, 2, ' ', 0)
	if len(headers) > 0 {
		fmt.Fprintln(t.w, strings.Join(headers, "\t"))
		rule := make([]string, len(headers))
		for i, h := range headers {
			rule[i] = strings.Repeat("-", len(h))
		}
		fmt.Fprintln(t.w, strings.Join(rule, "\t"))
	}
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *table) flush() {
	t.w.Flush()
	for _, line := range strings.Split(strings.TrimRight(t.sb.String(), "\n"), "\n") {
		fmt.Fprintln(t.out, strings.TrimRight(line, " "))
	}
}

// truncate shortens s to n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 10 {
		return id[:10]
	}
	return id
}

// place renders a location as "country / province / city".
func place(loc types.Location) string {
	var parts []string
	for _, p := range []string{loc.CountryName, loc.Province, loc.City, loc.District} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " / ")
}

func coords(loc types.Location) string {
	if loc.Latitude == nil || loc.Longitude == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f, %.4f", *loc.Latitude, *loc.Longitude)
}

// printMap prints one map with its full details.
func printMap(out io.Writer, m types.MapRecord) {
	star := ""
	if m.Favorite {
		star = " *"
	}
	fmt.Fprintf(out, "ID:          %s%s\n", m.ID, star)
	fmt.Fprintf(out, "Title:       %s\n", orDash(m.Title))
	fmt.Fprintf(out, "File:        %s\n", m.FilePath)
	fmt.Fprintf(out, "Source:      %s\n", m.Source)
	if m.Width != nil && m.Height != nil {
		fmt.Fprintf(out, "Size:        %dx%d %s\n", *m.Width, *m.Height, m.Mime)
	} else {
		fmt.Fprintf(out, "Type:        %s\n", orDash(m.Mime))
	}
	fmt.Fprintf(out, "Scope:       %s\n", orDash(m.ScopeLevel))
	fmt.Fprintf(out, "Place:       %s\n", place(m.Location))
	fmt.Fprintf(out, "Coordinates: %s\n", coords(m.Location))
	fmt.Fprintf(out, "Year:        %s\n", orDash(m.YearLabel))
	fmt.Fprintf(out, "Collection:  %s\n", orDash(m.CollectionUnit))
	fmt.Fprintf(out, "Tags:        %s\n", orDash(strings.Join(m.Tags, ", ")))
	if m.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", m.Description)
	}
	fmt.Fprintf(out, "OCR:         %s\n", orDash(m.OCRStatus))
	if m.OCRError != "" {
		fmt.Fprintf(out, "OCR error:   %s\n", m.OCRError)
	}
	if m.OCRText != "" {
		fmt.Fprintf(out, "OCR text:    %s\n", truncate(m.OCRText, 200))
	}
	fmt.Fprintf(out, "Updated:     %s\n", m.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
