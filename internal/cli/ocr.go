package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roamly/roamly/internal/app"
	"github.com/roamly/roamly/internal/library"
)

func newOCRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocr",
		Short: "Inspect and run text recognition",
	}
	cmd.AddCommand(newOCRStatusCmd(), newOCRQueueCmd(), newOCRRunCmd())
	return cmd
}

func printOCRStatus(out io.Writer, st library.OCRStatus) {
	fmt.Fprintf(out, "Enabled:    %t\n", st.Enabled)
	fmt.Fprintf(out, "Available:  %t\n", st.Available)
	fmt.Fprintf(out, "Language:   %s\n", st.Lang)
	if st.LastError != "" {
		fmt.Fprintf(out, "Last error: %s\n", st.LastError)
	}
	fmt.Fprintf(out, "Queue:      %d queued, %d processed, %d failed\n", st.Queue.Queued, st.Queue.Processed, st.Queue.Failed)

	statuses := make([]string, 0, len(st.Counts))
	for s := range st.Counts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	t := newTable(out, "STATUS", "MAPS")
	for _, s := range statuses {
		t.row(s, fmt.Sprint(st.Counts[s]))
	}
	t.flush()
}

func newOCRStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show recognizer availability and per-status counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				st, err := a.Library.OCRStatus(cmd.Context())
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, st)
				}
				printOCRStatus(cmd.OutOrStdout(), st)
				return nil
			})
		},
	}
}

// candidateFlags are shared by "ocr queue" and "ocr run".
type candidateFlags struct {
	force bool
	limit int
}

func (c *candidateFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&c.force, "force", false, "include maps already recognized")
	cmd.Flags().IntVar(&c.limit, "limit", 100, "maximum number of maps (max 6000)")
}

func newOCRQueueCmd() *cobra.Command {
	var c candidateFlags
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List the maps the next OCR run would process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				ids, err := a.Catalog.OCRCandidates(cmd.Context(), c.force, c.limit)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, map[string]any{"count": len(ids), "ids": ids})
				}
				out := cmd.OutOrStdout()
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				fmt.Fprintf(out, "%d map(s) pending recognition\n", len(ids))
				return nil
			})
		},
	}
	c.register(cmd)
	return cmd
}

func newOCRRunCmd() *cobra.Command {
	var c candidateFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Recognize pending maps and wait until the queue drains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				ctx := cmd.Context()
				if err := a.Library.StartOCR(ctx); err != nil {
					return err
				}
				defer a.Library.StopOCR()

				n, err := a.Library.QueueCandidates(ctx, c.force, c.limit)
				if err != nil {
					return err
				}
				if !flags.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "Recognizing %d map(s)...\n", n)
				}
				if err := a.Library.WaitOCR(ctx); err != nil {
					return err
				}

				st, err := a.Library.OCRStatus(ctx)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, st)
				}
				printOCRStatus(cmd.OutOrStdout(), st)
				return nil
			})
		},
	}
	c.register(cmd)
	return cmd
}
