package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Date string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a day's entries",
		Long: `Show all entries for a date in display order: start time
ascending (entries without times last), then end time, then id.

Examples:
  timetrack list
  timetrack list --date 2026-03-02 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", entry.FormatDate(time.Now()), "date to list (YYYY-MM-DD)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	if err := validDate(opts.Date); err != nil {
		return WrapExitError(ExitCommandError, "list", err)
	}

	a, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}

	entries, err := a.store.Retrieve(cmd.Context(), opts.Date)
	if err != nil {
		return WrapExitError(ExitCommandError, "list", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(entries, func(w io.Writer) {
		writeEntryTable(w, opts.Date, entries)
	})
}

// writeEntryTable renders a day's entries as a fixed-width text table.
func writeEntryTable(w io.Writer, date string, entries []entry.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "no entries for %s\n", date)
		return
	}
	fmt.Fprintf(w, "%3s  %-8s  %-8s  %-12s  %-3s  %s\n", "ID", "START", "END", "TICKET", "REC", "NOTES")
	for i := range entries {
		e := &entries[i]
		rec := ""
		if e.Recorded {
			rec = "yes"
		}
		line := fmt.Sprintf("%3d  %-8s  %-8s  %-12s  %-3s  %s",
			e.ID, formatTime(e.Start), formatTime(e.End), e.Ticket, rec, e.Notes)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
