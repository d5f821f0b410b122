package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Date string
}

// ReportResult is the report payload for JSON output.
type ReportResult struct {
	Date          string        `json:"date"`
	Entries       []entry.Entry `json:"entries"`
	BillableHours float64       `json:"billable_hours"`
	GapMinutes    float64       `json:"gap_minutes"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a day",
		Long: `Summarize a day's entries: the ordered table plus billable
hours (ticketed time, rounded to two decimals) and gap minutes
(unticketed time, lunch excluded).

Examples:
  timetrack report
  timetrack report --date 2026-03-02`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", entry.FormatDate(time.Now()), "date to report (YYYY-MM-DD)")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	if err := validDate(opts.Date); err != nil {
		return WrapExitError(ExitCommandError, "report", err)
	}

	a, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}

	entries, err := a.store.Retrieve(cmd.Context(), opts.Date)
	if err != nil {
		return WrapExitError(ExitCommandError, "report", err)
	}

	totals := entry.ComputeTotals(entries)
	result := ReportResult{
		Date:          opts.Date,
		Entries:       entries,
		BillableHours: totals.BillableHours,
		GapMinutes:    totals.GapMinutes,
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(result, func(w io.Writer) {
		writeReport(w, result)
	})
}

// writeReport renders the text form of a day report.
func writeReport(w io.Writer, r ReportResult) {
	fmt.Fprintf(w, "Date: %s\n\n", r.Date)
	writeEntryTable(w, r.Date, r.Entries)
	fmt.Fprintf(w, "\nBillable hours: %s\n", strconv.FormatFloat(r.BillableHours, 'f', 2, 64))
	fmt.Fprintf(w, "Gap minutes:    %s\n", strconv.FormatFloat(r.GapMinutes, 'f', -1, 64))
}
