package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Date   string
	Start  string
	End    string
	Ticket string
	Notes  string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a time entry",
		Long: `Log one time entry for a date.

Start and end accept free-form time text: "900", "9:00a", "1730",
"5:30PM". Times without AM/PM are interpreted against the configured
work window. An end at or before the start is stored as given: equal
times are a zero-duration entry, an earlier end spans midnight.

Examples:
  timetrack add --start 900 --end 1015 --ticket CASE-42
  timetrack add --date 2026-03-02 --start 12:00 --end 1:00pm --notes lunch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", entry.FormatDate(time.Now()), "entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start time (required)")
	cmd.Flags().StringVar(&opts.End, "end", "", "end time (required)")
	cmd.Flags().StringVar(&opts.Ticket, "ticket", "", "case/ticket label")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "free-text notes")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	if err := validDate(opts.Date); err != nil {
		return WrapExitError(ExitCommandError, "add", err)
	}
	if len(opts.Ticket) > entry.TicketMaxLen {
		return WrapExitError(ExitCommandError, "add",
			fmt.Errorf("ticket exceeds %d characters", entry.TicketMaxLen))
	}

	a, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}

	start, err := a.parser.Parse(opts.Start)
	if err != nil {
		return WrapExitError(ExitCommandError, "add",
			fmt.Errorf("unrecognized start time %q", opts.Start))
	}
	end, err := a.parser.Parse(opts.End)
	if err != nil {
		return WrapExitError(ExitCommandError, "add",
			fmt.Errorf("unrecognized end time %q", opts.End))
	}

	ctx := cmd.Context()
	maxID, err := a.store.CurrentMaxID(ctx, opts.Date)
	if err != nil {
		return WrapExitError(ExitCommandError, "add", err)
	}

	rec := entry.Entry{
		Date:   opts.Date,
		ID:     maxID + 1,
		Start:  &start,
		End:    &end,
		Ticket: opts.Ticket,
		Notes:  opts.Notes,
	}
	err = a.store.UpsertBatch(ctx, []entry.Entry{rec})
	if a.busyAbandoned(cmd.OutOrStdout(), err) {
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "add", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(rec, func(w io.Writer) {
		fmt.Fprintf(w, "added %s#%d  %s - %s\n", rec.Date, rec.ID, start.Clock12(), end.Clock12())
	})
}
