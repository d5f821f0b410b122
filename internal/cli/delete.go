package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Date string
	ID   int
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove one entry by date and id",
		Long: `Remove exactly one entry by its (date, id) key.

Deleting a key with no matching entry is a no-op, not an error.

Examples:
  timetrack delete --id 3
  timetrack delete --date 2026-03-02 --id 3`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", entry.FormatDate(time.Now()), "entry date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.ID, "id", 0, "entry id (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runDelete(opts *DeleteOptions, cmd *cobra.Command) error {
	if err := validDate(opts.Date); err != nil {
		return WrapExitError(ExitCommandError, "delete", err)
	}

	a, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}

	err = a.store.Delete(cmd.Context(), opts.Date, opts.ID)
	if a.busyAbandoned(cmd.OutOrStdout(), err) {
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "delete", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(map[string]any{"date": opts.Date, "id": opts.ID}, func(w io.Writer) {
		fmt.Fprintf(w, "deleted %s#%d\n", opts.Date, opts.ID)
	})
}
