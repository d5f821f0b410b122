package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// BackupOptions holds flags for the backup command.
type BackupOptions struct {
	*RootOptions
	Reason string
}

// NewBackupCommand creates the backup command.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BackupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the database file",
		Long: `Copy the live database file into the Backups directory.

One snapshot exists per day per reason; if today's snapshot for the
given reason already exists this is a no-op. Old snapshots beyond the
retention count are pruned afterwards.

Examples:
  timetrack backup
  timetrack backup --reason pre-upgrade`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Reason, "reason", "manual", "snapshot reason, part of the filename")

	return cmd
}

func runBackup(opts *BackupOptions, cmd *cobra.Command) error {
	a, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}

	if err := a.backups.BackupIfDue(opts.Reason); err != nil {
		return WrapExitError(ExitCommandError, "backup", err)
	}
	if err := a.backups.Prune(); err != nil {
		a.log.Warn().Err(err).Msg("backup pruning failed")
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(map[string]any{"reason": opts.Reason}, func(w io.Writer) {
		fmt.Fprintf(w, "backup (%s) up to date\n", opts.Reason)
	})
}
