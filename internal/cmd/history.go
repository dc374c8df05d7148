package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/grepline/internal/config"
	"github.com/harrison/grepline/internal/history"
	"github.com/harrison/grepline/internal/result"
)

// NewHistoryCommand creates the history command group.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded search runs",
		Long: `List, export, or clear the run history recorded when history.enabled is
set in the config file.`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryExportCommand())
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

func openStore(cmd *cobra.Command) (*history.Store, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History.DBPath)
}

func newHistoryListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return &ExitError{Code: result.ExitError, Err: err}
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return &ExitError{Code: result.ExitError, Err: err}
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
				return nil
			}

			for _, r := range runs {
				flags := r.Flags
				if flags != "" {
					flags = " " + flags
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %q%s  %d match(es), %d error(s), %d source(s), %s\n",
					r.StartedAt.Local().Format(time.DateTime),
					r.Pattern, flags, r.Matches, r.Errors, r.Sources,
					time.Duration(r.DurationMS)*time.Millisecond)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of runs to list")
	return cmd
}

func newHistoryExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export the full history as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return &ExitError{Code: result.ExitError, Err: err}
			}
			defer store.Close()

			if err := store.Export(cmd.Context(), args[0]); err != nil {
				return &ExitError{Code: result.ExitError, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported history to %s\n", args[0])
			return nil
		},
	}
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return &ExitError{Code: result.ExitError, Err: err}
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return &ExitError{Code: result.ExitError, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d run(s)\n", removed)
			return nil
		},
	}
}
