// Package cmd wires the search pipeline to the command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/grepline/internal/result"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ExitError carries the process exit code for outcomes that cobra would
// otherwise flatten to success/failure. A nil Err means the code itself is
// the whole message (e.g. "no matches" exits 1 silently).
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewRootCommand creates the root cobra command. The root command itself
// runs the search; history inspection lives in a subcommand.
func NewRootCommand() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "grepline [flags] PATTERN [PATH...]",
		Short: "Line-oriented pattern search across files and streams",
		Long: `grepline searches the given paths for lines matching PATTERN and prints
each matching line. With no paths (or the path "-") it reads standard
input. Directories are searched when -r is given.

The pattern is a regular expression unless -F selects literal matching.

Exit status is 0 when any line matched, 1 when none did, and 2 when any
input could not be read (even if other inputs matched).`,
		Version:       Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args[0], args[1:])
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: user config dir)")
	opts.register(cmd.Flags())

	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// Execute runs the root command and maps the result onto the exit-status
// contract: 0 matches, 1 no matches, 2 errors (including usage errors).
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	err := root.ExecuteContext(ctx)
	if err == nil {
		return result.ExitMatch
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "grepline: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}

	fmt.Fprintf(os.Stderr, "grepline: %v\n", err)
	return result.ExitError
}
