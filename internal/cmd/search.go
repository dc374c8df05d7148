package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/harrison/grepline/internal/config"
	"github.com/harrison/grepline/internal/display"
	"github.com/harrison/grepline/internal/engine"
	"github.com/harrison/grepline/internal/history"
	"github.com/harrison/grepline/internal/logger"
	"github.com/harrison/grepline/internal/matcher"
	"github.com/harrison/grepline/internal/result"
	"github.com/harrison/grepline/internal/source"
)

// searchOptions holds every search flag. Config-file values back the
// flags whose defaults the user can persist; an explicitly set flag
// always wins.
type searchOptions struct {
	ignoreCase   bool
	invert       bool
	recursive    bool
	lineNumber   bool
	countOnly    bool
	wholeWord    bool
	fixedStrings bool
	withFilename bool

	maxCount int
	before   int
	after    int
	around   int

	followSymlinks bool
	binaryCheck    bool
	forceText      bool

	noColor    bool
	verbose    bool
	configPath string
}

func (o *searchOptions) register(flags *pflag.FlagSet) {
	flags.BoolVarP(&o.ignoreCase, "ignore-case", "i", false, "case-insensitive matching")
	flags.BoolVarP(&o.invert, "invert-match", "v", false, "select non-matching lines")
	flags.BoolVarP(&o.recursive, "recursive", "r", false, "search directories recursively")
	flags.BoolVarP(&o.lineNumber, "line-number", "n", false, "prefix output with 1-based line numbers")
	flags.BoolVarP(&o.countOnly, "count", "c", false, "print only a per-source match count")
	flags.BoolVarP(&o.wholeWord, "word-regexp", "w", false, "match whole words only")
	flags.BoolVarP(&o.fixedStrings, "fixed-strings", "F", false, "treat the pattern as a literal string")
	flags.BoolVarP(&o.withFilename, "with-filename", "H", false, "always print source names")

	flags.IntVarP(&o.maxCount, "max-count", "m", 0, "stop each source after this many matches (0 = unlimited)")
	flags.IntVarP(&o.before, "before-context", "B", 0, "lines of leading context")
	flags.IntVarP(&o.after, "after-context", "A", 0, "lines of trailing context")
	flags.IntVarP(&o.around, "context", "C", 0, "lines of leading and trailing context")

	flags.BoolVar(&o.followSymlinks, "follow-symlinks", false, "follow symbolic links when recursing")
	flags.BoolVar(&o.binaryCheck, "binary-check", true, "summarize binary sources instead of printing matches")
	flags.BoolVarP(&o.forceText, "text", "a", false, "treat every source as text, disabling binary detection")

	flags.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&o.verbose, "verbose", false, "enable debug diagnostics on stderr")
}

// summary renders the option set the way it is stored in run history.
func (o *searchOptions) summary() string {
	var parts []string
	add := func(on bool, flag string) {
		if on {
			parts = append(parts, flag)
		}
	}
	add(o.ignoreCase, "-i")
	add(o.invert, "-v")
	add(o.recursive, "-r")
	add(o.lineNumber, "-n")
	add(o.countOnly, "-c")
	add(o.wholeWord, "-w")
	add(o.fixedStrings, "-F")
	add(o.forceText, "-a")
	if o.maxCount > 0 {
		parts = append(parts, fmt.Sprintf("-m %d", o.maxCount))
	}
	if o.before > 0 {
		parts = append(parts, fmt.Sprintf("-B %d", o.before))
	}
	if o.after > 0 {
		parts = append(parts, fmt.Sprintf("-A %d", o.after))
	}
	return strings.Join(parts, " ")
}

func runSearch(cmd *cobra.Command, opts *searchOptions, pattern string, paths []string) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return &ExitError{Code: result.ExitError, Err: err}
	}

	logLevel := cfg.LogLevel
	if opts.verbose {
		logLevel = "debug"
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), logLevel)

	// A bad pattern is fatal before any scanning begins.
	m, err := matcher.Compile(pattern, matcher.Options{
		IgnoreCase:  opts.ignoreCase,
		WholeWord:   opts.wholeWord,
		FixedString: opts.fixedStrings,
	})
	if err != nil {
		return &ExitError{Code: result.ExitError, Err: err}
	}

	before, after := opts.before, opts.after
	if opts.around > 0 {
		if before == 0 {
			before = opts.around
		}
		if after == 0 {
			after = opts.around
		}
	}

	follow := opts.followSymlinks
	if !cmd.Flags().Changed("follow-symlinks") {
		follow = cfg.FollowSymlinks
	}
	binaryCheck := opts.binaryCheck
	if !cmd.Flags().Changed("binary-check") {
		binaryCheck = cfg.BinaryCheck
	}

	resolver := source.NewResolver(source.Options{
		Recursive:      opts.recursive,
		FollowSymlinks: follow,
	})
	if cmd.InOrStdin() != nil {
		resolver.WithStdin(cmd.InOrStdin())
	}

	printer := display.NewPrinter(cmd.OutOrStdout(), opts.noColor || cfg.NoColor)
	agg := result.NewAggregator(result.Options{
		Label:       opts.withFilename || opts.recursive || len(paths) > 1,
		LineNumbers: opts.lineNumber,
	}, printer)

	eng := engine.New(m, engine.Options{
		Invert:      opts.invert,
		MaxCount:    opts.maxCount,
		Before:      before,
		After:       after,
		CountOnly:   opts.countOnly,
		BinaryCheck: binaryCheck,
		ForceText:   opts.forceText,
	})

	ctx := cmd.Context()
	log.Debugf("searching %d path(s) for %q", max(len(paths), 1), pattern)
	eng.Run(ctx, resolver.Resolve(ctx, paths), agg)

	outcome := agg.Finalize()
	log.Debugf("run %s: %d match(es), %d error(s) across %d source(s) in %s",
		outcome.RunID, outcome.Matches, len(outcome.Errors), outcome.Sources, outcome.Duration)

	for _, srcErr := range outcome.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "grepline: %v\n", srcErr.Err)
	}

	if cfg.History.Enabled {
		if err := recordRun(cmd, cfg, outcome, pattern, opts.summary()); err != nil {
			log.Warnf("history not recorded: %v", err)
		}
	}

	if ctx.Err() != nil {
		return &ExitError{Code: result.ExitError, Err: ctx.Err()}
	}
	if code := outcome.ExitCode(); code != result.ExitMatch {
		return &ExitError{Code: code}
	}
	return nil
}

func recordRun(cmd *cobra.Command, cfg *config.Config, outcome *result.Outcome, pattern, flags string) error {
	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(cmd.Context(), outcome, pattern, flags)
}
