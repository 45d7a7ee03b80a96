package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"primenum/internal/platform/logger"
	"primenum/internal/primes/registry"
	"primenum/internal/primes/sieve"
	"primenum/internal/primes/store/file"
	"primenum/pkg/platform/sentinel"
)

type options struct {
	dump    string
	load    []string
	max     uint64
	count   uint64
	verbose bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command and maps its outcome to an exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return sentinel.ExitOK
	}
	code := sentinel.ExitCode(err)
	fmt.Fprintln(stderr, sentinel.Describe(err))
	if code == sentinel.ExitUsage {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "primes [-d PATH] [-l PATH] [-m MAX | -n NUM]",
		Short: "Print prime numbers found by trial division",
		Long: `Prints prime numbers in ascending order, starting from the single-digit
primes and any loaded from disk, until the stop condition is reached or the
64-bit integer range is exhausted.

Example:
  primes -m 100          # primes up to 100
  primes -n 1000 -d p.bin  # first 1000 primes, saved to p.bin`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stop := sieve.Never()
			if cmd.Flags().Changed("max") {
				stop = sieve.AtValue(opts.max)
			}
			if cmd.Flags().Changed("count") {
				stop = sieve.AtCount(opts.count)
			}
			log := logger.NewWithWriter(stderr, levelFor(opts.verbose), "text")
			return run(opts, stop, stdout, stderr, log)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.dump, "dump", "d", "", "dump found primes to `PATH` (implies -l PATH)")
	flags.StringArrayVarP(&opts.load, "load", "l", nil, "load previously found primes from `PATH`")
	flags.Uint64VarP(&opts.max, "max", "m", 0, "stop after reaching the specified maximum value")
	flags.Uint64VarP(&opts.count, "count", "n", 0, "stop after finding the specified number of primes")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	cmd.MarkFlagsMutuallyExclusive("max", "count")
	return cmd
}

func run(opts options, stop sieve.StopPolicy, stdout, stderr io.Writer, log *slog.Logger) error {
	reg, err := registry.New(true)
	if err != nil {
		return err
	}

	for _, path := range opts.load {
		if err := load(reg, path, false, log); err != nil {
			return err
		}
	}
	if opts.dump != "" {
		if err := load(reg, opts.dump, true, log); err != nil {
			return err
		}
	}

	observers := []sieve.FoundObserver{}
	if opts.dump != "" {
		f, err := file.Create(opts.dump)
		if err != nil {
			return err
		}
		defer f.Close()
		observers = append(observers, file.NewWriter(f))
	}
	observers = append(observers, printer(stdout))
	found := sieve.Observers(observers...)

	// Everything already known is written and printed before the search.
	for value := range reg.All() {
		if err := found.Found(value); err != nil {
			return err
		}
	}

	stats, err := sieve.Run(reg, stop, found)
	log.Info("sieve finished",
		"stop", stop.String(),
		"tested", stats.Tested,
		"found", stats.Found,
		"status", sentinel.Status(err),
	)
	if errors.Is(err, sentinel.ErrOverflow) {
		// Running out of integers is the natural end of an unbounded run.
		fmt.Fprintln(stderr, sentinel.Describe(err))
		return nil
	}
	return err
}

// load reads path into reg. A missing dump file is the normal first run.
func load(reg *registry.Registry, path string, missingOK bool, log *slog.Logger) error {
	n, err := file.Load(reg, path)
	if err != nil {
		if missingOK && errors.Is(err, fs.ErrNotExist) {
			log.Debug("no primes file yet", "path", path)
			return nil
		}
		return err
	}
	log.Info("primes loaded", "path", path, "loaded", n, "size", reg.Len())
	return nil
}

func printer(w io.Writer) sieve.FoundObserver {
	return sieve.FoundFunc(func(value uint64) error {
		if _, err := fmt.Fprintln(w, value); err != nil {
			return fmt.Errorf("print %d: %v: %w", value, err, sentinel.ErrStorageExhausted)
		}
		return nil
	})
}

func levelFor(verbose bool) string {
	if verbose {
		return "debug"
	}
	return "warn"
}
