package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"primenum/internal/platform/logger"
	"primenum/internal/primes/factor"
	"primenum/internal/primes/registry"
	"primenum/internal/primes/store/file"
	"primenum/pkg/platform/sentinel"
)

type options struct {
	exponents bool
	load      []string
	verbose   bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

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
		Use:   "pfactor [-e] [-l PATH] VALUE [VALUE ...]",
		Short: "Print the prime factors of each value",
		Long: `Factors each value by trial division and prints one line per value.

Example:
  pfactor 360       # 360: 2 2 2 3 3 5
  pfactor -e 360    # 360: 2^3 3^2 5`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			log := logger.NewWithWriter(stderr, levelFor(opts.verbose), "text")
			return run(opts, args, stdout, log)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.BoolVarP(&opts.exponents, "exponents", "e", false, "display repeated factors using exponential notation")
	flags.StringArrayVarP(&opts.load, "load", "l", nil, "load known primes from `PATH`")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	return cmd
}

func run(opts options, args []string, stdout io.Writer, log *slog.Logger) error {
	values := make([]uint64, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("%q is not a non-negative integer: %w", arg, sentinel.ErrInvalidInput)
		}
		values = append(values, v)
	}

	reg, err := registry.New(true)
	if err != nil {
		return err
	}
	for _, path := range opts.load {
		n, err := file.Load(reg, path)
		if err != nil {
			return err
		}
		log.Info("primes loaded", "path", path, "loaded", n, "size", reg.Len())
	}

	for _, v := range values {
		factors, err := factor.Factorize(reg, v, factor.WithObserver(func(remaining uint64) {
			log.Debug("dividing", "value", v, "remaining", remaining)
		}))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, formatLine(v, factors, opts.exponents))
	}
	return nil
}

func levelFor(verbose bool) string {
	if verbose {
		return "debug"
	}
	return "warn"
}
