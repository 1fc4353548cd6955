// Package main is the entry point for the pq2csv CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vegasq/pq2csv/convert"
	"github.com/vegasq/pq2csv/schema"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args on a nil slice
		args = []string{}
	}
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(stderr, err)
		return convert.ExitCode(err)
	}
	return convert.ExitOK
}

// printError writes the error and, when there is one, a hint line.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var colErr *convert.ColumnNotFoundError
	switch {
	case errors.As(err, &colErr):
		fmt.Fprintln(w, colErr.Hint())
	case errors.Is(err, convert.ErrInputNotFound):
		fmt.Fprintln(w, "Please check the file path and try again.")
	case errors.Is(err, schema.ErrInvalid):
		fmt.Fprintf(w, "Supported types: %s\n", schema.SupportedTypes())
	case errors.Is(err, convert.ErrUsage):
		fmt.Fprintln(w, "Run 'pq2csv --help' for usage.")
	}
}
