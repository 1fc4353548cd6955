package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/vegasq/pq2csv/convert"
	"github.com/vegasq/pq2csv/internal/config"
	"github.com/vegasq/pq2csv/internal/logging"
)

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pq2csv [options] [infile [outfile]]",
		Short: "Convert a parquet file to CSV",
		Long: `pq2csv converts a parquet file to delimited text.

The table is read from infile, or from standard input when infile is
missing or '-'. The text is written to outfile, or to standard output when
outfile is missing or '-'. An outfile ending in .gz, .zst, .lz4 or .br is
compressed accordingly.

With --display and --schema but no infile, only the schema file is shown.
Use '-' as infile to display the table read from standard input.

Exit codes:
  0   success
  1   input not found, not parquet, or schema mismatch
  2   output could not be written or verified
  64  invalid option or unknown column`,
		Example: `  pq2csv data.parquet
  pq2csv data.parquet data.csv
  pq2csv -d ';' --columns id,name --null NA data.parquet data.csv
  cat data.parquet | pq2csv --no-header > data.csv
  pq2csv --schema data.schema --display data.parquet
  pq2csv --schema data.schema --display`,
		Version:       version,
		Args:          maxArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConvert,
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("pq2csv {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", convert.ErrUsage, err)
	})

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > n {
			return fmt.Errorf("%w: accepts at most %d arguments (infile, outfile), received %d", convert.ErrUsage, n, len(args))
		}
		return nil
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, cleanup := logging.SetupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.Debug)
	defer cleanup()
	if cfg.File != "" {
		logger.Debug("using config file", zap.String("path", cfg.File))
	}

	var input, outputPath string
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 && args[1] != "-" {
		outputPath = args[1]
	}

	if (input == "" || input == "-") && !convert.SchemaOnly(input, cfg.Options) && isTerminal(cmd.InOrStdin()) {
		return fmt.Errorf("%w: no infile given and standard input is a terminal", convert.ErrUsage)
	}

	conv := convert.New(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	res, err := conv.Convert(cmd.Context(), input, outputPath, cfg.Options)
	if err != nil {
		return err
	}

	if res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Skipped: '%s' already exists\n", outputPath)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
