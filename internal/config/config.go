// Package config merges command line flags with an optional YAML config
// file into conversion options.
//
// The config file uses the long flag names as keys:
//
//	delimiter: ";"
//	null: "NA"
//	columns: [id, name]
//	compress: gzip
//
// A flag given on the command line always wins over the file.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vegasq/pq2csv/convert"
	"github.com/vegasq/pq2csv/output"
	"github.com/vegasq/pq2csv/schema"
)

// Keys shared by flags and the config file.
const (
	KeyConfig    = "config"
	KeyDelimiter = "delimiter"
	KeyNoHeader  = "no-header"
	KeyColumns   = "columns"
	KeyNull      = "null"
	KeyBool2Int  = "bool2int"
	KeyInf2Nan   = "inf2nan"
	KeyF32Fmt    = "f32fmt"
	KeyF64Fmt    = "f64fmt"
	KeyEncoding  = "encoding"
	KeyCompress  = "compress"
	KeySchema    = "schema"
	KeyDisplay   = "display"
	KeySkip      = "skip"
	KeyVerify    = "verify"
	KeyVerbose   = "verbose"
	KeyDebug     = "debug"
)

// Config is the resolved invocation configuration.
type Config struct {
	Options convert.Options
	Verbose bool
	Debug   bool
	// File is the config file that was read, if any.
	File string
}

// RegisterFlags adds every option flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	defaults := convert.DefaultOptions()

	fs.StringP(KeyDelimiter, "d", string(defaults.Delimiter), "field delimiter, a single character ('\\t' or 'tab' for TAB)")
	fs.Bool(KeyNoHeader, false, "do not write the header line")
	fs.StringSlice(KeyColumns, nil, "comma separated columns to emit, in order (default all)")
	fs.String(KeyNull, defaults.Null, "string written for null values")
	fs.Bool(KeyBool2Int, false, "write booleans as 1 and 0")
	fs.Bool(KeyInf2Nan, false, "write +/-Inf floats as null")
	fs.String(KeyF32Fmt, "", "float32 format, e.g. '.7g' or 'f' (default shortest)")
	fs.String(KeyF64Fmt, "", "float64 format, e.g. '.15g' or '.3f' (default shortest)")
	fs.String(KeyEncoding, string(defaults.Encoding), "output encoding: utf-8, ascii or latin1")
	fs.String(KeyCompress, string(defaults.Compression), "output compression: auto, none, gzip, zstd, lz4 or brotli")
	fs.String(KeySchema, "", "schema file to verify the table against")
	fs.Bool(KeyDisplay, false, "print the schema conversion table")
	fs.Bool(KeySkip, false, "skip the conversion when outfile exists")
	fs.Bool(KeyVerify, false, "read outfile back and compare it with the table")
	fs.String(KeyConfig, "", "YAML config file with option defaults")
	fs.BoolP(KeyVerbose, "v", false, "report progress and every schema mismatch")
	fs.Bool(KeyDebug, false, "debug logging")
}

// Load resolves the options from fs and, when --config is given, from the
// config file. Every failure wraps convert.ErrUsage.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, usage(err)
	}

	cfg := &Config{}
	if file, _ := fs.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, usage(fmt.Errorf("config file '%s': %w", file, err))
		}
		cfg.File = v.ConfigFileUsed()
	}

	opts, err := options(v)
	if err != nil {
		return nil, err
	}
	cfg.Options = opts
	cfg.Verbose = v.GetBool(KeyVerbose)
	cfg.Debug = v.GetBool(KeyDebug)
	return cfg, nil
}

func options(v *viper.Viper) (convert.Options, error) {
	opts := convert.DefaultOptions()
	var err error

	if opts.Delimiter, err = ParseDelimiter(v.GetString(KeyDelimiter)); err != nil {
		return opts, usage(err)
	}
	opts.Header = !v.GetBool(KeyNoHeader)
	opts.Columns = splitColumns(v.GetStringSlice(KeyColumns))
	opts.Null = v.GetString(KeyNull)
	opts.BoolAsInt = v.GetBool(KeyBool2Int)
	opts.InfAsNull = v.GetBool(KeyInf2Nan)

	if opts.Float32, err = output.ParseFloatFormat(v.GetString(KeyF32Fmt)); err != nil {
		return opts, usage(fmt.Errorf("--%s: %w", KeyF32Fmt, err))
	}
	if opts.Float64, err = output.ParseFloatFormat(v.GetString(KeyF64Fmt)); err != nil {
		return opts, usage(fmt.Errorf("--%s: %w", KeyF64Fmt, err))
	}
	if opts.Encoding, err = output.ParseEncoding(v.GetString(KeyEncoding)); err != nil {
		return opts, usage(err)
	}
	if opts.Compression, err = output.ParseCodec(v.GetString(KeyCompress)); err != nil {
		return opts, usage(err)
	}

	if path := v.GetString(KeySchema); path != "" {
		if opts.Schema, err = schema.Load(path); err != nil {
			return opts, usage(err)
		}
	}

	opts.Display = v.GetBool(KeyDisplay)
	opts.SkipExisting = v.GetBool(KeySkip)
	opts.Verify = v.GetBool(KeyVerify)
	opts.ReportAll = v.GetBool(KeyVerbose)
	return opts, nil
}

// ParseDelimiter accepts a single character. "\t" and "tab" select TAB.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	case "":
		return 0, fmt.Errorf("delimiter must not be empty")
	}

	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}

// splitColumns flattens entries that themselves hold comma separated
// names, as happens with a plain string in the config file.
func splitColumns(entries []string) []string {
	var columns []string
	for _, entry := range entries {
		for _, name := range strings.Split(entry, ",") {
			if name = strings.TrimSpace(name); name != "" {
				columns = append(columns, name)
			}
		}
	}
	return columns
}

func usage(err error) error {
	return fmt.Errorf("%w: %w", convert.ErrUsage, err)
}
