package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/pq2csv/convert"
	"github.com/vegasq/pq2csv/output"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("pq2csv", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return Load(fs)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, convert.DefaultOptions(), cfg.Options)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.File)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := load(t,
		"-d", ";", "--no-header", "--columns", "b,a", "--null", "NA",
		"--bool2int", "--inf2nan", "--f64fmt", ".3f", "--encoding", "latin1",
		"--compress", "gzip", "--skip", "--verify", "-v",
	)
	require.NoError(t, err)

	opts := cfg.Options
	assert.Equal(t, ';', opts.Delimiter)
	assert.False(t, opts.Header)
	assert.Equal(t, []string{"b", "a"}, opts.Columns)
	assert.Equal(t, "NA", opts.Null)
	assert.True(t, opts.BoolAsInt)
	assert.True(t, opts.InfAsNull)
	assert.Equal(t, output.FloatFormat{Verb: 'f', Precision: 3}, opts.Float64)
	assert.True(t, opts.Float32.IsZero())
	assert.Equal(t, output.Latin1, opts.Encoding)
	assert.Equal(t, output.CodecGzip, opts.Compression)
	assert.True(t, opts.SkipExisting)
	assert.True(t, opts.Verify)
	assert.True(t, opts.ReportAll)
	assert.True(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeFile(t, "pq2csv.yaml", `
delimiter: "|"
null: "NA"
columns: [id, name]
no-header: true
`)

	t.Run("file values apply", func(t *testing.T) {
		cfg, err := load(t, "--config", path)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.File)
		assert.Equal(t, '|', cfg.Options.Delimiter)
		assert.Equal(t, "NA", cfg.Options.Null)
		assert.Equal(t, []string{"id", "name"}, cfg.Options.Columns)
		assert.False(t, cfg.Options.Header)
	})

	t.Run("flags win", func(t *testing.T) {
		cfg, err := load(t, "--config", path, "-d", ",", "--null", "")
		require.NoError(t, err)
		assert.Equal(t, ',', cfg.Options.Delimiter)
		assert.Equal(t, "", cfg.Options.Null)
		assert.Equal(t, []string{"id", "name"}, cfg.Options.Columns)
	})
}

func TestLoad_Schema(t *testing.T) {
	path := writeFile(t, "people.schema", "id long NOT NULL\nname varchar(20)\n")

	cfg, err := load(t, "--schema", path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Options.Schema)
	assert.Equal(t, []string{"id", "name"}, cfg.Options.Schema.Names())
}

func TestLoad_UsageErrors(t *testing.T) {
	badSchema := writeFile(t, "bad.schema", "id blob\n")

	tests := []struct {
		name string
		args []string
	}{
		{"multi-character delimiter", []string{"-d", ";;"}},
		{"quote delimiter", []string{"-d", `"`}},
		{"empty delimiter", []string{"-d", ""}},
		{"bad float format", []string{"--f32fmt", "x"}},
		{"bad encoding", []string{"--encoding", "ebcdic"}},
		{"bad codec", []string{"--compress", "rar"}},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "none.yaml")}},
		{"missing schema file", []string{"--schema", filepath.Join(t.TempDir(), "none.schema")}},
		{"unsupported schema type", []string{"--schema", badSchema}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, convert.ErrUsage)
			assert.Equal(t, convert.ExitUsage, convert.ExitCode(err))
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{",", ','},
		{";", ';'},
		{`\t`, '\t'},
		{"tab", '\t'},
		{"TAB", '\t'},
		{"\t", '\t'},
		{"|", '|'},
		{"§", '§'},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
