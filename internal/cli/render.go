package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bjaus/tabler"
	"github.com/bjaus/tabler/internal/manifest"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type renderOptions struct {
	schema      string
	config      string
	output      string
	inputFormat string
	key         string
	wide        bool
	pretty      bool
	strict      bool
	describe    bool
	verbose     bool
	fields      []string
	rename      map[string]string
	paths       map[string]string
	colors      map[string]string
	colorScope  string
	colorMode   string
	border      string
	logLevel    string
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render documents through a schema",
		Long: "Render reads JSON or YAML documents from the given files, or stdin,\n" +
			"and prints them as a table described by the --schema manifest.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.schema, "schema", "", "Schema manifest (YAML)")
	f.StringVar(&opts.config, "config", "", "Output config file (YAML)")
	f.StringVarP(&opts.output, "output", "o", "", "Output format: "+formatList()+" or go-template=<tmpl>")
	f.StringVar(&opts.inputFormat, "input-format", "auto", "Input format: auto, json or yaml")
	f.StringVar(&opts.key, "key", "", "Dot separated key of the record list inside each document")
	f.BoolVar(&opts.wide, "wide", false, "Include wide columns")
	f.BoolVar(&opts.pretty, "pretty", false, "Indent structured values")
	f.BoolVar(&opts.strict, "strict", false, "Fail when a path does not resolve")
	f.BoolVar(&opts.describe, "describe", false, "Print each record as attribute/value rows")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
	f.StringSliceVar(&opts.fields, "fields", nil, "Only show these fields (by name or header)")
	f.StringToStringVar(&opts.rename, "rename", nil, "Rename headers, FIELD=HEADER")
	f.StringToStringVar(&opts.paths, "path", nil, "Extract a path from a field, FIELD=PATH")
	f.StringToStringVar(&opts.colors, "color", nil, "Color rows by status, VALUE=COLOR")
	f.StringVar(&opts.colorScope, "color-scope", "", "What a status color paints: row or cell")
	f.StringVar(&opts.colorMode, "color-mode", "", "Emit colors: auto, always or never")
	f.StringVar(&opts.border, "border", "", "Table border: rounded, none, ascii, heavy or double")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func formatList() string {
	formats := tabler.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

func runRender(cmd *cobra.Command, opts *renderOptions, args []string) error {
	level, err := parseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd.Flags(), opts, cfg); err != nil {
		return err
	}
	cfg.Logger = logger

	m, err := loadManifest(opts.schema)
	if err != nil {
		return err
	}
	schema, err := m.Schema()
	if err != nil {
		return err
	}
	key := m.Key
	if cmd.Flags().Changed("key") {
		key = opts.key
	}

	records, err := readRecords(cmd.InOrStdin(), args, opts.inputFormat, key)
	if err != nil {
		return err
	}
	logger.Debug("decoded input", "records", len(records), "sources", max(len(args), 1))

	out := cmd.OutOrStdout()
	if opts.describe {
		return describe(out, records, schema, cfg)
	}
	return tabler.Render(out, schema, cfg, records...)
}

func loadConfig(path string) (*tabler.Config, error) {
	if path == "" {
		return &tabler.Config{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := tabler.LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func loadManifest(path string) (*manifest.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := manifest.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// applyFlags layers explicitly set flags over the config file.
func applyFlags(fs *pflag.FlagSet, opts *renderOptions, cfg *tabler.Config) error {
	if fs.Changed("output") {
		f, err := tabler.ParseFormat(opts.output)
		if err != nil {
			return err
		}
		cfg.Format = f
	}
	if fs.Changed("wide") {
		cfg.Wide = opts.wide
	}
	if fs.Changed("pretty") {
		cfg.Pretty = opts.pretty
	}
	if fs.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if fs.Changed("fields") {
		cfg.Fields = opts.fields
	}
	cfg.Rename = merge(cfg.Rename, opts.rename)
	cfg.Paths = merge(cfg.Paths, opts.paths)
	cfg.Colors = merge(cfg.Colors, opts.colors)
	if fs.Changed("color-scope") {
		scope, err := tabler.ParseColorScope(opts.colorScope)
		if err != nil {
			return err
		}
		cfg.ColorScope = scope
	}
	if fs.Changed("color-mode") {
		mode, err := tabler.ParseColorMode(opts.colorMode)
		if err != nil {
			return err
		}
		cfg.ColorMode = mode
	}
	if fs.Changed("border") {
		if err := cfg.Layout.Border.UnmarshalText([]byte(opts.border)); err != nil {
			return err
		}
	}
	return nil
}

func merge(base, over map[string]string) map[string]string {
	if len(over) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func readRecords(stdin io.Reader, args []string, format, key string) ([]tabler.Map, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	var docs []tabler.Value
	for _, name := range args {
		d, err := decodeFile(stdin, name, format)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d...)
	}
	return manifest.Records(docs, key)
}

func decodeFile(stdin io.Reader, name, format string) ([]tabler.Value, error) {
	if name == "-" {
		return manifest.Decode(stdin, format)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	docs, err := manifest.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return docs, nil
}

// describe projects every record before anything reaches w, so a failing
// record leaves no output behind.
func describe(w io.Writer, records []tabler.Map, schema *tabler.Schema[tabler.Map], cfg *tabler.Config) error {
	var buf bytes.Buffer
	for i, rec := range records {
		t, err := tabler.Describe(rec, schema, cfg)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		if err := tabler.Write(&buf, t); err != nil {
			return err
		}
	}
	_, err := buf.WriteTo(w)
	return err
}
