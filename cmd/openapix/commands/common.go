package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/erraggy/openapix/internal/cliutil"
	"github.com/erraggy/openapix/internal/fileutil"
	"github.com/erraggy/openapix/schema"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	output  string
	format  string
	quiet   bool
	verbose bool
}

func (o *rootOptions) validate() error {
	if o.quiet && o.verbose {
		return newUsageError("--quiet and --verbose cannot be combined")
	}
	if o.format != "" && schema.ParseFormat(o.format) == schema.SourceFormatUnknown {
		return newUsageError(fmt.Sprintf("invalid format %q. Valid formats: yaml, json", o.format))
	}
	return nil
}

// outputFormat returns the --format value, or SourceFormatUnknown when unset.
func (o *rootOptions) outputFormat() schema.SourceFormat {
	if o.format == "" {
		return schema.SourceFormatUnknown
	}
	return schema.ParseFormat(o.format)
}

// logger returns the diagnostic logger: nothing when quiet, debug level
// when verbose, warnings otherwise.
func (o *rootOptions) logger(cmd *cobra.Command) schema.Logger {
	if o.quiet {
		return schema.NopLogger{}
	}
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return schema.NewSlogAdapter(slog.New(handler))
}

// loadSpec loads the document at specPath, or from stdin for "-".
func (o *rootOptions) loadSpec(cmd *cobra.Command, specPath string) (*schema.Schema, error) {
	opts := []schema.Option{schema.WithLogger(o.logger(cmd))}
	if f := o.outputFormat(); f != schema.SourceFormatUnknown {
		opts = append(opts, schema.WithFormat(f))
	}
	if specPath == StdinFilePath {
		opts = append(opts, schema.WithSourceName(FormatSpecPath(specPath)))
		return schema.FromReader(cmd.InOrStdin(), opts...)
	}
	return schema.FromAsset(specPath, opts...)
}

// writeDocument renders s in its output format to --output or stdout.
func (o *rootOptions) writeDocument(cmd *cobra.Command, s *schema.Schema) error {
	data, err := s.Marshal(schema.SourceFormatUnknown)
	if err != nil {
		return err
	}
	return o.emit(cmd, data)
}

// emit writes data to --output, or to stdout when no output file is set.
func (o *rootOptions) emit(cmd *cobra.Command, data []byte) error {
	if o.output == "" || o.output == StdinFilePath {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := fileutil.WriteFile(o.output, data); err != nil {
		return err
	}
	o.infof(cmd, "Wrote %s\n", o.output)
	return nil
}

// infof writes a diagnostic line to stderr unless --quiet is set.
func (o *rootOptions) infof(cmd *cobra.Command, format string, args ...any) {
	if !o.quiet {
		cliutil.Writef(cmd.ErrOrStderr(), format, args...)
	}
}

// FormatSpecPath returns a display-friendly path for the specification.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// parseValue parses a command-line value as YAML, so "3" is a number,
// "true" a boolean and "{a: 1}" a mapping. literal keeps raw as a string.
func parseValue(raw string, literal bool) (any, error) {
	if literal || strings.TrimSpace(raw) == "" {
		return raw, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", raw, err)
	}
	if len(doc.Content) == 0 {
		return raw, nil
	}
	return &doc, nil
}

// pathSegments returns explicit segments when given, else splits path.
func pathSegments(path string, segments []string) []string {
	if len(segments) > 0 {
		return segments
	}
	return schema.SplitPath(path)
}
