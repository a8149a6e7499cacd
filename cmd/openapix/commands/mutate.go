package commands

import (
	"fmt"
	"strings"

	"github.com/erraggy/openapix/internal/cliutil"
	"github.com/erraggy/openapix/schema"
	"github.com/spf13/cobra"
)

func newSetCmd(opts *rootOptions) *cobra.Command {
	var (
		segments []string
		literal  bool
	)
	cmd := &cobra.Command{
		Use:   "set <spec|-> <path> <value>",
		Short: "Set the value at a dotted path",
		Long: "Set the value at a dotted path, creating intermediate mappings, and print the document. " +
			"The value is parsed as YAML, so 3 is a number and '{a: 1}' a mapping; use --string to keep it as text. " +
			"With --segment flags the path argument is omitted.",
		Example: strings.TrimSpace(`  openapix set openapi.yaml info.version 2.0.0 --string
  openapix set openapi.yaml info.x-owner '{team: pets, oncall: true}' -o openapi.out.yaml
  openapix set openapi.yaml --segment paths --segment /v1.0/health --segment get --segment summary "Health" --string`),
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path, raw string
			switch {
			case len(segments) > 0 && len(args) == 2:
				raw = args[1]
			case len(segments) == 0 && len(args) == 3:
				path, raw = args[1], args[2]
			default:
				return newUsageError("set requires <spec> <path> <value>, or <spec> <value> with --segment flags\n\n" + cmd.UsageString())
			}

			value, err := parseValue(raw, literal)
			if err != nil {
				return newUsageError(err.Error())
			}
			s, err := opts.loadSpec(cmd, args[0])
			if err != nil {
				return err
			}
			if err := s.SetIn(pathSegments(path, segments), value); err != nil {
				return err
			}
			return opts.writeDocument(cmd, s)
		},
	}
	cmd.Flags().StringArrayVar(&segments, "segment", nil, "Path segment (repeatable); use for keys that contain dots")
	cmd.Flags().BoolVar(&literal, "string", false, "Store the value as a string instead of parsing it as YAML")
	return cmd
}

func newInjectCmd(opts *rootOptions) *cobra.Command {
	var (
		sets     []string
		literals []string
	)
	cmd := &cobra.Command{
		Use:   "inject <spec|-> --set path=value...",
		Short: "Set several dotted paths at once",
		Long: "Apply path=value records in the order given and print the document. " +
			"Values given with --set are parsed as YAML; values given with --set-string are kept as text.",
		Example: `  openapix inject openapi.yaml --set info.x-stage=prod --set 'servers.0.url=https://api.example.com'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sets)+len(literals) == 0 {
				return newUsageError("inject requires at least one --set or --set-string\n\n" + cmd.UsageString())
			}
			records, err := parseRecords(sets, false)
			if err != nil {
				return err
			}
			textRecords, err := parseRecords(literals, true)
			if err != nil {
				return err
			}
			records = append(records, textRecords...)

			s, err := opts.loadSpec(cmd, args[0])
			if err != nil {
				return err
			}
			if err := s.Inject(records...); err != nil {
				return err
			}
			return opts.writeDocument(cmd, s)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "path=value record; value parsed as YAML (repeatable)")
	cmd.Flags().StringArrayVar(&literals, "set-string", nil, "path=value record; value kept as a string (repeatable)")
	return cmd
}

// parseRecords splits path=value pairs into records.
func parseRecords(pairs []string, literal bool) ([]schema.Record, error) {
	records := make([]schema.Record, 0, len(pairs))
	for _, pair := range pairs {
		path, raw, ok := strings.Cut(pair, "=")
		if !ok || path == "" {
			return nil, newUsageError(fmt.Sprintf("invalid record %q: expected path=value", pair))
		}
		value, err := parseValue(raw, literal)
		if err != nil {
			return nil, newUsageError(err.Error())
		}
		records = append(records, schema.Record{Path: path, Value: value})
	}
	return records, nil
}

func newRejectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "reject <spec|-> <path>...",
		Short:   "Remove the values at dotted paths",
		Long:    "Remove the values at the given dotted paths and print the document. Missing paths are ignored.",
		Example: `  openapix reject openapi.yaml paths./internal info.x-draft`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSpec(cmd, args[0])
			if err != nil {
				return err
			}
			removed := s.Reject(args[1:]...)
			opts.infof(cmd, "Removed %d of %d paths\n", removed, len(args)-1)
			return opts.writeDocument(cmd, s)
		},
	}
}

func newRejectDeepCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "reject-deep <spec|-> <name>...",
		Short:   "Remove keys with the given names at any depth",
		Long:    "Remove every mapping key with one of the given names, wherever it appears, and print the document.",
		Example: `  openapix reject-deep openapi.yaml example x-internal`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSpec(cmd, args[0])
			if err != nil {
				return err
			}
			removed := s.RejectDeep(args[1:]...)
			opts.infof(cmd, "Removed %s\n", cliutil.Count(removed, "key", "keys"))
			return opts.writeDocument(cmd, s)
		},
	}
}
