package commands

import (
	"fmt"
	"strings"

	"github.com/erraggy/openapix/internal/cliutil"
	"github.com/erraggy/openapix/schema"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	var (
		segments []string
		keys     bool
	)
	cmd := &cobra.Command{
		Use:   "get <spec|-> [path]",
		Short: "Print the value at a dotted path",
		Long: "Print the value at a dotted path such as info.title or paths./pets.get. " +
			"Scalars are printed as is; mappings and sequences are rendered as YAML, or JSON with --format json. " +
			"Exits with status 1 when the path does not exist.",
		Example: strings.TrimSpace(`  openapix get openapi.yaml info.title
  openapix get -f json openapi.yaml paths./pets.get
  openapix get openapi.yaml --segment paths --segment /v1.0/users --keys
  cat openapi.json | openapix get - openapi`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSpec(cmd, args[0])
			if err != nil {
				return err
			}
			var path string
			if len(args) > 1 {
				path = args[1]
			}
			segs := pathSegments(path, segments)

			if keys {
				if !s.HasIn(segs...) {
					return notFound(cmd, opts, segs)
				}
				list := s.KeysIn(segs...)
				if list == nil {
					return fmt.Errorf("value at %q is not a mapping", schema.JoinPath(segs...))
				}
				for _, k := range list {
					cliutil.Writef(cmd.OutOrStdout(), "%s\n", k)
				}
				return nil
			}

			node, ok := s.NodeIn(segs...)
			if !ok {
				return notFound(cmd, opts, segs)
			}
			if node.Kind == yaml.ScalarNode {
				v, _ := s.GetIn(segs...)
				if v == nil {
					cliutil.Writef(cmd.OutOrStdout(), "null\n")
				} else {
					cliutil.Writef(cmd.OutOrStdout(), "%v\n", v)
				}
				return nil
			}

			format := opts.outputFormat()
			if format == schema.SourceFormatUnknown {
				format = schema.SourceFormatYAML
			}
			data, _, err := s.MarshalIn(format, segs...)
			if err != nil {
				return err
			}
			if format == schema.SourceFormatJSON {
				data = append(data, '\n')
			}
			return opts.emit(cmd, data)
		},
	}
	cmd.Flags().StringArrayVar(&segments, "segment", nil, "Path segment (repeatable); use for keys that contain dots")
	cmd.Flags().BoolVar(&keys, "keys", false, "Print the keys of the mapping at the path, one per line")
	return cmd
}

func newHasCmd(opts *rootOptions) *cobra.Command {
	var segments []string
	cmd := &cobra.Command{
		Use:   "has <spec|-> <path>",
		Short: "Report whether a dotted path exists",
		Long:  "Print true or false depending on whether the path exists. Exits with status 1 when it does not.",
		Example: strings.TrimSpace(`  openapix has openapi.yaml components.securitySchemes.api_key
  openapix has -q openapi.yaml paths./pets.options || echo "no preflight"`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSpec(cmd, args[0])
			if err != nil {
				return err
			}
			var path string
			if len(args) > 1 {
				path = args[1]
			}
			found := s.HasIn(pathSegments(path, segments)...)
			if !opts.quiet {
				cliutil.Writef(cmd.OutOrStdout(), "%t\n", found)
			}
			if !found {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&segments, "segment", nil, "Path segment (repeatable); use for keys that contain dots")
	return cmd
}

// notFound reports a missing path on stderr and ends with status 1.
func notFound(cmd *cobra.Command, opts *rootOptions, segs []string) error {
	opts.infof(cmd, "path not found: %s\n", schema.JoinPath(segs...))
	return &ExitError{Code: 1}
}
