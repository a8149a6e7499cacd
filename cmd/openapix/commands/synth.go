package commands

import (
	"fmt"
	"strings"

	"github.com/erraggy/openapix/apigw"
	"github.com/erraggy/openapix/internal/apiconfig"
	"github.com/spf13/cobra"
)

func newSynthCmd(opts *rootOptions) *cobra.Command {
	var (
		configPath string
		vars       []string
		noTemplate bool
	)
	cmd := &cobra.Command{
		Use:   "synth <spec|-> --config <api.yaml>",
		Short: "Add API Gateway extensions from an API configuration file",
		Long: "Add Amazon API Gateway extensions (integrations, CORS preflight operations, request validators, " +
			"authorizers, binary media types, API key source) to the document and print it.\n\n" +
			"The configuration file is YAML or JSON. It is rendered as a Go template with sprig functions first, " +
			"so it can use {{ env \"NAME\" }}, {{ .name | default \"x\" }} and variables given with --var.",
		Example: strings.TrimSpace(`  openapix synth openapi.yaml --config api.yaml -o openapi.apigw.yaml
  openapix synth openapi.yaml --config api.yaml --var functionArn=arn:aws:lambda:us-east-1:123456789012:function:pets`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return newUsageError("synth requires --config\n\n" + cmd.UsageString())
			}
			loadOpts, err := configOptions(vars, noTemplate)
			if err != nil {
				return err
			}
			config, err := apiconfig.Load(configPath, loadOpts...)
			if err != nil {
				return err
			}
			props, err := config.Props()
			if err != nil {
				return err
			}

			s, err := opts.loadSpec(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := apigw.Synthesize(s, props)
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				opts.infof(cmd, "Warning: %s\n", w)
			}
			opts.infof(cmd, "Integrations: %d, CORS operations: %d, validators: %d, authorizers: %d, rejected: %d\n",
				result.Integrations, result.CorsOperations, result.Validators, result.Authorizers, result.Rejected)
			return opts.writeDocument(cmd, s)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "API configuration file (YAML or JSON)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Template variable as name=value (repeatable)")
	cmd.Flags().BoolVar(&noTemplate, "no-template", false, "Parse the configuration as is, without template rendering")
	return cmd
}

// configOptions builds apiconfig options from --var and --no-template.
func configOptions(vars []string, noTemplate bool) ([]apiconfig.Option, error) {
	values := make(map[string]string, len(vars))
	for _, v := range vars {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, newUsageError(fmt.Sprintf("invalid --var %q: expected name=value", v))
		}
		values[name] = value
	}
	opts := []apiconfig.Option{apiconfig.WithVars(values)}
	if noTemplate {
		opts = append(opts, apiconfig.WithoutTemplate())
	}
	return opts, nil
}
