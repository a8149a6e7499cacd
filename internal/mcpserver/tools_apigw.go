package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/openapix/apigw"
	"github.com/erraggy/openapix/internal/apiconfig"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type synthesizeInput struct {
	Spec          specInput         `json:"spec"                     jsonschema:"The OpenAPI document to extend"`
	ConfigFile    string            `json:"config_file,omitempty"    jsonschema:"Path to an API configuration file (YAML or JSON)"`
	ConfigContent string            `json:"config_content,omitempty" jsonschema:"Inline API configuration (YAML or JSON)"`
	Vars          map[string]string `json:"vars,omitempty"           jsonschema:"Template variables available to the configuration as {{ .name }}"`
	NoTemplate    bool              `json:"no_template,omitempty"    jsonschema:"Parse the configuration as is, without template rendering"`
	Format        string            `json:"format,omitempty"         jsonschema:"Output format: yaml or json. Defaults to the source format."`
	Output        string            `json:"output,omitempty"         jsonschema:"File path to write the document to instead of returning it inline"`
}

type synthesizeOutput struct {
	Integrations    int      `json:"integrations"`
	Validators      int      `json:"validators"`
	Authorizers     int      `json:"authorizers"`
	CorsOperations  int      `json:"cors_operations"`
	Rejected        int      `json:"rejected"`
	LambdaFunctions []string `json:"lambda_functions,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	Format          string   `json:"format"`
	WrittenTo       string   `json:"written_to,omitempty"`
	Document        string   `json:"document,omitempty"`
}

func handleSynthesize(_ context.Context, _ *mcp.CallToolRequest, input synthesizeInput) (*mcp.CallToolResult, synthesizeOutput, error) {
	config, err := input.loadConfig()
	if err != nil {
		return errResult(err), synthesizeOutput{}, nil
	}
	props, err := config.Props()
	if err != nil {
		return errResult(err), synthesizeOutput{}, nil
	}

	s, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), synthesizeOutput{}, nil
	}
	result, err := apigw.Synthesize(s, props)
	if err != nil {
		return errResult(err), synthesizeOutput{}, nil
	}

	doc, err := renderDocument(s, input.Format, input.Output)
	if err != nil {
		return errResult(err), synthesizeOutput{}, nil
	}
	return nil, synthesizeOutput{
		Integrations:    result.Integrations,
		Validators:      result.Validators,
		Authorizers:     result.Authorizers,
		CorsOperations:  result.CorsOperations,
		Rejected:        result.Rejected,
		LambdaFunctions: result.LambdaFunctions,
		Warnings:        result.Warnings,
		Format:          doc.Format,
		WrittenTo:       doc.WrittenTo,
		Document:        doc.Document,
	}, nil
}

// loadConfig parses the API configuration from whichever input was provided.
func (in synthesizeInput) loadConfig() (*apigw.Config, error) {
	if (in.ConfigFile == "") == (in.ConfigContent == "") {
		return nil, fmt.Errorf("exactly one of config_file or config_content must be provided")
	}
	if int64(len(in.ConfigContent)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline config size %d bytes exceeds maximum %d bytes", len(in.ConfigContent), cfg.MaxInlineSize)
	}

	opts := []apiconfig.Option{apiconfig.WithVars(in.Vars)}
	if in.NoTemplate {
		opts = append(opts, apiconfig.WithoutTemplate())
	}
	if in.ConfigFile != "" {
		return apiconfig.Load(in.ConfigFile, opts...)
	}
	return apiconfig.Parse([]byte(in.ConfigContent), "config", opts...)
}
