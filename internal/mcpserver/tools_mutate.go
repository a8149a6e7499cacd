package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/openapix/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type setInput struct {
	Spec     specInput `json:"spec"               jsonschema:"The OpenAPI document to modify"`
	Path     string    `json:"path,omitempty"     jsonschema:"Dotted path to set, e.g. info.x-owner"`
	Segments []string  `json:"segments,omitempty" jsonschema:"Path segments, for keys that contain dots. Overrides path."`
	Value    any       `json:"value"              jsonschema:"The value to store; any JSON value"`
	Format   string    `json:"format,omitempty"   jsonschema:"Output format: yaml or json. Defaults to the source format."`
	Output   string    `json:"output,omitempty"   jsonschema:"File path to write the document to instead of returning it inline"`
}

func handleSet(_ context.Context, _ *mcp.CallToolRequest, input setInput) (*mcp.CallToolResult, documentOutput, error) {
	s, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), documentOutput{}, nil
	}

	segments := input.Segments
	if len(segments) == 0 {
		segments = schema.SplitPath(input.Path)
	}
	if err := s.SetIn(segments, input.Value); err != nil {
		return errResult(err), documentOutput{}, nil
	}

	output, err := renderDocument(s, input.Format, input.Output)
	if err != nil {
		return errResult(err), documentOutput{}, nil
	}
	return nil, output, nil
}

type injectInput struct {
	Spec    specInput       `json:"spec"             jsonschema:"The OpenAPI document to modify"`
	Records []schema.Record `json:"records"          jsonschema:"Path/value records applied in order"`
	Format  string          `json:"format,omitempty" jsonschema:"Output format: yaml or json. Defaults to the source format."`
	Output  string          `json:"output,omitempty" jsonschema:"File path to write the document to instead of returning it inline"`
}

type injectOutput struct {
	Injected  int    `json:"injected"`
	Format    string `json:"format"`
	WrittenTo string `json:"written_to,omitempty"`
	Document  string `json:"document,omitempty"`
}

func handleInject(_ context.Context, _ *mcp.CallToolRequest, input injectInput) (*mcp.CallToolResult, injectOutput, error) {
	if len(input.Records) == 0 {
		return errResult(fmt.Errorf("at least one record is required")), injectOutput{}, nil
	}
	s, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), injectOutput{}, nil
	}
	if err := s.Inject(input.Records...); err != nil {
		return errResult(err), injectOutput{}, nil
	}

	doc, err := renderDocument(s, input.Format, input.Output)
	if err != nil {
		return errResult(err), injectOutput{}, nil
	}
	return nil, injectOutput{
		Injected:  len(input.Records),
		Format:    doc.Format,
		WrittenTo: doc.WrittenTo,
		Document:  doc.Document,
	}, nil
}

type rejectInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OpenAPI document to modify"`
	Paths  []string  `json:"paths"            jsonschema:"Dotted paths to remove"`
	Format string    `json:"format,omitempty" jsonschema:"Output format: yaml or json. Defaults to the source format."`
	Output string    `json:"output,omitempty" jsonschema:"File path to write the document to instead of returning it inline"`
}

type rejectOutput struct {
	Removed   int    `json:"removed"`
	Format    string `json:"format"`
	WrittenTo string `json:"written_to,omitempty"`
	Document  string `json:"document,omitempty"`
}

func handleReject(_ context.Context, _ *mcp.CallToolRequest, input rejectInput) (*mcp.CallToolResult, rejectOutput, error) {
	s, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), rejectOutput{}, nil
	}
	removed := s.Reject(input.Paths...)
	return rejected(s, removed, input.Format, input.Output)
}

type rejectDeepInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OpenAPI document to modify"`
	Names  []string  `json:"names"            jsonschema:"Mapping keys to remove at any depth"`
	Format string    `json:"format,omitempty" jsonschema:"Output format: yaml or json. Defaults to the source format."`
	Output string    `json:"output,omitempty" jsonschema:"File path to write the document to instead of returning it inline"`
}

func handleRejectDeep(_ context.Context, _ *mcp.CallToolRequest, input rejectDeepInput) (*mcp.CallToolResult, rejectOutput, error) {
	s, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), rejectOutput{}, nil
	}
	removed := s.RejectDeep(input.Names...)
	return rejected(s, removed, input.Format, input.Output)
}

func rejected(s *schema.Schema, removed int, format, output string) (*mcp.CallToolResult, rejectOutput, error) {
	doc, err := renderDocument(s, format, output)
	if err != nil {
		return errResult(err), rejectOutput{}, nil
	}
	return nil, rejectOutput{
		Removed:   removed,
		Format:    doc.Format,
		WrittenTo: doc.WrittenTo,
		Document:  doc.Document,
	}, nil
}
