package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/openapix/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type getInput struct {
	Spec     specInput `json:"spec"               jsonschema:"The OpenAPI document to read"`
	Path     string    `json:"path,omitempty"     jsonschema:"Dotted path, e.g. info.title. Empty selects the document root."`
	Segments []string  `json:"segments,omitempty" jsonschema:"Path segments, for keys that contain dots. Overrides path."`
	Keys     bool      `json:"keys,omitempty"     jsonschema:"Return the keys of the mapping at the path instead of its value"`
}

type getOutput struct {
	Found bool     `json:"found"`
	Path  string   `json:"path"`
	Value any      `json:"value,omitempty"`
	Keys  []string `json:"keys,omitempty"`
}

func handleGet(_ context.Context, _ *mcp.CallToolRequest, input getInput) (*mcp.CallToolResult, getOutput, error) {
	s, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), getOutput{}, nil
	}

	segments := input.Segments
	if len(segments) == 0 {
		segments = schema.SplitPath(input.Path)
	}
	output := getOutput{Path: schema.JoinPath(segments...)}

	if input.Keys {
		if !s.HasIn(segments...) {
			return nil, output, nil
		}
		output.Keys = s.KeysIn(segments...)
		if output.Keys == nil {
			return errResult(fmt.Errorf("value at %q is not a mapping", output.Path)), getOutput{}, nil
		}
		output.Found = true
		return nil, output, nil
	}

	output.Value, output.Found = s.GetIn(segments...)
	return nil, output, nil
}
