package mcpserver

import (
	"context"
	"errors"

	"github.com/erraggy/openapix/oaserrors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type validateInput struct {
	Spec specInput `json:"spec"           jsonschema:"The OpenAPI document to validate"`
	Full *bool     `json:"full,omitempty" jsonschema:"Also run the full OpenAPI 3 validator"`
}

type validateIssue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

type validateOutput struct {
	Valid      bool            `json:"valid"`
	Full       bool            `json:"full"`
	ErrorCount int             `json:"error_count"`
	Errors     []validateIssue `json:"errors,omitempty"`
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	full := cfg.ValidateFull
	if input.Full != nil {
		full = *input.Full
	}

	s, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	if full {
		err = s.ValidateFull(ctx)
	} else {
		err = s.Validate()
	}

	output := validateOutput{Valid: err == nil, Full: full}
	issues := validationIssues(err)
	output.ErrorCount = len(issues)
	output.Errors = makeSlice[validateIssue](len(issues))
	output.Errors = append(output.Errors, issues...)
	return nil, output, nil
}

// validationIssues flattens a joined validation error into issues.
func validationIssues(err error) []validateIssue {
	if err == nil {
		return nil
	}
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	issues := make([]validateIssue, 0, len(errs))
	for _, e := range errs {
		var ve *oaserrors.ValidationError
		if errors.As(e, &ve) {
			path := ve.Path
			if ve.Field != "" {
				if path != "" {
					path += "."
				}
				path += ve.Field
			}
			path = pathPattern.ReplaceAllString(path, "<path>")
			msg := ve.Message
			if ve.Cause != nil {
				msg += ": " + sanitizeError(ve.Cause)
			}
			issues = append(issues, validateIssue{Path: path, Message: msg})
			continue
		}
		issues = append(issues, validateIssue{Message: sanitizeError(e)})
	}
	return issues
}
