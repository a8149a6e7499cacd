package commands

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/erraggy/openapix/internal/cliutil"
	"github.com/erraggy/openapix/oaserrors"
	"github.com/erraggy/openapix/schema"
	"github.com/spf13/cobra"
)

// validationReport is the structured output of the validate command.
type validationReport struct {
	Valid  bool     `json:"valid"`
	Full   bool     `json:"full"`
	Errors []string `json:"errors,omitempty"`
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "validate <spec|->",
		Short: "Check that a document is a usable OpenAPI 3 description",
		Long: "Check for an openapi 3.x version, info.title, info.version and a paths object. " +
			"With --full, also run the complete OpenAPI 3 validator. Exits with status 1 when the document is invalid.",
		Example: strings.TrimSpace(`  openapix validate openapi.yaml
  openapix validate --full -f json openapi.yaml`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSpec(cmd, args[0])
			if err != nil {
				return err
			}
			if full {
				err = s.ValidateFull(cmd.Context())
			} else {
				err = s.Validate()
			}
			report := validationReport{Valid: err == nil, Full: full, Errors: errorMessages(err)}

			if opts.outputFormat() == schema.SourceFormatJSON {
				data, merr := json.MarshalIndent(report, "", "  ")
				if merr != nil {
					return merr
				}
				if werr := opts.emit(cmd, append(data, '\n')); werr != nil {
					return werr
				}
			} else if !opts.quiet {
				out := cmd.OutOrStdout()
				if report.Valid {
					cliutil.Writef(out, "%s: valid\n", FormatSpecPath(args[0]))
				} else {
					cliutil.Writef(out, "%s: %s\n", FormatSpecPath(args[0]), cliutil.Count(len(report.Errors), "error", "errors"))
					for _, e := range report.Errors {
						cliutil.Writef(out, "  - %s\n", e)
					}
				}
			}

			if !report.Valid {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Also run the complete OpenAPI 3 validator")
	return cmd
}

// errorMessages flattens a joined validation error into messages.
func errorMessages(err error) []string {
	if err == nil {
		return nil
	}
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		var ve *oaserrors.ValidationError
		if errors.As(e, &ve) {
			msgs = append(msgs, strings.TrimPrefix(ve.Error(), "validation error at "))
			continue
		}
		msgs = append(msgs, e.Error())
	}
	return msgs
}
