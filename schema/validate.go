package schema

import (
	"context"
	"errors"
	"strings"

	"github.com/erraggy/openapix/oaserrors"
	"github.com/getkin/kin-openapi/openapi3"
	"go.yaml.in/yaml/v4"
)

// Validate performs a structural check of the document: an "openapi"
// version string of the 3.x line, an "info" object with title and version,
// and a "paths" mapping. All problems found are joined into one error of
// *oaserrors.ValidationError values.
func (s *Schema) Validate() error {
	var errs []error
	root := s.root()

	if v, ok := lookup(root, []string{"openapi"}); !ok {
		errs = append(errs, &oaserrors.ValidationError{Path: "openapi", Message: "required field is missing"})
	} else if v.Kind != yaml.ScalarNode || !strings.HasPrefix(v.Value, "3.") {
		errs = append(errs, &oaserrors.ValidationError{Path: "openapi", Value: v.Value, Message: "must be an OpenAPI 3.x version string"})
	}

	if info, ok := lookup(root, []string{"info"}); !ok {
		errs = append(errs, &oaserrors.ValidationError{Path: "info", Message: "required field is missing"})
	} else if info.Kind != yaml.MappingNode {
		errs = append(errs, &oaserrors.ValidationError{Path: "info", Message: "must be an object"})
	} else {
		for _, field := range []string{"title", "version"} {
			if _, ok := lookup(info, []string{field}); !ok {
				errs = append(errs, &oaserrors.ValidationError{Path: "info", Field: field, Message: "required field is missing"})
			}
		}
	}

	if paths, ok := lookup(root, []string{"paths"}); !ok {
		errs = append(errs, &oaserrors.ValidationError{Path: "paths", Message: "required field is missing"})
	} else if paths.Kind != yaml.MappingNode {
		errs = append(errs, &oaserrors.ValidationError{Path: "paths", Message: "must be an object"})
	}

	return errors.Join(errs...)
}

// ValidateFull loads the current document with kin-openapi and runs its
// OpenAPI 3 validation. External references are not followed.
func (s *Schema) ValidateFull(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := s.ToJSON()
	if err != nil {
		return err
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return &oaserrors.ValidationError{Path: s.source, Message: "document could not be loaded", Cause: err}
	}
	if err := doc.Validate(ctx); err != nil {
		return &oaserrors.ValidationError{Path: s.source, Message: "document is not a valid OpenAPI 3 description", Cause: err}
	}
	s.Logger().Debug("document validated", "source", s.source)
	return nil
}
