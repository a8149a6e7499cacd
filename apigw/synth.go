package apigw

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/openapix/oaserrors"
	"github.com/erraggy/openapix/schema"
)

// httpMethods are the operation keys of an OpenAPI path item.
var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// operation identifies an operation by path and path item key.
type operation struct {
	path   string
	method string
}

func (o operation) String() string {
	m := o.method
	if m == AnyMethodKey {
		m = "any"
	}
	return strings.ToUpper(m) + " " + o.path
}

func (o operation) segments(rest ...string) []string {
	return append([]string{"paths", o.path, o.method}, rest...)
}

// methodKey maps a configured method name to its path item key.
func methodKey(m string) (string, bool) {
	m = strings.ToLower(strings.TrimSpace(m))
	if m == "any" || m == AnyMethodKey {
		return AnyMethodKey, true
	}
	if slices.Contains(httpMethods, m) {
		return m, true
	}
	return "", false
}

// operations lists the document's operations in document order.
func operations(s *schema.Schema) []operation {
	var ops []operation
	for _, p := range s.KeysIn("paths") {
		for _, m := range s.KeysIn("paths", p) {
			if m == AnyMethodKey || slices.Contains(httpMethods, m) {
				ops = append(ops, operation{path: p, method: m})
			}
		}
	}
	return ops
}

// Synthesize applies props to s in place, writing the API Gateway
// extensions an OpenAPI-defined REST API needs. Steps run in this order:
// injections, rejections, API-level settings, request validators,
// authorizers, integrations and CORS preflight operations.
//
// Props are validated before the document is touched, but the document
// may be partially modified when a later step fails. Synthesize a Clone
// when the original must stay intact.
func Synthesize(s *schema.Schema, props Props) (*Result, error) {
	if s == nil {
		return nil, &oaserrors.ConfigError{Option: "schema", Message: "schema is required"}
	}
	if err := props.validate(); err != nil {
		return nil, err
	}
	log := s.Logger().With("component", "apigw")
	res := &Result{}

	if err := s.Inject(props.Injections...); err != nil {
		return nil, err
	}
	res.Rejected = s.Reject(props.Rejections...) + s.RejectDeep(props.RejectionsDeep...)

	if err := applySettings(s, props); err != nil {
		return nil, err
	}
	if err := applyValidators(s, props, res); err != nil {
		return nil, err
	}
	if err := applyAuthorizers(s, props, res); err != nil {
		return nil, err
	}
	if err := applyIntegrations(s, props, res, log); err != nil {
		return nil, err
	}
	if props.DefaultCors != nil {
		if err := applyCors(s, *props.DefaultCors, res, log); err != nil {
			return nil, err
		}
	}

	log.Info("synthesized API Gateway extensions",
		"integrations", res.Integrations,
		"validators", res.Validators,
		"authorizers", res.Authorizers,
		"cors", res.CorsOperations,
	)
	return res, nil
}

// validate checks props for errors that do not depend on the document.
func (p Props) validate() error {
	if p.APIKeySource != "" && p.APIKeySource != APIKeySourceHeader && p.APIKeySource != APIKeySourceAuthorizer {
		return &oaserrors.ConfigError{Option: "apiKeySource", Value: p.APIKeySource, Message: "must be HEADER or AUTHORIZER"}
	}
	if v := p.MinimumCompressionSize; v != nil && (*v < 0 || *v > maxCompressionSize) {
		return &oaserrors.ConfigError{
			Option:  "minimumCompressionSize",
			Value:   strconv.Itoa(*v),
			Message: fmt.Sprintf("must be between 0 and %d", maxCompressionSize),
		}
	}

	defaults := 0
	for _, v := range p.Validators {
		if v.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return &oaserrors.ConfigError{Option: "validators", Message: "at most one validator can be the default"}
	}

	ids := make(map[string]bool, len(p.Authorizers))
	for _, a := range p.Authorizers {
		if err := a.validate(); err != nil {
			return &oaserrors.ConfigError{Option: "authorizers", Value: a.ID, Cause: err}
		}
		if ids[a.ID] {
			return &oaserrors.ConfigError{Option: "authorizers", Value: a.ID, Message: "duplicate authorizer id"}
		}
		ids[a.ID] = true
	}

	if p.DefaultIntegration != nil {
		if err := p.DefaultIntegration.validate(); err != nil {
			return &oaserrors.ConfigError{Option: "defaultIntegration", Cause: err}
		}
	}
	if p.DefaultCors != nil {
		if err := p.DefaultCors.validate(); err != nil {
			return &oaserrors.ConfigError{Option: "defaultCors", Cause: err}
		}
	}

	for _, path := range sortedKeys(p.Paths) {
		for _, m := range sortedKeys(p.Paths[path]) {
			if _, ok := methodKey(m); !ok {
				return &oaserrors.ConfigError{Option: "paths", Value: path + " " + m, Message: "unknown HTTP method"}
			}
			in := p.Paths[path][m].Integration
			if in == nil {
				continue
			}
			if err := in.validate(); err != nil {
				return &oaserrors.ConfigError{Option: "paths", Value: strings.ToUpper(m) + " " + path, Cause: err}
			}
			if in.cors != nil {
				if err := in.cors.validate(); err != nil {
					return &oaserrors.ConfigError{Option: "paths", Value: strings.ToUpper(m) + " " + path, Cause: err}
				}
			}
		}
	}
	return nil
}

func applySettings(s *schema.Schema, props Props) error {
	if props.APIKeySource != "" {
		if err := s.SetIn([]string{APIKeySourceKey}, props.APIKeySource); err != nil {
			return err
		}
	}
	if len(props.BinaryMediaTypes) > 0 {
		if err := s.SetIn([]string{BinaryMediaTypesKey}, props.BinaryMediaTypes); err != nil {
			return err
		}
	}
	if props.MinimumCompressionSize != nil {
		if err := s.SetIn([]string{MinimumCompressionSizeKey}, *props.MinimumCompressionSize); err != nil {
			return err
		}
	}
	return nil
}

// applyValidators merges props.Validators into the document's validator
// map; validators already in the document are kept.
func applyValidators(s *schema.Schema, props Props, res *Result) error {
	for _, name := range sortedKeys(props.Validators) {
		v := props.Validators[name]
		err := s.SetIn([]string{RequestValidatorsKey, name}, map[string]any{
			"validateRequestBody":       v.ValidateRequestBody,
			"validateRequestParameters": v.ValidateRequestParameters,
		})
		if err != nil {
			return err
		}
		if v.Default {
			if err := s.SetIn([]string{RequestValidatorKey}, name); err != nil {
				return err
			}
		}
		res.Validators++
	}
	return nil
}

func applyAuthorizers(s *schema.Schema, props Props, res *Result) error {
	for _, a := range props.Authorizers {
		scheme, err := a.SecurityScheme()
		if err != nil {
			return &oaserrors.ConfigError{Option: "authorizers", Value: a.ID, Cause: err}
		}
		if err := s.SetIn([]string{"components", "securitySchemes", a.ID}, scheme); err != nil {
			return err
		}
		if a.Type != AuthorizerCognito {
			res.addFunction(a.FunctionARN)
		}
		res.Authorizers++
	}
	return nil
}

// planned is the resolved configuration for one operation.
type planned struct {
	op          operation
	integration *Integration
	validator   string
	authorizer  string
}

func applyIntegrations(s *schema.Schema, props Props, res *Result, log schema.Logger) error {
	ops := operations(s)
	present := make(map[operation]bool, len(ops))
	for _, op := range ops {
		present[op] = true
	}

	configured := make(map[operation]Method)
	for _, path := range sortedKeys(props.Paths) {
		for _, m := range sortedKeys(props.Paths[path]) {
			key, _ := methodKey(m)
			op := operation{path: path, method: key}
			if !present[op] {
				return &oaserrors.ValidationError{
					Path:    "paths",
					Field:   path,
					Value:   m,
					Message: op.String() + " is configured but the document has no such operation",
				}
			}
			configured[op] = props.Paths[path][m]
		}
	}

	var (
		plan    []planned
		missing []string
	)
	for _, op := range ops {
		m := configured[op]
		p := planned{op: op, integration: m.Integration, validator: m.Validator, authorizer: m.Authorizer}

		if p.integration == nil && !s.HasIn(op.segments(IntegrationKey)...) {
			if props.DefaultIntegration == nil {
				missing = append(missing, op.String())
				continue
			}
			p.integration = props.DefaultIntegration
		}
		if p.validator != "" && !s.HasIn(RequestValidatorsKey, p.validator) {
			return &oaserrors.ValidationError{Path: op.String(), Field: "validator", Value: p.validator, Message: "unknown request validator"}
		}
		if p.authorizer != "" && !s.HasIn("components", "securitySchemes", p.authorizer) {
			return &oaserrors.ValidationError{Path: op.String(), Field: "authorizer", Value: p.authorizer, Message: "unknown authorizer"}
		}
		plan = append(plan, p)
	}
	if len(missing) > 0 {
		return &oaserrors.ValidationError{
			Path:    "paths",
			Value:   missing,
			Message: "missing integration for " + strings.Join(missing, ", "),
		}
	}

	for _, p := range plan {
		if in := p.integration; in != nil {
			if err := s.SetIn(p.op.segments(IntegrationKey), in.Extension()); err != nil {
				return err
			}
			if in.cors != nil {
				if err := declareCorsResponse(s, p.op, *in.cors); err != nil {
					return err
				}
			}
			res.addFunction(in.functionARN)
			res.Integrations++
			log.Debug("wrote integration", "operation", p.op.String(), "type", in.Type)
		}
		if p.validator != "" {
			if err := s.SetIn(p.op.segments(RequestValidatorKey), p.validator); err != nil {
				return err
			}
		}
		if p.authorizer != "" {
			security := []any{map[string]any{p.authorizer: []any{}}}
			if err := s.SetIn(p.op.segments("security"), security); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyCors adds a preflight options operation to every path item that
// lacks one.
func applyCors(s *schema.Schema, c Cors, res *Result, log schema.Logger) error {
	in := CorsIntegration(c)
	for _, path := range s.KeysIn("paths") {
		keys := s.KeysIn("paths", path)
		switch {
		case keys == nil:
			res.Warnings = append(res.Warnings, fmt.Sprintf("path %s is not an object; CORS preflight not added", path))
			continue
		case slices.Contains(keys, "$ref"):
			res.Warnings = append(res.Warnings, fmt.Sprintf("path %s is a reference; CORS preflight not added", path))
			continue
		case slices.Contains(keys, "options"):
			log.Debug("path already has an options operation", "path", path)
			continue
		}

		op := operation{path: path, method: "options"}
		err := s.SetIn(op.segments(), map[string]any{
			"summary":      "CORS support",
			IntegrationKey: in.Extension(),
		})
		if err != nil {
			return err
		}
		if err := declareCorsResponse(s, op, *in.cors); err != nil {
			return err
		}
		res.CorsOperations++
	}
	return nil
}

// declareCorsResponse declares the CORS headers on the operation's
// response so API Gateway accepts the integration's header mappings.
func declareCorsResponse(s *schema.Schema, op operation, c Cors) error {
	code := strconv.Itoa(c.withDefaults().StatusCode)
	if !s.HasIn(op.segments("responses", code, "description")...) {
		if err := s.SetIn(op.segments("responses", code, "description"), "Default response for CORS method"); err != nil {
			return err
		}
	}
	names, _ := c.headers()
	for _, name := range names {
		seg := op.segments("responses", code, "headers", name)
		if s.HasIn(seg...) {
			continue
		}
		if err := s.SetIn(seg, map[string]any{"schema": map[string]any{"type": "string"}}); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
