// Package apiconfig loads API Gateway configuration files for the synth
// command and tool.
//
// A configuration file is YAML or JSON describing an apigw.Config. Before
// parsing, the file is rendered as a text/template with the sprig function
// library, so values can come from the environment or from variables:
//
//	region: '{{ env "AWS_REGION" | default "us-east-1" }}'
//	defaultIntegration:
//	  type: lambda
//	  functionArn: '{{ required "functionArn is required" .functionArn }}'
//
// The rendered document is validated against an embedded JSON Schema
// before it is decoded.
package apiconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/erraggy/openapix/apigw"
	"github.com/erraggy/openapix/oaserrors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

const schemaURL = "apiconfig.schema.json"

//go:embed apiconfig.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// Option configures Load and Parse.
type Option func(*options)

type options struct {
	vars     map[string]string
	template bool
}

// WithVars makes vars available to the template as {{ .name }}.
func WithVars(vars map[string]string) Option {
	return func(o *options) {
		if o.vars == nil {
			o.vars = make(map[string]string, len(vars))
		}
		for k, v := range vars {
			o.vars[k] = v
		}
	}
}

// WithoutTemplate disables template rendering; the file is parsed as is.
func WithoutTemplate() Option {
	return func(o *options) {
		o.template = false
	}
}

// Load reads and parses the configuration file at path.
func Load(path string, opts ...Option) (*apigw.Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "failed to read config", Cause: err}
	}
	return Parse(data, path, opts...)
}

// Parse renders, validates and decodes configuration content. name is
// used in error messages.
func Parse(data []byte, name string, opts ...Option) (*apigw.Config, error) {
	o := &options{template: true}
	for _, opt := range opts {
		opt(o)
	}

	if o.template {
		rendered, err := render(name, data, o.vars)
		if err != nil {
			return nil, &oaserrors.ParseError{Path: name, Message: "failed to render template", Cause: err}
		}
		data = rendered
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: name, Message: "convert yaml to json", Cause: err}
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return nil, &oaserrors.ParseError{Path: name, Message: "decode json", Cause: err}
	}
	if document == nil {
		return &apigw.Config{}, nil
	}

	if err := validate(document); err != nil {
		return nil, &oaserrors.ValidationError{Path: name, Message: "invalid API configuration", Cause: err}
	}

	var cfg apigw.Config
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &oaserrors.ParseError{Path: name, Message: "decode config", Cause: err}
	}
	return &cfg, nil
}

func render(name string, data []byte, vars map[string]string) ([]byte, error) {
	tmpl, err := template.New(filepath.Base(name)).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=zero").
		Parse(string(data))
	if err != nil {
		return nil, err
	}
	if vars == nil {
		vars = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func validate(document any) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(document); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%s", detailedMessage(ve))
		}
		return err
	}
	return nil
}

// detailedMessage flattens a validation error tree into its leaf causes.
func detailedMessage(ve *jsonschema.ValidationError) string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return loc + ": " + ve.Message
	}
	var buf bytes.Buffer
	for i, c := range ve.Causes {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(detailedMessage(c))
	}
	return buf.String()
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
