package apigw

import (
	"strings"

	"github.com/erraggy/openapix/oaserrors"
	"github.com/erraggy/openapix/schema"
)

// Config is the serializable form of Props, as read from API config files
// and tool input.
type Config struct {
	// Region is used by AWS service integrations that do not name one.
	Region                 string                             `json:"region,omitempty"`
	Injections             []schema.Record                    `json:"injections,omitempty"`
	Rejections             []string                           `json:"rejections,omitempty"`
	RejectionsDeep         []string                           `json:"rejectionsDeep,omitempty"`
	APIKeySource           string                             `json:"apiKeySource,omitempty"`
	BinaryMediaTypes       []string                           `json:"binaryMediaTypes,omitempty"`
	MinimumCompressionSize *int                               `json:"minimumCompressionSize,omitempty"`
	Validators             map[string]Validator               `json:"validators,omitempty"`
	Authorizers            []Authorizer                       `json:"authorizers,omitempty"`
	DefaultIntegration     *IntegrationConfig                 `json:"defaultIntegration,omitempty"`
	DefaultCors            *Cors                              `json:"defaultCors,omitempty"`
	Paths                  map[string]map[string]MethodConfig `json:"paths,omitempty"`
}

// MethodConfig is the serializable form of Method.
type MethodConfig struct {
	Integration *IntegrationConfig `json:"integration,omitempty"`
	Validator   string             `json:"validator,omitempty"`
	Authorizer  string             `json:"authorizer,omitempty"`
}

// IntegrationConfig describes an integration by kind.
//
// Type is one of "lambda", "http", "http_proxy", "mock", "aws" or "cors".
type IntegrationConfig struct {
	Type              string            `json:"type"`
	FunctionARN       string            `json:"functionArn,omitempty"`
	URI               string            `json:"uri,omitempty"`
	HTTPMethod        string            `json:"httpMethod,omitempty"`
	Service           string            `json:"service,omitempty"`
	Action            string            `json:"action,omitempty"`
	Path              string            `json:"path,omitempty"`
	Region            string            `json:"region,omitempty"`
	Credentials       string            `json:"credentials,omitempty"`
	VPCLinkID         string            `json:"vpcLinkId,omitempty"`
	TimeoutMillis     int               `json:"timeoutInMillis,omitempty"`
	StatusCode        int               `json:"statusCode,omitempty"`
	RequestParameters map[string]string `json:"requestParameters,omitempty"`
	RequestTemplates  map[string]string `json:"requestTemplates,omitempty"`
	Cors              *Cors             `json:"cors,omitempty"`
}

// Build constructs the Integration. region is the fallback region for
// AWS service integrations.
func (c IntegrationConfig) Build(region string) (*Integration, error) {
	var (
		in  *Integration
		err error
	)
	switch strings.ToLower(c.Type) {
	case "lambda", string(IntegrationAWSProxy):
		in, err = LambdaIntegration(c.FunctionARN)
	case string(IntegrationHTTPProxy):
		in = HTTPProxyIntegration(c.URI)
		if c.HTTPMethod != "" {
			in.HTTPMethod = strings.ToUpper(c.HTTPMethod)
		}
	case string(IntegrationHTTP):
		in = HTTPIntegration(c.HTTPMethod, c.URI)
	case string(IntegrationMock):
		in = MockIntegration(c.StatusCode)
	case string(IntegrationAWS):
		r := c.Region
		if r == "" {
			r = region
		}
		in, err = AWSIntegration(AWSOptions{
			Service:           c.Service,
			Action:            c.Action,
			Path:              c.Path,
			Region:            r,
			HTTPMethod:        c.HTTPMethod,
			Credentials:       c.Credentials,
			RequestParameters: c.RequestParameters,
			RequestTemplates:  c.RequestTemplates,
		})
	case "cors":
		var cors Cors
		if c.Cors != nil {
			cors = *c.Cors
		}
		in = CorsIntegration(cors)
	default:
		return nil, &oaserrors.ConfigError{Option: "type", Value: c.Type, Message: "unknown integration type"}
	}
	if err != nil {
		return nil, err
	}

	if c.Credentials != "" {
		in.Credentials = c.Credentials
	}
	if c.VPCLinkID != "" {
		in.VPCLink(c.VPCLinkID)
	}
	if c.TimeoutMillis != 0 {
		in.TimeoutMillis = c.TimeoutMillis
	}
	if in.Type != IntegrationAWS {
		if len(c.RequestParameters) > 0 {
			in.RequestParameters = c.RequestParameters
		}
		if len(c.RequestTemplates) > 0 {
			in.RequestTemplates = c.RequestTemplates
		}
	}
	return in, nil
}

// Props converts the configuration into Props for Synthesize.
func (c Config) Props() (Props, error) {
	props := Props{
		Injections:             c.Injections,
		Rejections:             c.Rejections,
		RejectionsDeep:         c.RejectionsDeep,
		APIKeySource:           strings.ToUpper(c.APIKeySource),
		BinaryMediaTypes:       c.BinaryMediaTypes,
		MinimumCompressionSize: c.MinimumCompressionSize,
		Validators:             c.Validators,
		Authorizers:            c.Authorizers,
		DefaultCors:            c.DefaultCors,
	}

	if c.DefaultIntegration != nil {
		in, err := c.DefaultIntegration.Build(c.Region)
		if err != nil {
			return Props{}, &oaserrors.ConfigError{Option: "defaultIntegration", Cause: err}
		}
		props.DefaultIntegration = in
	}

	if len(c.Paths) > 0 {
		props.Paths = make(map[string]map[string]Method, len(c.Paths))
		for _, path := range sortedKeys(c.Paths) {
			methods := make(map[string]Method, len(c.Paths[path]))
			for _, m := range sortedKeys(c.Paths[path]) {
				mc := c.Paths[path][m]
				method := Method{Validator: mc.Validator, Authorizer: mc.Authorizer}
				if mc.Integration != nil {
					in, err := mc.Integration.Build(c.Region)
					if err != nil {
						return Props{}, &oaserrors.ConfigError{Option: "paths", Value: strings.ToUpper(m) + " " + path, Cause: err}
					}
					method.Integration = in
				}
				methods[m] = method
			}
			props.Paths[path] = methods
		}
	}
	return props, nil
}
