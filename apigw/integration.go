package apigw

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/openapix/oaserrors"
)

// IntegrationType is the value of the integration's "type" field.
type IntegrationType string

const (
	// IntegrationAWSProxy invokes a Lambda function with the proxy event format.
	IntegrationAWSProxy IntegrationType = "aws_proxy"
	// IntegrationAWS calls an AWS service action or path.
	IntegrationAWS IntegrationType = "aws"
	// IntegrationHTTP forwards to an HTTP endpoint with mapping templates.
	IntegrationHTTP IntegrationType = "http"
	// IntegrationHTTPProxy forwards requests to an HTTP endpoint unchanged.
	IntegrationHTTPProxy IntegrationType = "http_proxy"
	// IntegrationMock returns a response without calling a backend.
	IntegrationMock IntegrationType = "mock"
)

// Passthrough behaviors for requests whose content type has no template.
const (
	PassthroughWhenNoMatch     = "when_no_match"
	PassthroughWhenNoTemplates = "when_no_templates"
	PassthroughNever           = "never"
)

// Integration timeout bounds accepted by API Gateway REST APIs.
const (
	minTimeoutMillis = 50
	maxTimeoutMillis = 29000
)

// IntegrationResponse maps a backend response to a method response.
type IntegrationResponse struct {
	StatusCode         string            `json:"statusCode"`
	ResponseParameters map[string]string `json:"responseParameters,omitempty"`
	ResponseTemplates  map[string]string `json:"responseTemplates,omitempty"`
}

// Integration is an x-amazon-apigateway-integration object.
//
// Use the constructors (LambdaIntegration, HTTPProxyIntegration, ...) to
// get a valid starting point; fields may be adjusted afterwards.
type Integration struct {
	Type                IntegrationType
	HTTPMethod          string
	URI                 string
	Credentials         string
	ConnectionType      string
	ConnectionID        string
	PassthroughBehavior string
	TimeoutMillis       int
	RequestParameters   map[string]string
	RequestTemplates    map[string]string
	// Responses is keyed by selection pattern ("default", "4\\d{2}", ...).
	Responses map[string]IntegrationResponse

	// functionARN is set for Lambda integrations so callers can grant
	// invoke permissions.
	functionARN string
	// cors is set for CORS preflight integrations.
	cors *Cors
}

// LambdaIntegration returns a Lambda proxy integration for a function ARN.
// The region and partition of the invocation URI come from the ARN.
func LambdaIntegration(functionARN string) (*Integration, error) {
	uri, err := lambdaInvocationURI(functionARN)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "functionArn", Value: functionARN, Cause: err}
	}
	return &Integration{
		Type:        IntegrationAWSProxy,
		HTTPMethod:  "POST",
		URI:         uri,
		functionARN: functionARN,
	}, nil
}

// HTTPProxyIntegration forwards every request to uri unchanged.
func HTTPProxyIntegration(uri string) *Integration {
	return &Integration{
		Type:       IntegrationHTTPProxy,
		HTTPMethod: "ANY",
		URI:        uri,
	}
}

// HTTPIntegration calls uri with the given method, using mapping templates.
func HTTPIntegration(method, uri string) *Integration {
	if method == "" {
		method = "GET"
	}
	return &Integration{
		Type:                IntegrationHTTP,
		HTTPMethod:          strings.ToUpper(method),
		URI:                 uri,
		PassthroughBehavior: PassthroughWhenNoMatch,
		Responses: map[string]IntegrationResponse{
			"default": {StatusCode: "200"},
		},
	}
}

// MockIntegration returns a canned response without calling a backend.
func MockIntegration(statusCode int) *Integration {
	if statusCode == 0 {
		statusCode = 200
	}
	return &Integration{
		Type:                IntegrationMock,
		PassthroughBehavior: PassthroughWhenNoMatch,
		RequestTemplates: map[string]string{
			"application/json": fmt.Sprintf(`{"statusCode": %d}`, statusCode),
		},
		Responses: map[string]IntegrationResponse{
			"default": {StatusCode: strconv.Itoa(statusCode)},
		},
	}
}

// AWSOptions configures an AWS service integration.
type AWSOptions struct {
	// Service is the AWS service name, e.g. "sqs" or "states".
	Service string
	// Action is a service action, e.g. "SendMessage". Mutually exclusive with Path.
	Action string
	// Path is a service path, e.g. "123456789012/queue". Mutually exclusive with Action.
	Path string
	// Region of the service endpoint.
	Region string
	// Partition defaults to "aws".
	Partition string
	// HTTPMethod defaults to POST.
	HTTPMethod string
	// Credentials is the IAM role ARN API Gateway assumes.
	Credentials       string
	RequestParameters map[string]string
	RequestTemplates  map[string]string
}

// AWSIntegration returns an integration calling an AWS service API.
func AWSIntegration(opts AWSOptions) (*Integration, error) {
	switch {
	case opts.Service == "":
		return nil, &oaserrors.ConfigError{Option: "service", Message: "service is required"}
	case opts.Region == "":
		return nil, &oaserrors.ConfigError{Option: "region", Message: "region is required for AWS service integrations"}
	case opts.Action == "" && opts.Path == "":
		return nil, &oaserrors.ConfigError{Option: "action", Message: "one of action or path is required"}
	case opts.Action != "" && opts.Path != "":
		return nil, &oaserrors.ConfigError{Option: "action", Message: "action and path are mutually exclusive"}
	}
	method := opts.HTTPMethod
	if method == "" {
		method = "POST"
	}
	return &Integration{
		Type:                IntegrationAWS,
		HTTPMethod:          strings.ToUpper(method),
		URI:                 serviceURI(opts.Partition, opts.Region, opts.Service, opts.Action, opts.Path),
		Credentials:         opts.Credentials,
		PassthroughBehavior: PassthroughWhenNoTemplates,
		RequestParameters:   opts.RequestParameters,
		RequestTemplates:    opts.RequestTemplates,
		Responses: map[string]IntegrationResponse{
			"default": {StatusCode: "200"},
		},
	}, nil
}

// VPCLink routes an HTTP integration through a VPC link.
func (in *Integration) VPCLink(id string) *Integration {
	in.ConnectionType = "VPC_LINK"
	in.ConnectionID = id
	return in
}

// FunctionARN returns the Lambda function invoked by the integration, if any.
func (in *Integration) FunctionARN() string {
	return in.functionARN
}

// validate checks the integration for fields API Gateway requires.
func (in *Integration) validate() error {
	switch in.Type {
	case IntegrationAWSProxy, IntegrationAWS:
		if in.URI == "" {
			return fmt.Errorf("%s integration requires a uri", in.Type)
		}
		if in.HTTPMethod == "" {
			return fmt.Errorf("%s integration requires an httpMethod", in.Type)
		}
	case IntegrationHTTP, IntegrationHTTPProxy:
		u, err := url.Parse(in.URI)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s integration requires an absolute http(s) uri, got %q", in.Type, in.URI)
		}
		if in.HTTPMethod == "" {
			return fmt.Errorf("%s integration requires an httpMethod", in.Type)
		}
	case IntegrationMock:
	default:
		return fmt.Errorf("unknown integration type %q", in.Type)
	}
	if in.PassthroughBehavior != "" && !slices.Contains(
		[]string{PassthroughWhenNoMatch, PassthroughWhenNoTemplates, PassthroughNever}, in.PassthroughBehavior) {
		return fmt.Errorf("unknown passthroughBehavior %q", in.PassthroughBehavior)
	}
	if in.TimeoutMillis != 0 && (in.TimeoutMillis < minTimeoutMillis || in.TimeoutMillis > maxTimeoutMillis) {
		return fmt.Errorf("timeoutInMillis must be between %d and %d", minTimeoutMillis, maxTimeoutMillis)
	}
	return nil
}

// Extension renders the integration as the value of
// x-amazon-apigateway-integration.
func (in *Integration) Extension() map[string]any {
	ext := map[string]any{"type": string(in.Type)}
	putString(ext, "httpMethod", in.HTTPMethod)
	putString(ext, "uri", in.URI)
	putString(ext, "credentials", in.Credentials)
	putString(ext, "connectionType", in.ConnectionType)
	putString(ext, "connectionId", in.ConnectionID)
	putString(ext, "passthroughBehavior", in.PassthroughBehavior)
	if in.TimeoutMillis > 0 {
		ext["timeoutInMillis"] = in.TimeoutMillis
	}
	if len(in.RequestParameters) > 0 {
		ext["requestParameters"] = in.RequestParameters
	}
	if len(in.RequestTemplates) > 0 {
		ext["requestTemplates"] = in.RequestTemplates
	}
	if len(in.Responses) > 0 {
		responses := make(map[string]any, len(in.Responses))
		for pattern, r := range in.Responses {
			resp := map[string]any{"statusCode": r.StatusCode}
			if len(r.ResponseParameters) > 0 {
				resp["responseParameters"] = r.ResponseParameters
			}
			if len(r.ResponseTemplates) > 0 {
				resp["responseTemplates"] = r.ResponseTemplates
			}
			responses[pattern] = resp
		}
		ext["responses"] = responses
	}
	return ext
}

func putString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
