package apigw

import (
	"github.com/erraggy/openapix/schema"
)

// Extension keys written into the document.
const (
	IntegrationKey            = "x-amazon-apigateway-integration"
	RequestValidatorsKey      = "x-amazon-apigateway-request-validators"
	RequestValidatorKey       = "x-amazon-apigateway-request-validator"
	APIKeySourceKey           = "x-amazon-apigateway-api-key-source"
	BinaryMediaTypesKey       = "x-amazon-apigateway-binary-media-types"
	MinimumCompressionSizeKey = "x-amazon-apigateway-minimum-compression-size"
	AnyMethodKey              = "x-amazon-apigateway-any-method"
)

// API key sources accepted by x-amazon-apigateway-api-key-source.
const (
	APIKeySourceHeader     = "HEADER"
	APIKeySourceAuthorizer = "AUTHORIZER"
)

// maxCompressionSize is the largest minimum compression size API Gateway accepts.
const maxCompressionSize = 10485760

// Props configures Synthesize.
type Props struct {
	// Injections are applied first, in order.
	Injections []schema.Record
	// Rejections are dotted paths removed after injection.
	Rejections []string
	// RejectionsDeep are key names removed at any depth after injection.
	RejectionsDeep []string

	// APIKeySource is HEADER or AUTHORIZER; empty leaves the document as is.
	APIKeySource           string
	BinaryMediaTypes       []string
	MinimumCompressionSize *int

	// Validators are keyed by name. At most one may be the default.
	Validators map[string]Validator
	// Authorizers become components.securitySchemes entries.
	Authorizers []Authorizer

	// Paths configures operations by path and lowercase HTTP method.
	// The method "any" addresses x-amazon-apigateway-any-method.
	Paths map[string]map[string]Method
	// DefaultIntegration applies to operations not listed in Paths.
	DefaultIntegration *Integration
	// DefaultCors adds a preflight options operation to every path without one.
	DefaultCors *Cors
}

// Method configures a single operation.
type Method struct {
	Integration *Integration
	// Validator names a request validator for this operation.
	Validator string
	// Authorizer, when set, makes the operation require that security scheme.
	Authorizer string
}

// Validator is an entry of x-amazon-apigateway-request-validators.
type Validator struct {
	ValidateRequestBody       bool `json:"validateRequestBody"`
	ValidateRequestParameters bool `json:"validateRequestParameters"`
	// Default makes this the API-wide validator.
	Default bool `json:"default,omitempty"`
}

// Result summarizes what Synthesize changed.
type Result struct {
	Rejected       int `json:"rejected"`
	Integrations   int `json:"integrations"`
	Validators     int `json:"validators"`
	Authorizers    int `json:"authorizers"`
	CorsOperations int `json:"corsOperations"`
	// LambdaFunctions lists the function ARNs the API invokes, including
	// authorizers, in first-use order. Each needs an invoke permission for
	// apigateway.amazonaws.com.
	LambdaFunctions []string `json:"lambdaFunctions,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

func (r *Result) addFunction(arn string) {
	if arn == "" {
		return
	}
	for _, existing := range r.LambdaFunctions {
		if existing == arn {
			return
		}
	}
	r.LambdaFunctions = append(r.LambdaFunctions, arn)
}
