package apigw

import (
	"fmt"
	"strings"
)

// AuthorizerType selects the kind of API Gateway authorizer.
type AuthorizerType string

const (
	// AuthorizerToken is a Lambda authorizer receiving a single token.
	AuthorizerToken AuthorizerType = "token"
	// AuthorizerRequest is a Lambda authorizer receiving request parameters.
	AuthorizerRequest AuthorizerType = "request"
	// AuthorizerCognito validates tokens issued by Cognito user pools.
	AuthorizerCognito AuthorizerType = "cognito_user_pools"
)

const (
	defaultIdentitySource = "method.request.header.Authorization"
	maxResultsCacheTTL    = 3600
)

// Authorizer is registered as a security scheme carrying an
// x-amazon-apigateway-authorizer extension.
type Authorizer struct {
	// ID names the security scheme under components.securitySchemes.
	ID   string         `json:"id"`
	Type AuthorizerType `json:"type"`
	// FunctionARN is the Lambda authorizer function (token and request types).
	FunctionARN string `json:"functionArn,omitempty"`
	// Credentials is the IAM role API Gateway assumes to invoke the function.
	Credentials string `json:"credentials,omitempty"`
	// IdentitySource defaults to method.request.header.Authorization.
	IdentitySource string `json:"identitySource,omitempty"`
	// IdentityValidationExpression is a regular expression applied to token
	// and Cognito identities before the authorizer runs.
	IdentityValidationExpression string `json:"identityValidationExpression,omitempty"`
	// ResultsCacheTTL is the authorizer result cache time in seconds.
	// Nil keeps the API Gateway default of 300.
	ResultsCacheTTL *int `json:"resultsCacheTtl,omitempty"`
	// ProviderARNs lists Cognito user pool ARNs (cognito_user_pools type).
	ProviderARNs []string `json:"providerArns,omitempty"`
}

func (a Authorizer) identitySource() string {
	if a.IdentitySource != "" {
		return a.IdentitySource
	}
	return defaultIdentitySource
}

// headerName returns the header a security scheme names for the authorizer.
// Request authorizers without a header identity report "Unused".
func (a Authorizer) headerName() string {
	for _, src := range strings.Split(a.identitySource(), ",") {
		src = strings.TrimSpace(src)
		if name, ok := strings.CutPrefix(src, "method.request.header."); ok {
			return name
		}
	}
	return "Unused"
}

func (a Authorizer) validate() error {
	if a.ID == "" {
		return fmt.Errorf("authorizer id is required")
	}
	if a.ResultsCacheTTL != nil && (*a.ResultsCacheTTL < 0 || *a.ResultsCacheTTL > maxResultsCacheTTL) {
		return fmt.Errorf("authorizer %s: resultsCacheTtl must be between 0 and %d", a.ID, maxResultsCacheTTL)
	}
	switch a.Type {
	case AuthorizerToken, AuthorizerRequest:
		if _, err := parseFunctionARN(a.FunctionARN); err != nil {
			return fmt.Errorf("authorizer %s: %w", a.ID, err)
		}
		if len(a.ProviderARNs) > 0 {
			return fmt.Errorf("authorizer %s: providerArns only apply to cognito_user_pools authorizers", a.ID)
		}
	case AuthorizerCognito:
		if len(a.ProviderARNs) == 0 {
			return fmt.Errorf("authorizer %s: at least one provider ARN is required", a.ID)
		}
		if a.FunctionARN != "" {
			return fmt.Errorf("authorizer %s: functionArn does not apply to cognito_user_pools authorizers", a.ID)
		}
	default:
		return fmt.Errorf("authorizer %s: unknown type %q", a.ID, a.Type)
	}
	return nil
}

// SecurityScheme renders the components.securitySchemes entry.
func (a Authorizer) SecurityScheme() (map[string]any, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	ext := map[string]any{
		"type":           string(a.Type),
		"identitySource": a.identitySource(),
	}
	authType := "custom"
	switch a.Type {
	case AuthorizerCognito:
		authType = string(AuthorizerCognito)
		ext["providerARNs"] = a.ProviderARNs
	default:
		uri, err := lambdaInvocationURI(a.FunctionARN)
		if err != nil {
			return nil, err
		}
		ext["authorizerUri"] = uri
		putString(ext, "authorizerCredentials", a.Credentials)
	}
	if a.Type != AuthorizerRequest {
		putString(ext, "identityValidationExpression", a.IdentityValidationExpression)
	}
	if a.ResultsCacheTTL != nil {
		ext["authorizerResultTtlInSeconds"] = *a.ResultsCacheTTL
	}

	return map[string]any{
		"type":                           "apiKey",
		"name":                           a.headerName(),
		"in":                             "header",
		"x-amazon-apigateway-authtype":   authType,
		"x-amazon-apigateway-authorizer": ext,
	}, nil
}
