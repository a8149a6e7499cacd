package apigw

import (
	"testing"

	"github.com/erraggy/openapix/oaserrors"
	"github.com/erraggy/openapix/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: ok
          content:
            application/json:
              example: [{id: 1}]
    post:
      operationId: createPet
      responses:
        "201":
          description: created
  /pets/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema: {type: string}
    get:
      operationId: getPet
      responses:
        "200":
          description: ok
  /v1.0/health:
    get:
      responses:
        "200":
          description: ok
`

func loadPetstore(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.FromInline(petstore)
	require.NoError(t, err)
	return s
}

func mustLambda(t *testing.T) *Integration {
	t.Helper()
	in, err := LambdaIntegration(testFunctionARN)
	require.NoError(t, err)
	return in
}

func TestOperations(t *testing.T) {
	ops := operations(loadPetstore(t))
	var names []string
	for _, op := range ops {
		names = append(names, op.String())
	}
	assert.Equal(t, []string{"GET /pets", "POST /pets", "GET /pets/{id}", "GET /v1.0/health"}, names)
}

func TestMethodKey(t *testing.T) {
	k, ok := methodKey("GET")
	assert.True(t, ok)
	assert.Equal(t, "get", k)
	k, ok = methodKey("any")
	assert.True(t, ok)
	assert.Equal(t, AnyMethodKey, k)
	_, ok = methodKey("connect")
	assert.False(t, ok)
}

func TestSynthesize_DefaultIntegration(t *testing.T) {
	s := loadPetstore(t)
	res, err := Synthesize(s, Props{DefaultIntegration: mustLambda(t)})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Integrations)
	assert.Equal(t, []string{testFunctionARN}, res.LambdaFunctions)

	typ, ok := s.GetIn("paths", "/v1.0/health", "get", IntegrationKey, "type")
	require.True(t, ok)
	assert.Equal(t, "aws_proxy", typ)
	assert.True(t, s.HasIn("paths", "/pets/{id}", "get", IntegrationKey))
	assert.False(t, s.HasIn("paths", "/pets/{id}", "parameters", IntegrationKey))
}

func TestSynthesize_MissingIntegration(t *testing.T) {
	s := loadPetstore(t)
	_, err := Synthesize(s, Props{
		Paths: map[string]map[string]Method{
			"/pets": {"get": {Integration: MockIntegration(200)}},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrValidation)
	assert.Contains(t, err.Error(), "POST /pets")
	assert.Contains(t, err.Error(), "GET /pets/{id}")
	assert.Contains(t, err.Error(), "GET /v1.0/health")
	assert.NotContains(t, err.Error(), "GET /pets,")

	// Nothing was written since integrations are planned before writing.
	assert.False(t, s.HasIn("paths", "/pets", "get", IntegrationKey))
}

func TestSynthesize_ExistingIntegrationCounts(t *testing.T) {
	s := loadPetstore(t)
	for _, seg := range [][]string{
		{"paths", "/pets", "get"},
		{"paths", "/pets", "post"},
		{"paths", "/pets/{id}", "get"},
		{"paths", "/v1.0/health", "get"},
	} {
		require.NoError(t, s.SetIn(append(seg, IntegrationKey), map[string]any{"type": "mock"}))
	}
	res, err := Synthesize(s, Props{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Integrations)
}

func TestSynthesize_ConfiguredOverridesDefault(t *testing.T) {
	s := loadPetstore(t)
	_, err := Synthesize(s, Props{
		DefaultIntegration: MockIntegration(200),
		Paths: map[string]map[string]Method{
			"/pets": {
				"POST": {Integration: HTTPProxyIntegration("https://backend.example.com/pets")},
			},
		},
	})
	require.NoError(t, err)

	typ, _ := s.GetIn("paths", "/pets", "post", IntegrationKey, "type")
	assert.Equal(t, "http_proxy", typ)
	typ, _ = s.GetIn("paths", "/pets", "get", IntegrationKey, "type")
	assert.Equal(t, "mock", typ)
}

func TestSynthesize_UnknownOperation(t *testing.T) {
	s := loadPetstore(t)
	_, err := Synthesize(s, Props{
		DefaultIntegration: MockIntegration(200),
		Paths: map[string]map[string]Method{
			"/dogs": {"get": {Integration: MockIntegration(200)}},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrValidation)
	assert.Contains(t, err.Error(), "GET /dogs")

	_, err = Synthesize(loadPetstore(t), Props{
		Paths: map[string]map[string]Method{
			"/pets": {"fetch": {Integration: MockIntegration(200)}},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestSynthesize_AnyMethod(t *testing.T) {
	s, err := schema.FromInline("openapi: 3.0.3\ninfo: {title: t, version: v}\npaths:\n  /{proxy+}:\n    x-amazon-apigateway-any-method:\n      responses: {}\n")
	require.NoError(t, err)

	_, err = Synthesize(s, Props{
		Paths: map[string]map[string]Method{
			"/{proxy+}": {"any": {Integration: HTTPProxyIntegration("https://backend.example.com/{proxy}")}},
		},
	})
	require.NoError(t, err)
	assert.True(t, s.HasIn("paths", "/{proxy+}", AnyMethodKey, IntegrationKey))
}

func TestSynthesize_InjectAndReject(t *testing.T) {
	s := loadPetstore(t)
	res, err := Synthesize(s, Props{
		Injections: []schema.Record{
			{Path: "info.title", Value: "Injected"},
			{Path: "info.x-owner", Value: "team"},
		},
		Rejections:         []string{"info.version", "info.missing"},
		RejectionsDeep:     []string{"example"},
		DefaultIntegration: MockIntegration(200),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rejected)

	title, _ := s.Get("info.title")
	assert.Equal(t, "Injected", title)
	assert.False(t, s.Has("info.version"))
	assert.False(t, s.Has("paths./pets.get.responses.200.content.application/json.example"))
}

func TestSynthesize_InjectionFailure(t *testing.T) {
	s := loadPetstore(t)
	_, err := Synthesize(s, Props{
		Injections: []schema.Record{{Path: "", Value: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestSynthesize_Settings(t *testing.T) {
	s := loadPetstore(t)
	size := 1024
	_, err := Synthesize(s, Props{
		APIKeySource:           APIKeySourceHeader,
		BinaryMediaTypes:       []string{"image/png", "application/octet-stream"},
		MinimumCompressionSize: &size,
		DefaultIntegration:     MockIntegration(200),
	})
	require.NoError(t, err)

	v, _ := s.GetIn(APIKeySourceKey)
	assert.Equal(t, "HEADER", v)
	v, _ = s.GetIn(BinaryMediaTypesKey)
	assert.Equal(t, []any{"image/png", "application/octet-stream"}, v)
	v, _ = s.GetIn(MinimumCompressionSizeKey)
	assert.Equal(t, 1024, v)
}

func TestSynthesize_InvalidSettings(t *testing.T) {
	big := maxCompressionSize + 1
	tests := []struct {
		name  string
		props Props
	}{
		{"api key source", Props{APIKeySource: "QUERY"}},
		{"compression", Props{MinimumCompressionSize: &big}},
		{"two defaults", Props{Validators: map[string]Validator{"a": {Default: true}, "b": {Default: true}}}},
		{"duplicate authorizer", Props{Authorizers: []Authorizer{
			{ID: "a", Type: AuthorizerToken, FunctionARN: testFunctionARN},
			{ID: "a", Type: AuthorizerToken, FunctionARN: testFunctionARN},
		}}},
		{"bad default integration", Props{DefaultIntegration: &Integration{Type: "grpc"}}},
		{"bad cors", Props{DefaultCors: &Cors{StatusCode: 500}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadPetstore(t)
			before, err := s.ToYAML()
			require.NoError(t, err)

			_, err = Synthesize(s, tt.props)
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)

			after, err := s.ToYAML()
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after))
		})
	}
}

func TestSynthesize_Validators(t *testing.T) {
	s := loadPetstore(t)
	res, err := Synthesize(s, Props{
		Validators: map[string]Validator{
			"all":         {ValidateRequestBody: true, ValidateRequestParameters: true, Default: true},
			"params-only": {ValidateRequestParameters: true},
		},
		Paths: map[string]map[string]Method{
			"/pets": {"post": {Integration: MockIntegration(201), Validator: "params-only"}},
		},
		DefaultIntegration: MockIntegration(200),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Validators)

	v, _ := s.GetIn(RequestValidatorsKey, "all")
	assert.Equal(t, map[string]any{"validateRequestBody": true, "validateRequestParameters": true}, v)
	v, _ = s.GetIn(RequestValidatorKey)
	assert.Equal(t, "all", v)
	v, _ = s.GetIn("paths", "/pets", "post", RequestValidatorKey)
	assert.Equal(t, "params-only", v)
	assert.False(t, s.HasIn("paths", "/pets", "get", RequestValidatorKey))
}

func TestSynthesize_UnknownValidator(t *testing.T) {
	_, err := Synthesize(loadPetstore(t), Props{
		Paths: map[string]map[string]Method{
			"/pets": {"get": {Validator: "nope"}},
		},
		DefaultIntegration: MockIntegration(200),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrValidation)
	assert.Contains(t, err.Error(), "unknown request validator")
}

func TestSynthesize_DocumentErrorsAfterWrites(t *testing.T) {
	props := Props{
		Injections: []schema.Record{{Path: "info.x-stage", Value: "prod"}},
		Paths: map[string]map[string]Method{
			"/pets": {"get": {Validator: "nope"}},
		},
		DefaultIntegration: MockIntegration(200),
	}

	s := loadPetstore(t)
	_, err := Synthesize(s, props)
	require.Error(t, err)
	assert.True(t, s.Has("info.x-stage"), "injections run before document checks")

	original := loadPetstore(t)
	_, err = Synthesize(original.Clone(), props)
	require.Error(t, err)
	assert.False(t, original.Has("info.x-stage"))
}

func TestSynthesize_Authorizers(t *testing.T) {
	s := loadPetstore(t)
	authFn := "arn:aws:lambda:eu-west-1:123456789012:function:auth"
	res, err := Synthesize(s, Props{
		Authorizers: []Authorizer{
			{ID: "Custom", Type: AuthorizerToken, FunctionARN: authFn},
			{ID: "Pool", Type: AuthorizerCognito, ProviderARNs: []string{"arn:aws:cognito-idp:eu-west-1:123456789012:userpool/x"}},
		},
		Paths: map[string]map[string]Method{
			"/pets": {"post": {Authorizer: "Pool"}},
		},
		DefaultIntegration: mustLambda(t),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Authorizers)
	assert.Equal(t, []string{authFn, testFunctionARN}, res.LambdaFunctions)

	v, _ := s.Get("components.securitySchemes.Custom.x-amazon-apigateway-authtype")
	assert.Equal(t, "custom", v)
	v, _ = s.Get("components.securitySchemes.Pool.x-amazon-apigateway-authorizer.type")
	assert.Equal(t, "cognito_user_pools", v)
	v, _ = s.GetIn("paths", "/pets", "post", "security")
	assert.Equal(t, []any{map[string]any{"Pool": []any{}}}, v)
}

func TestSynthesize_UnknownAuthorizer(t *testing.T) {
	_, err := Synthesize(loadPetstore(t), Props{
		Paths: map[string]map[string]Method{
			"/pets": {"get": {Authorizer: "Ghost"}},
		},
		DefaultIntegration: MockIntegration(200),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrValidation)
}

func TestSynthesize_DefaultCors(t *testing.T) {
	s := loadPetstore(t)
	require.NoError(t, s.SetIn([]string{"paths", "/v1.0/health", "options", "responses"}, map[string]any{}))
	require.NoError(t, s.SetIn([]string{"paths", "/v1.0/health", "options", IntegrationKey}, map[string]any{"type": "mock"}))

	res, err := Synthesize(s, Props{
		DefaultIntegration: mustLambda(t),
		DefaultCors:        &Cors{AllowOrigins: []string{"https://app.example.com"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.CorsOperations)

	for _, path := range []string{"/pets", "/pets/{id}"} {
		v, ok := s.GetIn("paths", path, "options", IntegrationKey, "responses", "default", "responseParameters",
			"method.response.header.Access-Control-Allow-Origin")
		require.True(t, ok, path)
		assert.Equal(t, "'https://app.example.com'", v)
		assert.True(t, s.HasIn("paths", path, "options", "responses", "204", "headers", "Access-Control-Allow-Origin"))
		assert.True(t, s.HasIn("paths", path, "options", "responses", "204", "headers", "Vary"))
	}

	// The existing preflight operation is left alone.
	v, _ := s.GetIn("paths", "/v1.0/health", "options", IntegrationKey)
	assert.Equal(t, map[string]any{"type": "mock"}, v)
	assert.Equal(t, "GET /pets", operation{path: "/pets", method: "get"}.String())
}

func TestSynthesize_CorsSkipsRefs(t *testing.T) {
	s, err := schema.FromInline("openapi: 3.0.3\ninfo: {title: t, version: v}\npaths:\n  /a:\n    $ref: '#/components/pathItems/a'\n")
	require.NoError(t, err)
	res, err := Synthesize(s, Props{DefaultCors: &Cors{}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.CorsOperations)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "/a")
}

func TestSynthesize_ExplicitCorsIntegration(t *testing.T) {
	s := loadPetstore(t)
	require.NoError(t, s.SetIn([]string{"paths", "/pets", "options", "summary"}, "preflight"))

	_, err := Synthesize(s, Props{
		Paths: map[string]map[string]Method{
			"/pets": {"options": {Integration: CorsIntegration(Cors{StatusCode: 200})}},
		},
		DefaultIntegration: MockIntegration(200),
	})
	require.NoError(t, err)
	assert.True(t, s.HasIn("paths", "/pets", "options", "responses", "200", "headers", "Access-Control-Allow-Methods"))
	desc, _ := s.GetIn("paths", "/pets", "options", "responses", "200", "description")
	assert.Equal(t, "Default response for CORS method", desc)
}

func TestSynthesize_NilSchema(t *testing.T) {
	_, err := Synthesize(nil, Props{})
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestSynthesize_ValidatesAsOpenAPI(t *testing.T) {
	s := loadPetstore(t)
	_, err := Synthesize(s, Props{
		DefaultIntegration: mustLambda(t),
		DefaultCors:        &Cors{},
		Validators:         map[string]Validator{"all": {ValidateRequestBody: true, ValidateRequestParameters: true, Default: true}},
	})
	require.NoError(t, err)
	assert.NoError(t, s.Validate())
}
