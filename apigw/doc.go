// Package apigw writes Amazon API Gateway extensions into OpenAPI documents.
//
// An API Gateway REST API imported from OpenAPI needs every operation bound
// to a backend through x-amazon-apigateway-integration, plus optional
// request validators, authorizers and API-level settings. Synthesize takes a
// schema.Schema and a Props value describing those and applies them in a
// fixed order:
//
//  1. Injections, then Rejections and RejectionsDeep
//  2. API key source, binary media types, minimum compression size
//  3. x-amazon-apigateway-request-validators and the default validator
//  4. Authorizers as components.securitySchemes entries
//  5. Integrations for every operation
//  6. CORS preflight options operations
//
// Example:
//
//	s, _ := schema.FromAsset("openapi.yaml")
//	fn, _ := apigw.LambdaIntegration("arn:aws:lambda:us-east-1:123456789012:function:pets")
//	res, err := apigw.Synthesize(s, apigw.Props{
//	    DefaultIntegration: fn,
//	    DefaultCors:        &apigw.Cors{},
//	})
//
// Every operation must end up with an integration: one configured in
// Props.Paths, one already present in the document, or the
// DefaultIntegration. Synthesize fails listing the operations left without
// one.
//
// Config is the serializable form of Props used by configuration files.
package apigw
