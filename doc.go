// Package openapix edits OpenAPI documents in place and prepares them for
// AWS API Gateway.
//
// A document is loaded once, mutated through dotted paths, and written back
// out as YAML, JSON or a stored asset. Key order, comments and anchors of the
// source survive every edit.
//
// # Packages
//
//   - schema: load a document and get, set, inject or reject values by path
//   - apigw: add x-amazon-apigateway-* integrations, validators, authorizers and CORS
//   - asset: store a serialized document on disk or in S3 under a content hash
//   - oaserrors: structured error types shared by all packages
//
// # Quick Start
//
// Load a document and set a value:
//
//	import "github.com/erraggy/openapix/schema"
//
//	s, err := schema.FromAsset("openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := s.Set("info.x-owner", "payments"); err != nil {
//		log.Fatal(err)
//	}
//	out, _ := s.ToYAML()
//
// Paths are split on dots. Keys that contain a dot, such as "/v1.0/health",
// are reached through the segment variants:
//
//	s.GetIn("paths", "/v1.0/health", "get")
//
// Wire every operation to a Lambda function:
//
//	import "github.com/erraggy/openapix/apigw"
//
//	fn, err := apigw.LambdaIntegration("arn:aws:lambda:us-east-1:123456789012:function:pets")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := apigw.Synthesize(s, apigw.Props{DefaultIntegration: fn})
//
// # Command Line
//
// The openapix command exposes the same operations:
//
//	openapix get openapi.yaml info.title
//	openapix set openapi.yaml info.version 2.0.0 --string -o out.yaml
//	openapix synth openapi.yaml --config apigw.yaml
//	openapix mcp
//
// The mcp subcommand serves the operations as Model Context Protocol tools
// over stdio.
package openapix
