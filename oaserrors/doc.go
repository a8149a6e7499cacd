// Package oaserrors provides structured error types for the openapix library.
//
// Import path: github.com/erraggy/openapix/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between document problems, invalid input and
// storage failures.
//
// # Error Types
//
//   - [ParseError]: YAML/JSON parsing failures and non-mapping document roots
//   - [ValidationError]: OpenAPI document violations and unsatisfiable API Gateway configuration
//   - [ConfigError]: Invalid options, paths or values passed by the caller
//   - [AssetError]: Failures storing a serialized document
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrValidation]: Matches any [ValidationError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrAsset]: Matches any [AssetError]
//
// # Usage
//
//	s, err := schema.FromAsset("api.yaml")
//	if err != nil {
//	    var pe *oaserrors.ParseError
//	    if errors.As(err, &pe) && pe.Line > 0 {
//	        fmt.Printf("broken YAML at line %d\n", pe.Line)
//	    }
//	}
package oaserrors
