// Package schema loads, mutates and serializes OpenAPI documents.
//
// A Schema holds a YAML or JSON document as an order-preserving node tree.
// Values are addressed by dotted paths such as "info.title" or
// "paths./pets.get"; numeric segments index into sequences
// ("servers.0.url").
//
// # Quick Start
//
//	s, err := schema.FromAsset("openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Set("info.x-owner", "platform-team"); err != nil {
//	    log.Fatal(err) // *oaserrors.ConfigError for the empty path or an unrepresentable value
//	}
//	s.Reject("info.contact")
//	s.RejectDeep("example", "examples")
//	out, _ := s.ToYAML()
//
// # Paths
//
// The empty path addresses the whole document. Set creates missing
// intermediate mappings and appends new keys after existing ones, so the
// rendered output keeps the source key order. There is no escaping for
// keys that contain a dot; use the segment-based variants GetIn, HasIn,
// SetIn and RejectIn for those:
//
//	s.SetIn([]string{"paths", "/v1.0/users", "get", "operationId"}, "listUsers")
//
// # Injection and rejection
//
// Inject applies records in order and stops at the first failure; records
// applied before the failure remain. Reject and RejectDeep ignore missing
// targets, so running them twice has the same effect as running them once.
//
// # Serialization
//
// ToYAML and ToJSON render the current state. ToDocument exposes the live
// node tree without copying. ToAsset stores the rendered document through
// an asset.Store.
package schema
