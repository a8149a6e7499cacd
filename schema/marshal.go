package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// yamlIndent is the indentation used for YAML output.
const yamlIndent = 2

// ToDocument returns the live root mapping node of the document.
//
// No copy is made: changes to the returned node are changes to the Schema.
// Use Clone first when an independent tree is required.
func (s *Schema) ToDocument() *yaml.Node {
	return s.root()
}

// ToValue returns the document converted to plain Go values.
func (s *Schema) ToValue() map[string]any {
	m, _ := nodeToValue(s.root()).(map[string]any)
	return m
}

// ToYAML renders the current document as YAML, preserving key order.
func (s *Schema) ToYAML() ([]byte, error) {
	return encodeYAML(s.doc, s.format == SourceFormatJSON)
}

func encodeYAML(node *yaml.Node, block bool) ([]byte, error) {
	if block {
		node = copyNode(node, nil)
		blockStyle(node, make(map[*yaml.Node]bool))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("schema: failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("schema: failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ToJSON renders the current document as compact JSON, preserving key order.
func (s *Schema) ToJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalNodeAsJSON(&buf, s.root(), 0); err != nil {
		return nil, fmt.Errorf("schema: failed to marshal JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// ToJSONIndent renders the current document as indented JSON, preserving
// key order.
func (s *Schema) ToJSONIndent(prefix, indent string) ([]byte, error) {
	data, err := s.ToJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, prefix, indent); err != nil {
		return nil, fmt.Errorf("schema: failed to indent JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// Marshal renders the document in the given format. SourceFormatUnknown
// selects the Schema's output format.
func (s *Schema) Marshal(format SourceFormat) ([]byte, error) {
	if format == SourceFormatUnknown || format == "" {
		format = s.OutputFormat()
	}
	if format == SourceFormatJSON {
		return s.ToJSONIndent("", "  ")
	}
	return s.ToYAML()
}

// MarshalIn renders the value at segments in the given format and reports
// whether it exists. YAML output is always block style; JSON output is
// indented. Key order is preserved either way.
func (s *Schema) MarshalIn(format SourceFormat, segments ...string) ([]byte, bool, error) {
	n, ok := lookup(s.root(), segments)
	if !ok {
		return nil, false, nil
	}
	if format == SourceFormatUnknown || format == "" {
		format = s.OutputFormat()
	}
	if format != SourceFormatJSON {
		data, err := encodeYAML(n, true)
		return data, true, err
	}

	var buf bytes.Buffer
	if err := marshalNodeAsJSON(&buf, n, 0); err != nil {
		return nil, true, fmt.Errorf("schema: failed to marshal JSON: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, true, fmt.Errorf("schema: failed to indent JSON: %w", err)
	}
	return out.Bytes(), true, nil
}

// maxJSONDepth bounds recursion through alias cycles.
const maxJSONDepth = 10000

// marshalNodeAsJSON writes a yaml.Node to a buffer as JSON, keeping the key
// order of mapping nodes.
func marshalNodeAsJSON(buf *bytes.Buffer, node *yaml.Node, depth int) error {
	if depth > maxJSONDepth {
		return fmt.Errorf("document nesting exceeds %d levels", maxJSONDepth)
	}
	node = resolveAlias(node)
	if node == nil {
		buf.WriteString("null")
		return nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return marshalNodeAsJSON(buf, node.Content[0], depth+1)

	case yaml.MappingNode:
		buf.WriteByte('{')
		seen := make(map[string]bool, len(node.Content)/2)
		first := true
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if seen[key] {
				continue
			}
			seen[key] = true

			if !first {
				buf.WriteByte(',')
			}
			first = false

			if err := writeJSON(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := marshalNodeAsJSON(buf, node.Content[i+1], depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalNodeAsJSON(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	default:
		return writeJSON(buf, scalarValue(node))
	}
}

// writeJSON marshals a value to JSON and writes it to the buffer.
func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
