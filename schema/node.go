package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

const (
	tagNull  = "!!null"
	tagBool  = "!!bool"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagStr   = "!!str"
	tagMap   = "!!map"
	tagSeq   = "!!seq"
)

// yamlFloat matches plain scalars that YAML 1.2 resolves as floats.
var yamlFloat = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)

// scalarNode creates a yaml.Node for a scalar value.
func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func nullNode() *yaml.Node {
	return scalarNode(tagNull, "null")
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap}
}

// resolveAlias follows alias nodes to the anchored node they reference.
func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isContainer(n *yaml.Node) bool {
	return n != nil && (n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode)
}

// keyIndex returns the index of the key node for key within a mapping, or -1.
// Duplicate keys resolve to the first occurrence.
func keyIndex(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// mappingKeys returns the keys from a MappingNode in their document order.
func mappingKeys(m *yaml.Node) []string {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys
}

// parseIndex parses a path segment as a sequence index.
func parseIndex(seg string) (int, bool) {
	if seg == "" || (len(seg) > 1 && seg[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// maxExactInt is the largest magnitude at which every integer is exactly
// representable as a float64.
const maxExactInt = 1 << 53

// floatNode converts f to a scalar. Integral values within ±2^53 become
// !!int, since decoded JSON carries every number as a float64.
func floatNode(f float64) *yaml.Node {
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
		return scalarNode(tagInt, strconv.FormatInt(int64(f), 10))
	}
	return scalarNode(tagFloat, formatFloat(f))
}

// formatFloat renders a float so that YAML resolves it back to !!float.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// valueToNode converts a Go value to a yaml.Node.
//
// Map keys are emitted in sorted order since Go maps carry no ordering.
// A *yaml.Node value is deep-copied so the caller keeps ownership.
func valueToNode(v any) (*yaml.Node, error) {
	if v == nil {
		return nullNode(), nil
	}

	switch val := v.(type) {
	case *yaml.Node:
		if val == nil {
			return nullNode(), nil
		}
		if val.Kind == yaml.DocumentNode && len(val.Content) > 0 {
			return copyNode(val.Content[0], nil), nil
		}
		return copyNode(val, nil), nil
	case yaml.Node:
		return valueToNode(&val)
	case bool:
		return scalarNode(tagBool, strconv.FormatBool(val)), nil
	case string:
		return scalarNode(tagStr, val), nil
	case int:
		return scalarNode(tagInt, strconv.Itoa(val)), nil
	case int8, int16, int32, int64:
		return scalarNode(tagInt, strconv.FormatInt(reflect.ValueOf(val).Int(), 10)), nil
	case uint, uint8, uint16, uint32, uint64:
		return scalarNode(tagInt, strconv.FormatUint(reflect.ValueOf(val).Uint(), 10)), nil
	case float32:
		return floatNode(float64(val)), nil
	case float64:
		return floatNode(val), nil
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return scalarNode(tagInt, val.String()), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return scalarNode(tagFloat, formatFloat(f)), nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq, Content: make([]*yaml.Node, 0, len(val))}
		for _, item := range val {
			child, err := valueToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case []string:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq, Content: make([]*yaml.Node, 0, len(val))}
		for _, item := range val {
			node.Content = append(node.Content, scalarNode(tagStr, item))
		}
		return node, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		node := newMapping()
		node.Content = make([]*yaml.Node, 0, len(keys)*2)
		for _, k := range keys {
			valNode, err := valueToNode(val[k])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalarNode(tagStr, k), valNode)
		}
		return node, nil
	case map[string]string:
		generic := make(map[string]any, len(val))
		for k, s := range val {
			generic[k] = s
		}
		return valueToNode(generic)
	default:
		// Structs and other typed values go through their JSON form.
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %T to a document value: %w", v, err)
		}
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, err
		}
		return valueToNode(result)
	}
}

// nodeToValue converts a yaml.Node into plain Go values: map[string]any,
// []any, string, int, int64, uint64, float64, bool or nil.
func nodeToValue(n *yaml.Node) any {
	n = resolveAlias(n)
	if n == nil {
		return nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return nodeToValue(n.Content[0])
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if _, dup := out[key]; dup {
				continue
			}
			out[key] = nodeToValue(n.Content[i+1])
		}
		return out
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			out = append(out, nodeToValue(item))
		}
		return out
	case yaml.ScalarNode:
		return scalarValue(n)
	default:
		return nil
	}
}

// scalarTag returns the resolved short tag of a scalar node.
func scalarTag(n *yaml.Node) string {
	if n.Tag != "" && n.Tag != "!" {
		return n.Tag
	}
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return tagStr
	}
	switch n.Value {
	case "", "~", "null", "Null", "NULL":
		return tagNull
	case "true", "True", "TRUE", "false", "False", "FALSE":
		return tagBool
	case ".inf", ".Inf", ".INF", "+.inf", "-.inf", "-.Inf", "-.INF", ".nan", ".NaN", ".NAN":
		return tagFloat
	}
	if _, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
		return tagInt
	}
	if yamlFloat.MatchString(n.Value) {
		return tagFloat
	}
	return tagStr
}

func scalarValue(n *yaml.Node) any {
	switch scalarTag(n) {
	case tagNull:
		return nil
	case tagBool:
		b, err := strconv.ParseBool(strings.ToLower(n.Value))
		if err != nil {
			return n.Value
		}
		return b
	case tagInt:
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			if i >= math.MinInt && i <= math.MaxInt {
				return int(i)
			}
			return i
		}
		if u, err := strconv.ParseUint(n.Value, 0, 64); err == nil {
			return u
		}
		return n.Value
	case tagFloat:
		switch strings.ToLower(n.Value) {
		case ".inf", "+.inf":
			return math.Inf(1)
		case "-.inf":
			return math.Inf(-1)
		case ".nan":
			return math.NaN()
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return n.Value
		}
		return f
	default:
		return n.Value
	}
}

// copyNode deep-copies a node tree. Anchors shared between nodes in the
// source stay shared in the copy; memo tracks already copied nodes.
func copyNode(n *yaml.Node, memo map[*yaml.Node]*yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if memo == nil {
		memo = make(map[*yaml.Node]*yaml.Node)
	}
	if c, ok := memo[n]; ok {
		return c
	}
	c := *n
	memo[n] = &c
	if n.Alias != nil {
		c.Alias = copyNode(n.Alias, memo)
	}
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = copyNode(child, memo)
		}
	}
	return &c
}

// blockStyle clears flow and quoting styles so JSON-sourced trees render as
// conventional block YAML. Tags are kept, so the encoder still quotes strings
// that would otherwise resolve to another type.
func blockStyle(n *yaml.Node, seen map[*yaml.Node]bool) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		n.Style &^= yaml.FlowStyle
	case yaml.ScalarNode:
		if !strings.Contains(n.Value, "\n") {
			n.Style &^= yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle
		}
	}
	for _, child := range n.Content {
		blockStyle(child, seen)
	}
}
