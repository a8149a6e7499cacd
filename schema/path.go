package schema

import (
	"strings"

	"go.yaml.in/yaml/v4"
)

// PathSeparator separates segments in a dotted path such as "info.title".
//
// There is no escaping: a key that itself contains a dot cannot be reached
// through a dotted path. Use the segment-based methods (GetIn, SetIn,
// RejectIn) for such keys, e.g. paths like "/v1.0/users".
const PathSeparator = "."

// SplitPath splits a dotted path into segments. The empty path addresses
// the document root and yields no segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// JoinPath joins segments into a dotted path.
func JoinPath(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}

// lookup walks segments from n. Numeric segments index into sequences.
func lookup(n *yaml.Node, segments []string) (*yaml.Node, bool) {
	cur := resolveAlias(n)
	for _, seg := range segments {
		if cur == nil {
			return nil, false
		}
		switch cur.Kind {
		case yaml.MappingNode:
			i := keyIndex(cur, seg)
			if i < 0 {
				return nil, false
			}
			cur = resolveAlias(cur.Content[i+1])
		case yaml.SequenceNode:
			idx, ok := parseIndex(seg)
			if !ok || idx >= len(cur.Content) {
				return nil, false
			}
			cur = resolveAlias(cur.Content[idx])
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// assign walks segments from n creating intermediate mappings, and stores
// value at the leaf. Existing keys keep their position; new keys are
// appended. Scalars in the way are replaced by mappings.
func assign(n *yaml.Node, segments []string, value *yaml.Node) error {
	cur := resolveAlias(n)
	for i, seg := range segments {
		last := i == len(segments)-1

		switch cur.Kind {
		case yaml.MappingNode:
			idx := keyIndex(cur, seg)
			if idx < 0 {
				if last {
					cur.Content = append(cur.Content, scalarNode(tagStr, seg), value)
					return nil
				}
				child := newMapping()
				cur.Content = append(cur.Content, scalarNode(tagStr, seg), child)
				cur = child
				continue
			}
			if last {
				cur.Content[idx+1] = value
				return nil
			}
			child := resolveAlias(cur.Content[idx+1])
			if !isContainer(child) {
				child = newMapping()
				cur.Content[idx+1] = child
			}
			cur = child

		case yaml.SequenceNode:
			pos, ok := parseIndex(seg)
			if !ok {
				return &segmentError{path: segments[:i+1], reason: "sequence elements are addressed by index"}
			}
			for len(cur.Content) <= pos {
				cur.Content = append(cur.Content, nullNode())
			}
			if last {
				cur.Content[pos] = value
				return nil
			}
			child := resolveAlias(cur.Content[pos])
			if !isContainer(child) {
				child = newMapping()
				cur.Content[pos] = child
			}
			cur = child

		default:
			return &segmentError{path: segments[:i], reason: "not a container"}
		}
	}
	return nil
}

// unset removes the node at segments from its parent container.
func unset(n *yaml.Node, segments []string) bool {
	if len(segments) == 0 {
		return false
	}
	parent, ok := lookup(n, segments[:len(segments)-1])
	if !ok {
		return false
	}
	leaf := segments[len(segments)-1]

	switch parent.Kind {
	case yaml.MappingNode:
		idx := keyIndex(parent, leaf)
		if idx < 0 {
			return false
		}
		parent.Content = append(parent.Content[:idx], parent.Content[idx+2:]...)
		return true
	case yaml.SequenceNode:
		pos, ok := parseIndex(leaf)
		if !ok || pos >= len(parent.Content) {
			return false
		}
		parent.Content = append(parent.Content[:pos], parent.Content[pos+1:]...)
		return true
	default:
		return false
	}
}

// removeKeys deletes every mapping key found in names at any depth below n.
// Each mapping's pairs are snapshotted before filtering, so deletions never
// disturb sibling iteration. Alias nodes are not followed; their anchors are
// visited where they are defined.
func removeKeys(n *yaml.Node, names map[string]struct{}, seen map[*yaml.Node]bool) int {
	if n == nil || seen[n] {
		return 0
	}
	seen[n] = true

	removed := 0
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range n.Content {
			removed += removeKeys(child, names, seen)
		}
	case yaml.MappingNode:
		pairs := n.Content
		kept := make([]*yaml.Node, 0, len(pairs))
		for i := 0; i+1 < len(pairs); i += 2 {
			if _, drop := names[pairs[i].Value]; drop {
				removed++
				continue
			}
			kept = append(kept, pairs[i], pairs[i+1])
		}
		n.Content = kept
		for i := 1; i < len(kept); i += 2 {
			removed += removeKeys(kept[i], names, seen)
		}
	}
	return removed
}

// segmentError reports a path that cannot be written.
type segmentError struct {
	path   []string
	reason string
}

func (e *segmentError) Error() string {
	return "cannot write through " + JoinPath(e.path...) + ": " + e.reason
}
