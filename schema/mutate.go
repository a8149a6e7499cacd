package schema

import (
	"slices"

	"github.com/erraggy/openapix/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Record is a single path/value pair applied by Inject.
type Record struct {
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value" yaml:"value"`
}

// Get returns the value at a dotted path as plain Go values.
// The second result is false when any segment is missing.
// The empty path returns the whole document.
func (s *Schema) Get(path string) (any, bool) {
	return s.GetIn(SplitPath(path)...)
}

// GetIn is like Get but takes explicit path segments.
func (s *Schema) GetIn(segments ...string) (any, bool) {
	n, ok := lookup(s.root(), segments)
	if !ok {
		return nil, false
	}
	return nodeToValue(n), true
}

// Has reports whether a value exists at the dotted path.
// An explicit null counts as present.
func (s *Schema) Has(path string) bool {
	return s.HasIn(SplitPath(path)...)
}

// HasIn is like Has but takes explicit path segments.
func (s *Schema) HasIn(segments ...string) bool {
	_, ok := lookup(s.root(), segments)
	return ok
}

// Node returns the live node at a dotted path.
func (s *Schema) Node(path string) (*yaml.Node, bool) {
	return s.NodeIn(SplitPath(path)...)
}

// NodeIn is like Node but takes explicit path segments.
func (s *Schema) NodeIn(segments ...string) (*yaml.Node, bool) {
	return lookup(s.root(), segments)
}

// KeysIn returns the keys of the mapping at segments in document order.
// It returns nil when the node is missing or not a mapping.
func (s *Schema) KeysIn(segments ...string) []string {
	n, ok := lookup(s.root(), segments)
	if !ok {
		return nil
	}
	return mappingKeys(n)
}

// Set stores value at a dotted path, creating intermediate mappings.
//
// An existing key keeps its position in its mapping. A scalar standing
// where a mapping is needed is replaced. Numeric segments address sequence
// elements; writing past the end pads the sequence with nulls.
func (s *Schema) Set(path string, value any) error {
	if path == "" {
		return &oaserrors.ConfigError{Option: "path", Message: "cannot set the document root"}
	}
	return s.SetIn(SplitPath(path), value)
}

// SetIn is like Set but takes explicit path segments.
func (s *Schema) SetIn(segments []string, value any) error {
	if len(segments) == 0 {
		return &oaserrors.ConfigError{Option: "path", Message: "cannot set the document root"}
	}
	node, err := valueToNode(value)
	if err != nil {
		return &oaserrors.ConfigError{
			Option:  "value",
			Message: "value at " + JoinPath(segments...) + " cannot be represented",
			Cause:   err,
		}
	}
	if err := assign(s.root(), segments, node); err != nil {
		return &oaserrors.ConfigError{Option: "path", Value: JoinPath(segments...), Cause: err}
	}
	s.Logger().Debug("set value", "path", JoinPath(segments...))
	return nil
}

// Inject applies Set for each record in order.
//
// Injection is not transactional: the first failing record stops the
// operation and records applied before it remain.
func (s *Schema) Inject(records ...Record) error {
	for _, r := range records {
		if err := s.Set(r.Path, r.Value); err != nil {
			return err
		}
	}
	return nil
}

// InjectMap applies Set for each entry of m in sorted key order.
func (s *Schema) InjectMap(m map[string]any) error {
	return s.Inject(RecordsFromMap(m)...)
}

// RecordsFromMap converts a path->value map into records sorted by path.
func RecordsFromMap(m map[string]any) []Record {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	records := make([]Record, 0, len(paths))
	for _, p := range paths {
		records = append(records, Record{Path: p, Value: m[p]})
	}
	return records
}

// Reject deletes the value at each dotted path. Missing paths are ignored.
// It returns the number of values removed.
func (s *Schema) Reject(paths ...string) int {
	removed := 0
	for _, p := range paths {
		if s.RejectIn(SplitPath(p)...) {
			removed++
		}
	}
	return removed
}

// RejectIn deletes the value at explicit path segments and reports whether
// anything was removed.
func (s *Schema) RejectIn(segments ...string) bool {
	if !unset(s.root(), segments) {
		return false
	}
	s.Logger().Debug("rejected value", "path", JoinPath(segments...))
	return true
}

// RejectDeep deletes every mapping key named in names, at any depth.
// It returns the number of keys removed.
func (s *Schema) RejectDeep(names ...string) int {
	if len(names) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	removed := removeKeys(s.root(), set, make(map[*yaml.Node]bool))
	s.Logger().Debug("rejected keys", "names", names, "removed", removed)
	return removed
}
