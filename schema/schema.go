package schema

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/erraggy/openapix/oaserrors"
	"go.yaml.in/yaml/v4"
)

// inlineSource is the source name reported for inline content.
const inlineSource = "inline"

// yamlErrLine extracts the line number from yaml error messages.
var yamlErrLine = regexp.MustCompile(`line (\d+)`)

// Schema is a mutable OpenAPI document.
//
// The document is held as an order-preserving node tree: mapping keys keep
// the order of the source document, and keys added later are appended.
// A Schema is not safe for concurrent mutation.
type Schema struct {
	doc    *yaml.Node
	source string
	format SourceFormat
	output SourceFormat
	logger Logger
}

// New loads a Schema from exactly one source configured through options.
//
// Example:
//
//	s, err := schema.New(
//	    schema.WithFilePath("openapi.yaml"),
//	    schema.WithLogger(schema.NewSlogAdapter(nil)),
//	)
func New(opts ...Option) (*Schema, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	var s *Schema
	switch {
	case cfg.filePath != nil:
		s, err = loadFile(*cfg.filePath)
	case cfg.content != nil:
		name := cfg.name
		if name == "" {
			name = inlineSource
		}
		s, err = loadBytes([]byte(*cfg.content), name)
	default:
		s, err = loadValue(cfg.value)
	}
	if err != nil {
		return nil, err
	}

	s.logger = cfg.logger
	s.output = cfg.format
	s.logger.Debug("loaded document", "source", s.source, "format", s.format)
	return s, nil
}

// FromAsset loads a Schema from a YAML or JSON file.
func FromAsset(path string, opts ...Option) (*Schema, error) {
	return New(append([]Option{WithFilePath(path)}, opts...)...)
}

// FromInline loads a Schema from inline YAML or JSON content.
func FromInline(content string, opts ...Option) (*Schema, error) {
	return New(append([]Option{WithContent(content)}, opts...)...)
}

// FromValue builds a Schema from a Go value, typically a map[string]any.
// Map keys are ordered alphabetically since Go maps are unordered.
func FromValue(v any, opts ...Option) (*Schema, error) {
	return New(append([]Option{WithValue(v)}, opts...)...)
}

// FromReader loads a Schema from r, which is read to EOF.
func FromReader(r io.Reader, opts ...Option) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schema: failed to read input: %w", err)
	}
	return FromInline(string(data), opts...)
}

func loadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "failed to read file", Cause: err}
	}
	s, err := loadBytes(data, path)
	if err != nil {
		return nil, err
	}
	if f := detectFormatFromPath(path); f != SourceFormatUnknown {
		s.format = f
	}
	return s, nil
}

func loadBytes(data []byte, source string) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		pe := &oaserrors.ParseError{Path: source, Cause: err}
		if m := yamlErrLine.FindStringSubmatch(err.Error()); m != nil {
			pe.Line, _ = strconv.Atoi(m[1])
		}
		return nil, pe
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &oaserrors.ParseError{Path: source, Message: "document is empty"}
	}
	if root := resolveAlias(doc.Content[0]); root.Kind != yaml.MappingNode {
		return nil, &oaserrors.ParseError{
			Path:    source,
			Line:    root.Line,
			Column:  root.Column,
			Message: "document root must be a mapping",
		}
	}

	format := detectFormatFromContent(data)
	if format == SourceFormatUnknown {
		format = SourceFormatYAML
	}
	return &Schema{doc: &doc, source: source, format: format}, nil
}

func loadValue(v any) (*Schema, error) {
	root, err := valueToNode(v)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "WithValue", Message: "value cannot be represented as a document", Cause: err}
	}
	if root.Kind != yaml.MappingNode {
		return nil, &oaserrors.ParseError{Path: "value", Message: "document root must be a mapping"}
	}
	return &Schema{
		doc:    &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}},
		source: "value",
		format: SourceFormatYAML,
	}, nil
}

// root returns the root mapping node.
func (s *Schema) root() *yaml.Node {
	return resolveAlias(s.doc.Content[0])
}

// Source returns the file path or source name the Schema was loaded from.
func (s *Schema) Source() string {
	return s.source
}

// SourceFormat returns the format the document was loaded from.
func (s *Schema) SourceFormat() SourceFormat {
	return s.format
}

// OutputFormat returns the format used by Marshal and ToAsset.
func (s *Schema) OutputFormat() SourceFormat {
	if s.output != "" {
		return s.output
	}
	return s.format
}

// Logger returns the logger configured for this Schema.
func (s *Schema) Logger() Logger {
	if s.logger == nil {
		return NopLogger{}
	}
	return s.logger
}

// Clone returns an independent deep copy of the Schema.
func (s *Schema) Clone() *Schema {
	c := *s
	c.doc = copyNode(s.doc, nil)
	return &c
}
