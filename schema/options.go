package schema

import (
	"github.com/erraggy/openapix/oaserrors"
)

// Option is a function that configures how a Schema is loaded.
type Option func(*loadConfig) error

// loadConfig holds configuration for loading a Schema.
type loadConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	content  *string
	value    any
	hasValue bool

	// Configuration options
	format SourceFormat
	name   string
	logger Logger
}

// WithFilePath specifies a file path as the document source.
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "WithFilePath", Message: "file path cannot be empty"}
		}
		cfg.filePath = &path
		return nil
	}
}

// WithContent specifies inline YAML or JSON content as the document source.
func WithContent(content string) Option {
	return func(cfg *loadConfig) error {
		cfg.content = &content
		return nil
	}
}

// WithValue specifies a Go value (typically map[string]any) as the document source.
func WithValue(v any) Option {
	return func(cfg *loadConfig) error {
		cfg.value = v
		cfg.hasValue = true
		return nil
	}
}

// WithFormat overrides the output format used by Marshal and ToAsset.
// By default the detected source format is used, falling back to YAML.
func WithFormat(format SourceFormat) Option {
	return func(cfg *loadConfig) error {
		if format != SourceFormatYAML && format != SourceFormatJSON {
			return &oaserrors.ConfigError{Option: "WithFormat", Value: string(format), Message: "format must be yaml or json"}
		}
		cfg.format = format
		return nil
	}
}

// WithSourceName sets the name reported in errors for inline content.
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		cfg.name = name
		return nil
	}
}

// WithLogger sets the structured logger used for diagnostics.
func WithLogger(l Logger) Option {
	return func(cfg *loadConfig) error {
		if l == nil {
			return &oaserrors.ConfigError{Option: "WithLogger", Message: "logger cannot be nil"}
		}
		cfg.logger = l
		return nil
	}
}

// applyOptions applies all options and returns the configuration.
func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{logger: NopLogger{}}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	sourceCount := 0
	if cfg.filePath != nil {
		sourceCount++
	}
	if cfg.content != nil {
		sourceCount++
	}
	if cfg.hasValue {
		sourceCount++
	}
	if sourceCount != 1 {
		return nil, &oaserrors.ConfigError{
			Option:  "source",
			Message: "must specify exactly one source (use WithFilePath, WithContent or WithValue)",
		}
	}

	return cfg, nil
}
