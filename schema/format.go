package schema

import (
	"bytes"
	"path/filepath"
	"strings"
)

// SourceFormat represents the serialization format of a document.
type SourceFormat string

const (
	// SourceFormatYAML indicates YAML.
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates JSON.
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the format could not be determined.
	SourceFormatUnknown SourceFormat = "unknown"
)

// ContentType returns the media type used when storing the format as an asset.
func (f SourceFormat) ContentType() string {
	if f == SourceFormatJSON {
		return "application/json"
	}
	return "application/yaml"
}

// ParseFormat maps a user-supplied format name to a SourceFormat.
// Unrecognized names yield SourceFormatUnknown.
func ParseFormat(name string) SourceFormat {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return SourceFormatJSON
	case "yaml", "yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromPath detects the source format from a file path
func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent attempts to detect the format from the content bytes
// JSON typically starts with '{' or '[', while YAML does not
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
