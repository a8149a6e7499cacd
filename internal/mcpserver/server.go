// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes openapix document mutation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"regexp"

	"github.com/erraggy/openapix"
	"github.com/erraggy/openapix/internal/fileutil"
	"github.com/erraggy/openapix/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `openapix MCP server: reads and edits OpenAPI documents by dotted path and adds API Gateway (x-amazon-apigateway-*) extensions.

Paths are dot-separated keys, e.g. "info.title" or "paths./pets.get.summary". Numeric segments index arrays. Keys containing dots are reachable with the segments array instead of path.

Every tool takes a spec as {file} or {content}. Tools that change the document return it in the source format unless format is set; set output to write it to a file instead.

Configuration: defaults are configurable via OPENAPIX_* environment variables set in your MCP client config.
- OPENAPIX_CACHE_ENABLED (default: true) - cache loaded documents per session
- OPENAPIX_CACHE_FILE_TTL (default: 15m), OPENAPIX_CACHE_CONTENT_TTL (default: 15m)
- OPENAPIX_MAX_INLINE_SIZE (default: 10MiB) - limit for inline content
- OPENAPIX_OUTPUT_FORMAT (yaml|json) - default output format
- OPENAPIX_VALIDATE_FULL (default: false) - run the full OpenAPI 3 validator in schema_validate`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	return newServer(ctx).Run(ctx, &mcp.StdioTransport{})
}

func newServer(ctx context.Context) *mcp.Server {
	if cfg.CacheEnabled {
		schemaCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "openapix", Version: openapix.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "schema_get",
		Description: "Read the value at a dotted path in an OpenAPI document. Returns found=false when any segment is missing. Use segments instead of path when a key contains dots. With keys=true, returns the keys of the mapping at the path instead of its value.",
	}, handleGet)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "schema_set",
		Description: "Set the value at a dotted path, creating intermediate mappings as needed. The value is any JSON value. Returns the modified document.",
	}, handleSet)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "schema_inject",
		Description: "Set several path/value records in order. Later records overwrite earlier ones. Returns the modified document.",
	}, handleInject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "schema_reject",
		Description: "Remove the nodes at the given dotted paths. Missing paths are ignored. Returns the number of nodes removed and the modified document.",
	}, handleReject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "schema_reject_deep",
		Description: "Remove every mapping key with one of the given names at any depth, e.g. [\"example\", \"x-internal\"]. Returns the number of keys removed and the modified document.",
	}, handleRejectDeep)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apigw_synthesize",
		Description: "Add Amazon API Gateway extensions (integrations, CORS preflight, request validators, authorizers, binary media types) to an OpenAPI document from an API configuration in YAML or JSON. The configuration may use sprig template functions, with vars available as {{ .name }}.",
	}, handleSynthesize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "schema_validate",
		Description: "Check that a document has an openapi 3.x version, info.title, info.version and a paths mapping. With full=true, also runs the OpenAPI 3 validator. Default for full is configurable via OPENAPIX_VALIDATE_FULL.",
	}, handleValidate)
}

// documentOutput is the rendered result of a mutating tool.
type documentOutput struct {
	Format    string `json:"format"`
	WrittenTo string `json:"written_to,omitempty"`
	Document  string `json:"document,omitempty"`
}

// renderDocument serializes s in the named format (empty selects the
// configured default, then the source format). When output is set the
// document is written there instead of being returned inline.
func renderDocument(s *schema.Schema, formatName, output string) (documentOutput, error) {
	format := s.OutputFormat()
	name := formatName
	if name == "" {
		name = cfg.OutputFormat
	}
	if name != "" {
		format = schema.ParseFormat(name)
		if format == schema.SourceFormatUnknown {
			return documentOutput{}, fmt.Errorf("invalid format %q; valid formats: yaml, json", name)
		}
	}

	data, err := s.Marshal(format)
	if err != nil {
		return documentOutput{}, err
	}

	out := documentOutput{Format: string(format)}
	if output != "" {
		if err := fileutil.WriteFile(output, data); err != nil {
			return documentOutput{}, err
		}
		out.WrittenTo = output
		return out, nil
	}
	out.Document = string(data)
	return out, nil
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
