package schema

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/erraggy/openapix/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestToYAML_RoundTrip(t *testing.T) {
	s := mustInline(t, testYAML)
	out, err := s.ToYAML()
	require.NoError(t, err)
	assertInOrder(t, string(out), "openapi: 3.0.3", "info:", "  title: Petstore", "servers:", "paths:", "/pets:", "operationId: listPets", `"200":`)

	again := mustInline(t, string(out))
	assert.Equal(t, s.ToValue(), again.ToValue())
	assert.Equal(t, s.KeysIn("info"), again.KeysIn("info"))
}

func TestToYAML_FromJSONSource(t *testing.T) {
	s := mustInline(t, `{"openapi":"3.0.3","info":{"title":"T","version":"1.0"},"tags":["a","b"],"paths":{}}`)
	out, err := s.ToYAML()
	require.NoError(t, err)

	text := string(out)
	assertInOrder(t, text, "openapi: 3.0.3\n", "info:\n", "  title: T\n", `  version: "1.0"`, "tags:\n", "- a\n", "- b\n", "paths: {}")
	assert.NotContains(t, text, `"openapi"`)
	assert.NotContains(t, text, `"T"`)

	// Rendering must not restyle the stored document.
	js, err := s.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"openapi":"3.0.3","info":{"title":"T","version":"1.0"},"tags":["a","b"],"paths":{}}`, string(js))
}

// assertInOrder checks that each fragment occurs in text after the previous one.
func assertInOrder(t *testing.T, text string, fragments ...string) {
	t.Helper()
	pos := 0
	for _, f := range fragments {
		idx := strings.Index(text[pos:], f)
		if !assert.GreaterOrEqual(t, idx, 0, "expected %q after offset %d in:\n%s", f, pos, text) {
			return
		}
		pos += idx + len(f)
	}
}

func TestToJSON_PreservesOrder(t *testing.T) {
	s := mustInline(t, "zeta: 1\nalpha:\n  y: true\n  b: null\nmid: [1.5, x]\n")
	out, err := s.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":{"y":true,"b":null},"mid":[1.5,"x"]}`, string(out))
	assert.True(t, json.Valid(out))
}

func TestToJSON_AfterMutation(t *testing.T) {
	s := mustInline(t, "b: 1\na: 2\n")
	require.NoError(t, s.Set("c.d", "x"))
	s.Reject("b")
	out, err := s.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"c":{"d":"x"}}`, string(out))
}

func TestToJSON_Aliases(t *testing.T) {
	s := mustInline(t, "base: &b {x: 1}\nuse: *b\n")
	out, err := s.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"base":{"x":1},"use":{"x":1}}`, string(out))
}

func TestToJSON_DuplicateKeysFirstWins(t *testing.T) {
	s := mustInline(t, "a: 1\n")
	root := s.ToDocument()
	root.Content = append(root.Content, scalarNode(tagStr, "a"), scalarNode(tagInt, "2"))

	out, err := s.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(out))
}

func TestToJSONIndent(t *testing.T) {
	s := mustInline(t, "a: 1\nb: [x]\n")
	out, err := s.ToJSONIndent("", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    \"x\"\n  ]\n}", string(out))
}

func TestMarshal(t *testing.T) {
	s := mustInline(t, "a: 1\n")

	out, err := s.Marshal(SourceFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(out))

	out, err = s.Marshal(SourceFormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(out))

	out, err = s.Marshal(SourceFormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(out))
}

func TestToDocument_IsLive(t *testing.T) {
	s := mustInline(t, testYAML)
	root := s.ToDocument()
	require.Equal(t, yaml.MappingNode, root.Kind)

	root.Content = append(root.Content, scalarNode(tagStr, "x-live"), scalarNode(tagBool, "true"))
	v, ok := s.Get("x-live")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestToValue(t *testing.T) {
	s := mustInline(t, "a:\n  b: [1, 2]\n")
	assert.Equal(t, map[string]any{"a": map[string]any{"b": []any{1, 2}}}, s.ToValue())
}

func TestToAsset_FileStore(t *testing.T) {
	s := mustInline(t, testYAML)
	store := asset.NewFileStore(t.TempDir())

	a, err := s.ToAsset(context.Background(), store, "petstore")
	require.NoError(t, err)
	assert.Equal(t, "application/yaml", a.ContentType)
	assert.True(t, strings.HasSuffix(a.Key, ".yaml"))

	data, err := os.ReadFile(a.Location)
	require.NoError(t, err)
	assert.Equal(t, testYAML, string(data))
}

func TestToAsset_JSONOutput(t *testing.T) {
	s := mustInline(t, testYAML, WithFormat(SourceFormatJSON))
	a, err := s.ToAsset(context.Background(), asset.NewFileStore(t.TempDir()), "petstore")
	require.NoError(t, err)
	assert.Equal(t, "application/json", a.ContentType)

	data, err := os.ReadFile(a.Location)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestToAsset_InvalidID(t *testing.T) {
	s := mustInline(t, testYAML)
	_, err := s.ToAsset(context.Background(), asset.NewFileStore(t.TempDir()), "../escape")
	require.Error(t, err)
}

func TestMarshalIn(t *testing.T) {
	s := mustInline(t, testYAML)

	out, ok, err := s.MarshalIn(SourceFormatJSON, "paths", "/pets", "get")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"operationId":"listPets","responses":{"200":{"description":"ok"}}}`, string(out))
	assertInOrder(t, string(out), `"operationId"`, `"responses"`)

	out, ok, err = s.MarshalIn(SourceFormatYAML, "info")
	require.NoError(t, err)
	require.True(t, ok)
	assertInOrder(t, string(out), "title: Petstore", "version: 1.0.0")

	_, ok, err = s.MarshalIn(SourceFormatYAML, "paths", "/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
