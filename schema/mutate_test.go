package schema

import (
	"testing"

	"github.com/erraggy/openapix/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	s := mustInline(t, testYAML)

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"openapi", "3.0.3", true},
		{"info.version", "1.0.0", true},
		{"servers.0.url", "https://api.example.com", true},
		{"paths./pets.get.operationId", "listPets", true},
		{"paths./pets.get.responses.200.description", "ok", true},
		{"info.missing", nil, false},
		{"servers.1", nil, false},
		{"servers.01", nil, false},
		{"servers.url", nil, false},
		{"openapi.deeper", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := s.Get(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet_Root(t *testing.T) {
	s := mustInline(t, "a: 1\nb: [x]\n")
	v, ok := s.Get("")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1, "b": []any{"x"}}, v)
}

func TestGet_ScalarTypes(t *testing.T) {
	s := mustInline(t, `
int: 42
neg: -7
float: 1.5
exp: 1e3
bool: true
null: ~
quoted: "42"
big: 18446744073709551615
str: hello
`)
	for path, want := range map[string]any{
		"int":    42,
		"neg":    -7,
		"float":  1.5,
		"exp":    1000.0,
		"bool":   true,
		"null":   nil,
		"quoted": "42",
		"big":    uint64(18446744073709551615),
		"str":    "hello",
	} {
		got, ok := s.Get(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
}

func TestHas_ExplicitNull(t *testing.T) {
	s := mustInline(t, "a: null\n")
	assert.True(t, s.Has("a"))
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.False(t, s.Has("b"))
	assert.True(t, s.Has(""))
}

func TestSetThenGet(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value any
		want  any
	}{
		{"string", "info.title", "New", "New"},
		{"int", "info.x-count", 3, 3},
		{"int64", "info.x-count", int64(5), 5},
		{"float", "info.x-ratio", 0.25, 0.25},
		{"whole float", "info.x-ratio", 2.0, 2},
		{"decoded JSON integer", "info.x-limit", float64(1024), 1024},
		{"bool", "info.x-flag", false, false},
		{"nil", "info.x-null", nil, nil},
		{"map", "info.contact", map[string]any{"name": "me", "port": 8080}, map[string]any{"name": "me", "port": 8080}},
		{"slice", "tags", []any{"a", 1}, []any{"a", 1}},
		{"string slice", "x-list", []string{"a", "b"}, []any{"a", "b"}},
		{"new branch", "x-a.b.c", "deep", "deep"},
		{"numeric-looking string", "info.version", "2.0", "2.0"},
		{"multiline", "info.description", "line one\nline two\n", "line one\nline two\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustInline(t, testYAML)
			require.NoError(t, s.Set(tt.path, tt.value))
			got, ok := s.Get(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)

			// The value must survive a YAML round trip too.
			out, err := s.ToYAML()
			require.NoError(t, err)
			reparsed := mustInline(t, string(out))
			got, ok = reparsed.Get(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSet_Struct(t *testing.T) {
	type contact struct {
		Name  string `json:"name"`
		Email string `json:"email,omitempty"`
	}
	s := mustInline(t, testYAML)
	require.NoError(t, s.Set("info.contact", contact{Name: "API team"}))
	got, _ := s.Get("info.contact")
	assert.Equal(t, map[string]any{"name": "API team"}, got)
}

func TestSet_PreservesPosition(t *testing.T) {
	s := mustInline(t, "z: 1\na: 2\nm: 3\n")
	require.NoError(t, s.Set("a", 9))
	require.NoError(t, s.Set("b", 4))
	assert.Equal(t, []string{"z", "a", "m", "b"}, s.KeysIn())

	out, err := s.ToYAML()
	require.NoError(t, err)
	assert.Equal(t, "z: 1\na: 9\nm: 3\nb: 4\n", string(out))
}

func TestSet_ReplacesScalarIntermediate(t *testing.T) {
	s := mustInline(t, "a: 1\n")
	require.NoError(t, s.Set("a.b", 2))
	got, _ := s.Get("a")
	assert.Equal(t, map[string]any{"b": 2}, got)
}

func TestSet_SequenceIndex(t *testing.T) {
	s := mustInline(t, testYAML)

	require.NoError(t, s.Set("servers.0.description", "prod"))
	got, _ := s.Get("servers.0")
	assert.Equal(t, map[string]any{"url": "https://api.example.com", "description": "prod"}, got)

	require.NoError(t, s.Set("servers.2.url", "https://c.example.com"))
	servers, _ := s.Get("servers")
	require.Len(t, servers, 3)
	v, ok := s.Get("servers.1")
	assert.True(t, ok)
	assert.Nil(t, v)
	v, _ = s.Get("servers.2.url")
	assert.Equal(t, "https://c.example.com", v)
}

func TestSet_Errors(t *testing.T) {
	s := mustInline(t, testYAML)

	err := s.Set("", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	err = s.Set("servers.first.url", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
	assert.Contains(t, err.Error(), "servers.first")

	err = s.Set("info.x", func() {})
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	err = s.SetIn(nil, 1)
	require.Error(t, err)
}

func TestSetIn_DottedKey(t *testing.T) {
	s := mustInline(t, testYAML)
	require.NoError(t, s.SetIn([]string{"paths", "/v1.0/users", "get", "operationId"}, "listUsers"))

	v, ok := s.GetIn("paths", "/v1.0/users", "get", "operationId")
	require.True(t, ok)
	assert.Equal(t, "listUsers", v)
	assert.True(t, s.HasIn("paths", "/v1.0/users"))
	assert.False(t, s.Has("paths./v1.0/users"))

	assert.True(t, s.RejectIn("paths", "/v1.0/users"))
	assert.False(t, s.HasIn("paths", "/v1.0/users"))
}

func TestSet_Alias(t *testing.T) {
	s := mustInline(t, "base: &b\n  x: 1\nuse: *b\n")

	v, ok := s.Get("use.x")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	require.NoError(t, s.Set("use.x", 2))
	v, _ = s.Get("base.x")
	assert.Equal(t, 2, v)
}

func TestInject(t *testing.T) {
	s := mustInline(t, testYAML)
	require.NoError(t, s.InjectMap(map[string]any{"a.b": 1, "a.c": 2}))

	v, _ := s.Get("a.b")
	assert.Equal(t, 1, v)
	v, _ = s.Get("a.c")
	assert.Equal(t, 2, v)
	assert.Equal(t, []string{"b", "c"}, s.KeysIn("a"))
}

func TestInject_Ordered(t *testing.T) {
	s := mustInline(t, "openapi: 3.0.3\n")
	require.NoError(t, s.Inject(
		Record{Path: "x.z", Value: 1},
		Record{Path: "x.a", Value: 2},
		Record{Path: "x.z", Value: 3},
	))
	assert.Equal(t, []string{"z", "a"}, s.KeysIn("x"))
	v, _ := s.Get("x.z")
	assert.Equal(t, 3, v)
}

func TestInject_StopsAtFirstError(t *testing.T) {
	s := mustInline(t, testYAML)
	err := s.Inject(
		Record{Path: "x-first", Value: 1},
		Record{Path: "servers.bad", Value: 2},
		Record{Path: "x-third", Value: 3},
	)
	require.Error(t, err)
	assert.True(t, s.Has("x-first"))
	assert.False(t, s.Has("x-third"))
}

func TestRecordsFromMap(t *testing.T) {
	records := RecordsFromMap(map[string]any{"b": 2, "a": 1})
	assert.Equal(t, []Record{{Path: "a", Value: 1}, {Path: "b", Value: 2}}, records)
	assert.Empty(t, RecordsFromMap(nil))
}

func TestReject(t *testing.T) {
	s := mustInline(t, testYAML)
	require.NoError(t, s.InjectMap(map[string]any{"a.b": 1, "a.c": 2}))

	assert.Equal(t, 1, s.Reject("a.b"))
	assert.False(t, s.Has("a.b"))
	v, _ := s.Get("a.c")
	assert.Equal(t, 2, v)

	before, err := s.ToYAML()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Reject("a.b"))
	after, err := s.ToYAML()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestReject_Variants(t *testing.T) {
	s := mustInline(t, "list: [a, b, c]\nm:\n  k: v\n")

	assert.Equal(t, 1, s.Reject("list.1"))
	got, _ := s.Get("list")
	assert.Equal(t, []any{"a", "c"}, got)

	assert.Equal(t, 0, s.Reject("list.9", "list.x", "m.k.deeper", "missing.path", ""))
	assert.Equal(t, 2, s.Reject("m.k", "list.0"))
	got, _ = s.Get("m")
	assert.Equal(t, map[string]any{}, got)
	got, _ = s.Get("list")
	assert.Equal(t, []any{"c"}, got)
}

func TestRejectDeep(t *testing.T) {
	s := mustInline(t, `
openapi: 3.0.3
example: top
paths:
  /pets:
    get:
      parameters:
        - name: limit
          example: 10
          schema:
            type: integer
            example: 5
      responses:
        "200":
          content:
            application/json:
              example: {id: 1}
              examples:
                one: {value: {example: nested}}
`)
	removed := s.RejectDeep("example")
	assert.Equal(t, 5, removed)

	out, err := s.ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"example"`)
	assert.True(t, s.Has("paths./pets.get.responses.200.content.application/json.examples.one.value"))
	assert.True(t, s.Has("paths./pets.get.parameters.0.schema.type"))

	assert.Equal(t, 0, s.RejectDeep("example"))
	assert.Equal(t, 0, s.RejectDeep())
}

func TestRejectDeep_Multiple(t *testing.T) {
	s := mustInline(t, "a: 1\nb:\n  a: 2\n  c: 3\n  d: [{a: 4, c: 5}]\n")
	assert.Equal(t, 5, s.RejectDeep("a", "c"))
	got, _ := s.Get("")
	assert.Equal(t, map[string]any{"b": map[string]any{"d": []any{map[string]any{}}}}, got)
}

func TestRejectDeep_SharedAnchor(t *testing.T) {
	s := mustInline(t, "base: &b\n  secret: 1\n  keep: 2\nuse: *b\n")
	assert.Equal(t, 1, s.RejectDeep("secret"))
	assert.False(t, s.Has("use.secret"))
	assert.True(t, s.Has("use.keep"))
}

func TestNodeAndKeys(t *testing.T) {
	s := mustInline(t, testYAML)
	n, ok := s.Node("paths./pets")
	require.True(t, ok)
	assert.Equal(t, []string{"get"}, mappingKeys(n))

	_, ok = s.Node("paths./dogs")
	assert.False(t, ok)
	assert.Nil(t, s.KeysIn("missing"))
	assert.Equal(t, []string{"openapi", "info", "servers", "paths"}, s.KeysIn())
}
