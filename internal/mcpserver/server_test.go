package mcpserver

import (
	"errors"
	"testing"

	"github.com/erraggy/openapix/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"no path", errors.New("bad input"), "bad input"},
		{"home path", errors.New("open /home/user/api.yaml: no such file"), "open <path>: no such file"},
		{"tmp path", errors.New("read /tmp/x/y.json failed"), "read <path> failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestErrResult(t *testing.T) {
	res := errResult(errors.New("boom"))
	assert.True(t, res.IsError)
	require.Len(t, res.Content, 1)
}

func TestRenderDocument_DefaultFormat(t *testing.T) {
	s, err := schema.FromInline(`{"openapi": "3.0.0", "info": {"title": "t", "version": "1"}, "paths": {}}`)
	require.NoError(t, err)

	out, err := renderDocument(s, "", "")
	require.NoError(t, err)
	assert.Equal(t, "json", out.Format)

	old := cfg.OutputFormat
	cfg.OutputFormat = "yaml"
	t.Cleanup(func() { cfg.OutputFormat = old })

	out, err = renderDocument(s, "", "")
	require.NoError(t, err)
	assert.Equal(t, "yaml", out.Format)
	assert.Contains(t, out.Document, "title: t")
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[int](0))
	s := makeSlice[int](3)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}
