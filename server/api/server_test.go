//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-jsonfix-go/validator"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func do(t *testing.T, s *Server, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// TestFormat_JSONAndRawBodies verifies both request encodings are accepted.
func TestFormat_JSONAndRawBodies(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/format", "application/json", jsonBody(t, textRequest{Text: `{"a":[1]}`}))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp formatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", resp.Formatted)

	rec = do(t, s, http.MethodPost, "/v1/format", "text/plain; charset=utf-8", []byte(`[true]`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "[\n  true\n]", resp.Formatted)

	utf16 := []byte{0xFF, 0xFE, '[', 0, '1', 0, ']', 0}
	rec = do(t, s, http.MethodPost, "/v1/format", "", utf16)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "[\n  1\n]", resp.Formatted)
}

// TestFormat_SyntaxError verifies the error carries kind, line and column.
func TestFormat_SyntaxError(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/format", "text/plain", []byte("{\n  \"a\": ,\n}"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errorTypeSyntax, resp.Error.Type)
	assert.Equal(t, "Expected a value but found ','", resp.Error.Message)
	assert.Equal(t, "unexpected_token", resp.Error.Kind)
	assert.Equal(t, 2, resp.Error.Line)
	assert.Equal(t, 8, resp.Error.Column)
}

// TestRepair verifies repaired output, actions and the failure message.
func TestRepair(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/repair", "text/plain", []byte(`{a: 1}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Repaired string `json:"repaired"`
		Actions  []struct {
			Kind string `json:"kind"`
		} `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "{\n  \"a\": 1\n}", resp.Repaired)
	require.Len(t, resp.Actions, 1)
	require.Equal(t, "key_quoted", resp.Actions[0].Kind)

	rec = do(t, s, http.MethodPost, "/v1/repair", "text/plain", []byte(`[1]`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"actions":[]`)

	rec = do(t, s, http.MethodPost, "/v1/repair", "text/plain", []byte(`{{{`))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var errResp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, "Unable to auto-fix this JSON.", errResp.Error.Message)
	require.Zero(t, errResp.Error.Line)
}

// TestCheck verifies the report for repairable input.
func TestCheck(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/check", "application/json", jsonBody(t, textRequest{Text: `{"a":1,}`}))
	require.Equal(t, http.StatusOK, rec.Code)
	var report validator.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.False(t, report.Valid)
	require.Equal(t, 1, report.Line)
	require.Equal(t, 8, report.Column)
	require.Equal(t, "{\n  \"a\": 1\n}", report.Repaired)
}

// TestCheckBatch verifies one report per document in order.
func TestCheckBatch(t *testing.T) {
	v, err := validator.New(validator.WithPoolSize(2), validator.WithIndent(0))
	require.NoError(t, err)
	defer v.Close()
	s := newTestServer(t, WithValidator(v))

	body := jsonBody(t, batchRequest{Documents: []validator.Document{
		{Name: "ok", Text: `[1]`},
		{Name: "bad", Text: `[1,`},
		{Name: "hopeless", Text: `@`},
	}})
	rec := do(t, s, http.MethodPost, "/v1/check/batch", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Reports, 3)
	require.True(t, resp.Reports[0].Valid)
	require.Equal(t, "[1]", resp.Reports[0].Formatted)
	require.Equal(t, "[1]", resp.Reports[1].Repaired)
	require.False(t, resp.Reports[2].Repairable())

	rec = do(t, s, http.MethodPost, "/v1/check/batch", "application/json", []byte(`{`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestRequestErrors verifies malformed, oversized and non-UTF-8 bodies are rejected.
func TestRequestErrors(t *testing.T) {
	s := newTestServer(t, WithMaxBodyBytes(8))

	rec := do(t, s, http.MethodPost, "/v1/format", "application/json", []byte(`not json`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/format", "text/plain", []byte(strings.Repeat("1", 64)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/format", "text/plain", []byte{0xC3, 0x28})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/format", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestRequestID verifies the header is echoed or generated.
func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/healthz", "", nil)
	require.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

// TestCORS verifies preflight requests are answered for allowed origins.
func TestCORS(t *testing.T) {
	s := newTestServer(t, WithAllowedOrigins("https://editor.example.com"), WithBasePath("/api"))
	require.Equal(t, "/api", s.BasePath())

	req := httptest.NewRequest(http.MethodOptions, "/api/format", nil)
	req.Header.Set("Origin", "https://editor.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, "https://editor.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
