package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dmorgan81/lookalike/internal/config"
	"github.com/dmorgan81/lookalike/internal/lookalike"
	"github.com/dmorgan81/lookalike/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls atomic.Int32
	last  lookalike.Request
	res   lookalike.Result
	err   error
	panic bool
}

func (f *fakeGenerator) Generate(_ context.Context, req lookalike.Request) (lookalike.Result, error) {
	f.calls.Add(1)
	f.last = req
	if f.panic {
		panic("provider exploded")
	}
	return f.res, f.err
}

func newTestRouter(t *testing.T, gen *fakeGenerator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html></html>"), 0o644))

	cfg := &config.Config{
		Provider:     config.ProviderPollinations,
		HTTP:         config.HTTPConfig{StaticRoot: root},
		Pollinations: config.PollinationsConfig{Model: "flux"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(cfg, logger, New(gen), metrics.NewRecorder())
}

func post(router http.Handler, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/lookalike", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestLookalike_Success(t *testing.T) {
	gen := &fakeGenerator{res: lookalike.Result{ImageDataURL: "data:image/png;base64,QUJD", AnalysisText: "note"}}
	router := newTestRouter(t, gen)

	resp := post(router, strings.NewReader(`{"imageDataUrl":"data:image/png;base64,AAAA","lang":"en","reroll":1}`))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"imageDataUrl":"data:image/png;base64,QUJD","analysisText":"note"}`, resp.Body.String())
	assert.EqualValues(t, 1, gen.calls.Load())
	assert.Equal(t, lookalike.LangEN, gen.last.Lang)
	assert.True(t, gen.last.Reroll)
	assert.Equal(t, "cat", gen.last.AnimalType)
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))
}

func TestLookalike_CallerFaultsSkipProvider(t *testing.T) {
	cases := []struct {
		name string
		body string
		code string
	}{
		{"empty body", ``, "INVALID_BODY"},
		{"malformed json", `{"imageDataUrl":`, "INVALID_BODY"},
		{"missing image", `{"lang":"en"}`, "MISSING_IMAGE"},
		{"non data url", `{"imageDataUrl":"https://example.com/a.png"}`, "MISSING_IMAGE"},
		{"json array", `[1,2]`, "MISSING_IMAGE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			resp := post(newTestRouter(t, gen), strings.NewReader(tc.body))

			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, tc.code, decodeError(t, resp)["code"])
			assert.EqualValues(t, 0, gen.calls.Load())
		})
	}
}

func TestLookalike_PayloadTooLarge(t *testing.T) {
	oversized := bytes.Repeat([]byte("a"), lookalike.MaxBodyBytes+1)

	t.Run("declared length", func(t *testing.T) {
		gen := &fakeGenerator{}
		resp := post(newTestRouter(t, gen), bytes.NewReader(oversized))

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
		assert.Equal(t, "close", resp.Header().Get("Connection"))
		assert.Equal(t, "PAYLOAD_TOO_LARGE", decodeError(t, resp)["code"])
		assert.EqualValues(t, 0, gen.calls.Load())
	})

	t.Run("streamed body", func(t *testing.T) {
		gen := &fakeGenerator{}
		router := newTestRouter(t, gen)
		req := httptest.NewRequest(http.MethodPost, "/api/lookalike", io.MultiReader(bytes.NewReader(oversized)))
		req.ContentLength = -1
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
		assert.EqualValues(t, 0, gen.calls.Load())
	})
}

func TestLookalike_ProviderFaults(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
		msg  string
	}{
		{"auth", lookalike.NewAuthError("Pollinations authentication failed. Set POLLINATIONS_API_KEY and restart server. Provider response: nope"), "AUTH_ERROR", "Pollinations authentication failed. Set POLLINATIONS_API_KEY and restart server. Provider response: nope"},
		{"config", lookalike.NewConfigError("OPENAI_API_KEY is not configured on the server"), "CONFIG_ERROR", "OPENAI_API_KEY is not configured on the server"},
		{"no image", lookalike.NewNoImageError(), "NO_IMAGE", "No image found in provider response"},
		{"provider", lookalike.NewProviderError(http.StatusBadGateway, "Pollinations API error (502): down"), "PROVIDER_ERROR", "Pollinations API error (502): down"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{err: tc.err}
			resp := post(newTestRouter(t, gen), strings.NewReader(`{"imageDataUrl":"data:image/jpeg;base64,AAAA"}`))

			assert.Equal(t, http.StatusInternalServerError, resp.Code)
			assert.Equal(t, map[string]string{"error": tc.msg, "code": tc.code}, decodeError(t, resp))
			assert.EqualValues(t, 1, gen.calls.Load())
		})
	}
}

func TestLookalike_PanicRecovered(t *testing.T) {
	gen := &fakeGenerator{panic: true}
	resp := post(newTestRouter(t, gen), strings.NewReader(`{"imageDataUrl":"data:image/png;base64,AAAA"}`))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp)["code"])
}

func TestRouter_StaticFallback(t *testing.T) {
	router := newTestRouter(t, &fakeGenerator{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header().Get("Content-Type"))

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/nope.js", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRouter_NeverServesEnvFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("OPENAI_API_KEY=sk-secret"), 0o644))

	cfg := &config.Config{Provider: config.ProviderPollinations, HTTP: config.HTTPConfig{StaticRoot: root}}
	router := NewEngine(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), New(&fakeGenerator{}), metrics.NewRecorder())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/.env", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NotContains(t, resp.Body.String(), "sk-secret")
}
