package httperror

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmorgan81/lookalike/internal/lookalike"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorNil(t *testing.T) {
	assert.Nil(t, FromError(nil))
}

func TestFromErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		kind   lookalike.Kind
		status int
	}{
		{lookalike.NewInvalidBody(), lookalike.KindInvalidBody, http.StatusBadRequest},
		{lookalike.NewMissingImage(), lookalike.KindMissingImage, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", lookalike.NewMissingImage()), lookalike.KindMissingImage, http.StatusBadRequest},
		{&http.MaxBytesError{Limit: 10}, lookalike.KindPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{lookalike.NewConfigError("no key"), lookalike.KindConfig, http.StatusInternalServerError},
		{lookalike.NewAuthError("auth"), lookalike.KindAuth, http.StatusInternalServerError},
		{lookalike.NewProviderError(http.StatusBadGateway, "down"), lookalike.KindProvider, http.StatusInternalServerError},
		{lookalike.NewNoImageError(), lookalike.KindNoImage, http.StatusInternalServerError},
		{errors.New("boom"), lookalike.KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			lerr := FromError(tc.err)
			require.NotNil(t, lerr)
			assert.Equal(t, tc.kind, lerr.Kind)
			assert.Equal(t, tc.status, lerr.HTTPStatus())
		})
	}
}

func TestResponseGenericError(t *testing.T) {
	status, body := Response(errors.New("some generic error"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrorResponse{Error: "some generic error", Code: "INTERNAL_ERROR"}, body)
}

func TestAbortPayloadTooLargeClosesConnection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/", func(c *gin.Context) { Abort(c, lookalike.NewPayloadTooLarge()) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Equal(t, "close", resp.Header().Get("Connection"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "PAYLOAD_TOO_LARGE", body.Code)
}

func TestAbortBadRequestKeepsConnection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/", func(c *gin.Context) { Abort(c, lookalike.NewInvalidBody()) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, resp.Header().Get("Connection"))
	assert.JSONEq(t, `{"error":"Invalid JSON body","code":"INVALID_BODY"}`, resp.Body.String())
}
