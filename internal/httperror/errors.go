package httperror

import (
	"errors"
	"net/http"

	"github.com/dmorgan81/lookalike/internal/lookalike"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// FromError maps any error onto the lookalike taxonomy. Errors outside the
// taxonomy become INTERNAL_ERROR carrying their own message.
func FromError(err error) *lookalike.Error {
	if err == nil {
		return nil
	}

	var lerr *lookalike.Error
	if errors.As(err, &lerr) {
		return lerr
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return lookalike.NewPayloadTooLarge()
	}

	return lookalike.NewInternalError(err)
}

// Response converts an error into a status code and body.
func Response(err error) (int, ErrorResponse) {
	lerr := FromError(err)
	if lerr == nil {
		lerr = lookalike.NewInternalError(errors.New("unknown error"))
	}
	return lerr.HTTPStatus(), ErrorResponse{Error: lerr.Message, Code: string(lerr.Kind)}
}

// Abort writes the error body and stops the gin chain. Oversized bodies
// also close the connection since the rest of the upload is never read.
func Abort(c *gin.Context, err error) {
	status, body := Response(err)
	if status == http.StatusRequestEntityTooLarge {
		c.Header("Connection", "close")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
