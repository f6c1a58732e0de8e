package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmorgan81/lookalike/internal/httperror"
	"github.com/dmorgan81/lookalike/internal/image"
	"github.com/dmorgan81/lookalike/internal/log"
	"github.com/dmorgan81/lookalike/internal/lookalike"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
)

type Handler struct {
	generator image.Generator
}

func New(generator image.Generator) *Handler {
	return &Handler{generator: generator}
}

func NewHandler(i *do.Injector) (*Handler, error) {
	return New(do.MustInvoke[image.Generator](i)), nil
}

// Lookalike handles POST /api/lookalike: one validated request, one provider call.
func (h *Handler) Lookalike(c *gin.Context) {
	ctx := c.Request.Context()
	log := log.FromContextOrDiscard(ctx).WithGroup("Handler")

	body, err := readBody(c)
	if err != nil {
		log.Warn("rejecting request body", "error", err)
		httperror.Abort(c, err)
		return
	}

	req, err := lookalike.ParseRequest(body)
	if err != nil {
		log.Warn("invalid lookalike request", "error", err)
		httperror.Abort(c, err)
		return
	}
	log.Info("handling lookalike request", "lang", req.Lang, "reroll", req.Reroll, "animal", req.AnimalType)

	res, err := h.generator.Generate(ctx, req)
	if err != nil {
		log.Error("generation failed", "error", err)
		httperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.ContentLength > lookalike.MaxBodyBytes {
		return nil, lookalike.NewPayloadTooLarge()
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, lookalike.MaxBodyBytes))
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, lookalike.NewPayloadTooLarge()
		}
		return nil, lookalike.NewInvalidBody()
	}
	return body, nil
}
