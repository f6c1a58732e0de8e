package image

import (
	"context"

	"github.com/dmorgan81/lookalike/internal/lookalike"
)

// Generator turns a validated request into a portrait with exactly one
// outbound provider call.
type Generator interface {
	Generate(context.Context, lookalike.Request) (lookalike.Result, error)
}

const (
	imageSize    = 1024
	errorSnippet = 260
)
