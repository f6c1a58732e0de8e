package image

import (
	"context"
	"errors"
	"time"

	"github.com/dmorgan81/lookalike/internal/lookalike"
	"github.com/dmorgan81/lookalike/internal/metrics"
)

type instrumented struct {
	next     Generator
	provider string
	recorder *metrics.Recorder
}

func Instrument(next Generator, provider string, recorder *metrics.Recorder) Generator {
	return &instrumented{next: next, provider: provider, recorder: recorder}
}

func (g *instrumented) Generate(ctx context.Context, req lookalike.Request) (lookalike.Result, error) {
	start := time.Now()
	res, err := g.next.Generate(ctx, req)
	g.recorder.Observe(g.provider, errorKind(err), time.Since(start))
	return res, err
}

func errorKind(err error) string {
	if err == nil {
		return ""
	}
	var lerr *lookalike.Error
	if errors.As(err, &lerr) {
		return string(lerr.Kind)
	}
	return string(lookalike.KindInternal)
}
