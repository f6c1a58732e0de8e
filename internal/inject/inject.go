package inject

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/lookalike/internal/config"
	"github.com/dmorgan81/lookalike/internal/handler"
	"github.com/dmorgan81/lookalike/internal/image"
	"github.com/dmorgan81/lookalike/internal/log"
	"github.com/dmorgan81/lookalike/internal/metrics"
	"github.com/dmorgan81/lookalike/internal/param"
	"github.com/dmorgan81/lookalike/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
)

// Setup registers every service. Nothing is constructed until first invoked,
// so AWS clients are only built when a *_PARAM secret is configured.
func Setup(ctx context.Context, cfg *config.Config) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[*slog.Logger](injector, log)
	do.ProvideValue[*http.Client](injector, http.DefaultClient)

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)

	do.Provide[*config.Config](injector, func(i *do.Injector) (*config.Config, error) {
		return resolveConfig(ctx, i, cfg), nil
	})

	do.ProvideValue[*metrics.Recorder](injector, metrics.NewRecorder())
	do.Provide[image.Generator](injector, NewGenerator)
	do.Provide[*handler.Handler](injector, handler.NewHandler)
	do.Provide[*gin.Engine](injector, handler.NewRouter)
	do.Provide[*http.Server](injector, server.Provide)

	return injector
}

// NewGenerator picks the provider client named by the config and wraps it
// with call metrics.
func NewGenerator(i *do.Injector) (image.Generator, error) {
	cfg := do.MustInvoke[*config.Config](i)

	var (
		gen image.Generator
		err error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		gen, err = image.NewOpenAIGenerator(i)
	case config.ProviderPollinations:
		gen, err = image.NewPollinationsGenerator(i)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return image.Instrument(gen, string(cfg.Provider), do.MustInvoke[*metrics.Recorder](i)), nil
}

// resolveConfig fills *_PARAM secrets. A failed lookup is logged and the
// service keeps running; requests then surface the missing credential.
func resolveConfig(ctx context.Context, i *do.Injector, cfg *config.Config) *config.Config {
	log := log.FromContextOrDiscard(ctx).WithGroup("inject")
	if !cfg.NeedsFetcher() {
		return cfg
	}

	fetcher, err := do.Invoke[param.Fetcher](i)
	if err != nil {
		log.Warn("parameter store unavailable", "error", err)
		return cfg
	}
	resolved, err := cfg.ResolveSecrets(ctx, fetcher)
	if err != nil {
		log.Warn("resolving secrets", "error", err)
		return cfg
	}
	return resolved
}
