package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmorgan81/lookalike/internal/apigw"
	"github.com/dmorgan81/lookalike/internal/config"
	"github.com/dmorgan81/lookalike/internal/inject"
	"github.com/dmorgan81/lookalike/internal/log"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := log.New(cfg.Logging)
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	ctx := log.NewContext(context.Background(), logger)
	injector := inject.Setup(ctx, cfg)
	do.MustInvoke[*config.Config](injector).LogStatus(logger)

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		adapter := apigw.New(do.MustInvoke[*gin.Engine](injector))
		lambda.StartWithOptions(adapter.Handle, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
			_ = injector.Shutdown()
		}))
		return nil
	}

	return serve(ctx, injector)
}

func serve(ctx context.Context, injector *do.Injector) error {
	log := log.FromContextOrDiscard(ctx)
	srv := do.MustInvoke[*http.Server](injector)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return injector.Shutdown()
	})

	return g.Wait()
}
