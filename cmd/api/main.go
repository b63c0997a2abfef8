package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	httpadp "lending-ledger/internal/adapter/http"
	"lending-ledger/internal/adapter/middleware"
	"lending-ledger/internal/app"
	"lending-ledger/internal/config"
	"lending-ledger/pkg/logger"
)

func main() {
	cfg := config.Load()
	l := logger.Init(cfg.LogLevel, cfg.LogFile)
	if err := cfg.Validate(); err != nil {
		l.Fatal().Err(err).Msg("invalid config")
	}

	a, err := app.Build(cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("bootstrap failed")
	}
	defer a.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), middleware.RequestLogger(l))

	// idempotency needs redis; without it writes are served as-is
	var idemp echo.MiddlewareFunc
	if a.Redis != nil {
		idemp = middleware.Idempotency(a.Redis, time.Duration(cfg.IdempTTLSecs)*time.Second)
	} else {
		l.Warn().Msg("no redis configured; idempotency disabled")
	}

	httpadp.Register(e,
		httpadp.NewHandler(a.Checks()...),
		httpadp.NewLoanHandler(a.Usecase),
		httpadp.NewChainHandler(a.Usecase),
		idemp,
	)

	addr := ":" + cfg.AppPort
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("bye")
}
