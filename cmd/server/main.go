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

	"github.com/gin-gonic/gin"

	"anaam-stocks/internal/bootstrap"
	"anaam-stocks/internal/httpserver"
	"anaam-stocks/internal/logger"
	"anaam-stocks/internal/session"
	"anaam-stocks/internal/trace"
)

func main() {
	if err := bootstrap.InitializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := bootstrap.LoadConfig(ctx)
	if err != nil {
		return err
	}

	codec, err := session.NewCodec(cfg.Secrets.SessionSecret)
	if err != nil {
		logger.ErrorWithErr(ctx, "Invalid SESSION_SECRET", err)
		return err
	}

	if cfg.Server.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	brk := bootstrap.InitializeBroker(ctx, cfg)
	completer := bootstrap.InitializeCompleter(ctx, cfg)
	eng := bootstrap.InitializeEngine(cfg, brk, completer)

	srv := httpserver.New(eng, brk, codec, session.Options{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.SessionMaxAge(),
		Secure: cfg.Server.Production,
	}, logger.Zap())

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting server", "addr", cfg.Server.Addr, "version", bootstrap.Version, "llm_provider", cfg.LLM.Provider)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		logger.ErrorWithErr(ctx, "Server failed", err)
		return err
	case sig := <-quit:
		logger.Info(ctx, "Shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(ctx, "Server forced to shutdown", err)
		return err
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "Failed to flush traces", "error", err)
	}

	logger.Info(ctx, "Server exited properly")
	return nil
}
