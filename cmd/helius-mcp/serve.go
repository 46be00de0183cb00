package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcSpark/mcp-server-helius/internal/config"
	httpsvr "github.com/dcSpark/mcp-server-helius/internal/http"
	mcpsvr "github.com/dcSpark/mcp-server-helius/internal/mcp"
)

const shutdownGrace = 15 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, vault, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Log.Level)
	logger.Info("effective config", "config", cfg.Redacted())

	if vault != nil {
		vault.StartRenewal(ctx, logger)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}
	defer a.Close()

	type stopper interface {
		Shutdown(context.Context) error
	}
	var servers []stopper
	errCh := make(chan error, len(cfg.Server.Transports))

	if cfg.HasTransport(config.TransportHTTP) {
		opts := httpsvr.Options{
			Registry:       a.registry,
			JWTSecret:      cfg.HTTP.AuthJWTSecret,
			RateLimitRPS:   cfg.HTTP.RateLimitRPS,
			RateLimitBurst: cfg.HTTP.RateLimitBurst,
			Build:          httpsvr.BuildInfo{Version: version, GitCommit: gitCommit, BuildTime: buildTime},
			Logger:         logger,
		}
		if a.database != nil {
			opts.ToolCalls = a.database
		}
		s := httpsvr.NewServer(cfg.Server.HTTPListen, opts)
		servers = append(servers, s)
		go func() {
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				errCh <- fmt.Errorf("http: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	if cfg.HasTransport(config.TransportTCP) {
		s := mcpsvr.NewServer(cfg.Server.TCPListen, a.registry, version, logger)
		servers = append(servers, s)
		go func() {
			if err := s.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("tcp: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	if cfg.HasTransport(config.TransportStdio) {
		go func() {
			if err := mcpsvr.ServeStdio(ctx, a.registry, version, logger); err != nil && ctx.Err() == nil {
				errCh <- fmt.Errorf("stdio: %w", err)
				return
			}
			logger.Info("stdio session ended")
			errCh <- nil
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down", "reason", "signal")
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("server error", "err", runErr)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}
	logger.Info("shutdown complete")
	return runErr
}
