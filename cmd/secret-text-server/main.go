// Command secret-text-server runs the secret-text MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	secrettext "github.com/secrettextlabs/secret-text-server"
	"github.com/secrettextlabs/secret-text-server/config"
	"github.com/secrettextlabs/secret-text-server/middleware"
	"github.com/secrettextlabs/secret-text-server/server"
	"github.com/secrettextlabs/secret-text-server/transport"
)

func main() {
	// A missing .env file is fine; the environment itself still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	log := newLogger(cfg)

	srv := secrettext.NewServer()
	handler := buildHandler(srv, cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig.String()).Info("shutting down")
		cancel()
	}()

	tr := buildTransport(cfg)

	log.WithFields(logrus.Fields{
		"transport": cfg.Transport,
		"addr":      tr.Addr(),
	}).Info("starting secret-text server")

	if err := tr.Serve(ctx, handler); err != nil && err != context.Canceled {
		log.Fatalf("server error: %v", err)
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}

// buildHandler wraps the dispatcher in the middleware stack.
func buildHandler(srv *server.Server, cfg *config.Config, log *logrus.Logger) transport.Handler {
	logger := middleware.NewLogrusLogger(log)

	stack := middleware.DefaultStack(logger)
	if cfg.RateLimit > 0 {
		stack = append(stack, middleware.RateLimit(cfg.RateLimit, cfg.RateBurst,
			middleware.WithRateLimitLogger(logger)))
	}
	if cfg.OTelEnabled {
		stack = append(stack, middleware.OTel(
			middleware.WithOTelServiceName(secrettext.ServerName)))
	}

	dispatcher := server.NewHandler(srv)
	wrapped := middleware.Chain(stack...)(dispatcher.HandleRequest)

	return transport.HandlerFunc(wrapped)
}

func buildTransport(cfg *config.Config) transport.Transport {
	switch cfg.Transport {
	case config.TransportStdio:
		return transport.NewStdio()
	case config.TransportWebSocket:
		return transport.NewWebSocket(cfg.Addr(),
			transport.WithWebSocketReadTimeout(cfg.ReadTimeout),
			transport.WithWebSocketWriteTimeout(cfg.WriteTimeout))
	default:
		return transport.NewHTTP(cfg.Addr(),
			transport.WithReadTimeout(cfg.ReadTimeout),
			transport.WithWriteTimeout(cfg.WriteTimeout),
			transport.WithShutdownTimeout(cfg.ShutdownTimeout),
			transport.WithServerName(secrettext.ServerName),
			transport.WithDefaultCORS())
	}
}
