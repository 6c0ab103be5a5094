// Package main is the entry point for the todod task API server.
package main

import (
	"context"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoctl/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	cfg := server.LoadConfig()
	gin.SetMode(cfg.GinMode)

	db, err := server.OpenDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, tokens will not survive a restart")
	}
	tokens, err := server.NewTokenManager(cfg.JWTSecret, server.DefaultTokenDuration)
	if err != nil {
		logger.Fatal("failed to create token manager", zap.Error(err))
	}

	srv := server.New(db, tokens, server.NewPasswordHasher(0), logger)

	go func() {
		if err := srv.ListenAndServe(cfg.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("graceful shutdown initiated")
				return srv.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("server exited", zap.Int("code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}
