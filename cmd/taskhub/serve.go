// cmd/taskhub/serve.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/dalemusser/taskhub/internal/app/bootstrap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			logger, err := bootstrap.NewLogger(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("starting taskhub", zap.String("version", version), zap.String("addr", cfg.HTTPAddr))
			if err := bootstrap.Run(ctx, cfg, logger); err != nil {
				logger.Error("taskhub stopped with error", zap.Error(err))
				return err
			}
			logger.Info("taskhub stopped")
			return nil
		},
	}
}
