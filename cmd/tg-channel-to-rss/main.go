// Package main provides the tg-channel-to-rss daemon entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hleb-kastseika/tg-channel-to-rss/internal/config"
	"github.com/hleb-kastseika/tg-channel-to-rss/internal/feeds/telegram"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	command := &cobra.Command{
		Use:   "tg-channel-to-rss",
		Short: "RSS feeds for public Telegram channels",
		Long:  "tg-channel-to-rss serves web previews of public Telegram channels as RSS feeds.",
		Args:  cobra.NoArgs,

		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}

	command.Flags().StringVarP(&configPath, "config", "c", "", "configuration file path")

	return command
}

func run(configPath string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.DevelMode)
	if err != nil {
		return fmt.Errorf("failed to initialize the logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logging.WithLogger(ctx, logger.Sugar())

	feedServer := server.New(cfg.APIKey)
	if err := server.Register(feedServer, telegram.NewFeed(telegram.WithBlockedTags(cfg.BlockedTags...))); err != nil {
		return err
	}

	return feedServer.Serve(ctx, cfg.ListenAddr, cfg.MetricsAddr)
}

func newLogger(develMode bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.DisableStacktrace = true

	if develMode {
		config = zap.NewDevelopmentConfig()
	}

	return config.Build()
}
