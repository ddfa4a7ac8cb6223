package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/scanpos/pkg/config"
	"github.com/angelmondragon/scanpos/pkg/instance"
	"github.com/angelmondragon/scanpos/pkg/logger"
)

const serviceName = "scanpos"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "scanpos stopped unexpectedly", err)
		os.Exit(1)
	}
}

// run owns every resource so deferred cleanup happens before main exits.
func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"port":    cfg.App.Port,
		"station": instance.GetID(),
	})

	service, err := Bootstrap(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := service.Close(); err != nil {
			logg.Error(ctx, "error releasing resources", err)
		}
	}()

	logg.Info(ctx, "starting scanpos")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logg.Info(ctx, "scanpos shutting down gracefully")
	return nil
}
