package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/maxviazov/ticket-registration-service/internal/config"
	"github.com/maxviazov/ticket-registration-service/internal/logger"
	"github.com/maxviazov/ticket-registration-service/internal/server"
)

func main() {
	flags := pflag.NewFlagSet("ticket-registration-service", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "config.yaml", "path to the YAML config file (empty to rely on APP_* env only)")
	showVersion := flags.Bool("version", false, "print the configured service version and exit")
	_ = flags.Parse(os.Args[1:])

	// Load application config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}
	if *showVersion {
		fmt.Printf("%s %s\n", cfg.App.Name, cfg.App.Version)
		return
	}

	// Logger inherits identity from the app section unless set explicitly
	if cfg.Logger.ServiceName == "" {
		cfg.Logger.ServiceName = cfg.App.Name
	}
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = cfg.App.Version
	}
	if cfg.Logger.Env == "" {
		cfg.Logger.Env = cfg.App.Env
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	switch cfg.App.Env {
	case "dev":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("server stopped with error")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	srv, err := server.New(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer srv.Close()

	appLogger.Info().
		Str("addr", cfg.App.Addr()).
		Str("storage", cfg.Storage.Driver).
		Msg("🚀 Service started")
	return srv.Run(ctx)
}
