package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eventgate-io/eventgate-go/internal/config"
	"github.com/eventgate-io/eventgate-go/internal/discovery"
	"github.com/eventgate-io/eventgate-go/internal/gateway"
	"github.com/eventgate-io/eventgate-go/internal/handlers"
	"github.com/eventgate-io/eventgate-go/internal/logging"
)

const (
	// Application info
	appName    = "EventGate"
	appVersion = "0.1.0"
)

func main() {
	var (
		configPath  = flag.String("config", "eventgate.yaml", "Path to the gateway configuration file")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", appName, appVersion)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("🚀 starting gateway",
		zap.String("app", appName),
		zap.String("version", appVersion),
		zap.String("config", *configPath),
		zap.Int("port", cfg.Server.Port),
		zap.Int("routes", len(cfg.Routes)))

	disc := discovery.NewStaticDiscovery(handlers.Manifest()...)

	gw, err := gateway.New(cfg, disc, logger)
	if err != nil {
		logger.Fatal("❌ failed to create gateway", zap.Error(err))
	}
	defer func() {
		if err := gw.Close(); err != nil {
			logger.Warn("error closing gateway", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := gw.Start(ctx); err != nil {
		logger.Fatal("❌ failed to start gateway", zap.Error(err))
	}

	setupGracefulShutdown(cancel, gw, logger)

	logger.Info("✅ gateway started", zap.Int("port", cfg.Server.Port))

	<-ctx.Done()
	logger.Info("👋 gateway stopped")
}

// setupGracefulShutdown configures signal handling for graceful shutdown
func setupGracefulShutdown(cancel context.CancelFunc, gw *gateway.Gateway, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		sig := <-sigChan
		logger.Info("🛑 received signal, shutting down", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := gw.Stop(shutdownCtx); err != nil {
			logger.Warn("error during graceful stop", zap.Error(err))
		}

		cancel()
	}()
}
