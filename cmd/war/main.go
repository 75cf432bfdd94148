package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/digitaldeck/war-server-go/internal/config"
	"github.com/digitaldeck/war-server-go/internal/deck"
	"github.com/digitaldeck/war-server-go/internal/game"
	"github.com/digitaldeck/war-server-go/internal/hardware"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting war server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	spec, err := deck.LoadSpec(cfg.Game.DecksDir, cfg.Game.Deck)
	if err != nil {
		logger.Fatal("failed to load deck specification", zap.Error(err))
	}
	d, err := deck.New(spec)
	if err != nil {
		logger.Fatal("failed to build deck", zap.Error(err))
	}
	logger.Info("deck built",
		zap.String("deck", d.Name),
		zap.Int("size", d.Size()),
	)

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("shuffle seeded", zap.Int64("seed", seed))

	var reader hardware.TagReader
	switch cfg.Reader.Mode {
	case "stdin":
		reader = hardware.NewStdinReader(os.Stdin, logger)
	default:
		reader = hardware.NewSimReader(2, cfg.Reader.TagsPerPlayer)
	}
	logger.Info("tag reader initialized", zap.String("mode", cfg.Reader.Mode))

	var display hardware.Display
	if cfg.Display.Mode == "bridge" {
		bridge, dialErr := hardware.DialBridge(ctx, cfg.Display.BridgeURL, cfg.Display.WriteTimeout, logger)
		if dialErr != nil {
			logger.Warn("display bridge unavailable, falling back to log display", zap.Error(dialErr))
			display = hardware.NewLogDisplay(logger)
		} else {
			defer bridge.Close()
			display = bridge
		}
	} else {
		display = hardware.NewLogDisplay(logger)
	}

	war := game.NewWar(d, rng, cfg.Reader, reader, display, logger)
	logger.Info("welcome", zap.String("game", war.Name()), zap.String("game_id", war.ID()))

	winner, err := game.Run(ctx, war)
	if err != nil {
		logger.Fatal("game failed", zap.Error(err))
	}

	logger.Info("player wins", zap.Int("player", winner))
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
