// Command bgserver hosts a backgammon table over HTTP, SSE and WebSocket.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgtable/internal/config"
	"github.com/yourusername/bgtable/pkg/api"
	"github.com/yourusername/bgtable/pkg/engine"
)

const version = "0.2.0"

func main() {
	configPath := flag.String("config", "", "Path to config file (default searches ., ./config, /etc/bgtable)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bgtable server v%s\n", version)
		os.Exit(0)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()
	setupLogging(cfg.Log.Level, cfg.Log.Format)

	if path := config.ConfigFilePath(); path != "" {
		log.Info().Str("file", path).Msg("Loaded configuration")
	}

	config.WatchConfig(func(c *config.Config, err error) {
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid configuration change")
			return
		}
		setupLogging(c.Log.Level, c.Log.Format)
		log.Info().Str("level", c.Log.Level).Msg("Configuration reloaded")
	})

	aiSide, err := engine.ParseSide(strings.ToLower(cfg.Game.AISide))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid game.ai_side")
	}

	table := api.NewTable(api.TableOptions{
		Seed:          cfg.Game.Seed,
		RandomStarter: cfg.Game.RandomStarter,
		AISide:        aiSide,
	})

	server := api.NewServer(table, api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxFastWorkers:  cfg.Server.MaxFastWorkers,
		MaxSlowWorkers:  cfg.Server.MaxSlowWorkers,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	}, version)

	log.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("ai_side", aiSide.String()).
		Msg("bgtable server starting")

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" || format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
