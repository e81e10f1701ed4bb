// Package main provides the voice notes backend entry point.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/voicenotes/internal/config"
	"github.com/thebtf/voicenotes/internal/mailer"
	"github.com/thebtf/voicenotes/internal/ocr"
	"github.com/thebtf/voicenotes/internal/server"
	"github.com/thebtf/voicenotes/internal/watcher"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	port := flag.Int("port", 0, "Listen port (overrides config and env)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	// .env first, then config file, then environment overrides.
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	cfg.ApplyEnv()
	if *port != 0 {
		cfg.Port = *port
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if *debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := cfg.EnsureUploadDir(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to create upload directory")
	}

	engine, err := ocr.NewExecEngine(cfg.OCRCommand, cfg.OCRLanguage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure OCR engine")
	}
	transport := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
	if cfg.EmailUser == "" {
		// Not fatal: delivery fails at send time, matching the contract.
		log.Warn().Msg("EMAIL_USER not set; email dispatch will fail until configured")
	}

	// Recreate the staging dir if something removes it at runtime.
	stagingWatcher, err := watcher.New(cfg.UploadDir)
	if err != nil {
		log.Warn().Err(err).Msg("Staging watcher unavailable")
	} else {
		if err := stagingWatcher.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start staging watcher")
		}
		defer stagingWatcher.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down")
		cancel()
	}()

	log.Info().Str("version", Version).Int("port", cfg.Port).Msg("Starting voice notes backend")
	svc := server.New(cfg, engine, transport)
	if err := svc.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
