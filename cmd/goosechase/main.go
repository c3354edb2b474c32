// Command goosechase runs the music discovery API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/AmirS36/goosechase-music-discovery/internal/completion"
	"github.com/AmirS36/goosechase-music-discovery/internal/config"
	"github.com/AmirS36/goosechase-music-discovery/internal/db"
	"github.com/AmirS36/goosechase-music-discovery/internal/deezer"
	"github.com/AmirS36/goosechase-music-discovery/internal/extract"
	"github.com/AmirS36/goosechase-music-discovery/internal/logger"
	"github.com/AmirS36/goosechase-music-discovery/internal/pipeline"
	"github.com/AmirS36/goosechase-music-discovery/internal/recommend"
	"github.com/AmirS36/goosechase-music-discovery/internal/resolve"
	"github.com/AmirS36/goosechase-music-discovery/internal/spotify"
	"github.com/AmirS36/goosechase-music-discovery/internal/taste"
	"github.com/AmirS36/goosechase-music-discovery/internal/weather"
	"github.com/AmirS36/goosechase-music-discovery/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file (defaults to environment variables)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Log)

	ctx := context.Background()
	database, err := db.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	// Catalog providers and the resolution cascade.
	tokens := spotify.NewTokenCache(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.TokenMargin)
	primary := spotify.New(tokens)
	secondary := deezer.NewClient()
	cascade := resolve.NewCascade(primary, secondary, log)

	// Completion-backed analysis and suggestion services.
	completions := completion.NewClient(completion.Config{
		APIKey: cfg.Completion.APIKey,
		Model:  cfg.Completion.Model,
	})

	extractor := extract.New(database, completions, log,
		extract.WithWindowSize(cfg.Taste.WindowSize))
	rollup := taste.NewRollup(database, completions, log)
	tastePipeline := pipeline.New(extractor, rollup, log)

	recommender := recommend.New(database, completions, cascade, log)
	mood := weather.NewInferencer(weather.NewClient(), log)

	handlers := web.NewHandlers(database, tastePipeline, recommender, mood, log)
	server := web.NewServer(cfg.Server, handlers, log)

	return server.Run()
}
