// Command server runs the opportunity engine as an HTTP service.
package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/avestoai/avesto-go/aggregate"
	"github.com/avestoai/avesto-go/config"
	"github.com/avestoai/avesto-go/engine"
	"github.com/avestoai/avesto-go/narrate"
	"github.com/avestoai/avesto-go/provider"
	"github.com/avestoai/avesto-go/server"
	"github.com/avestoai/avesto-go/store"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	client := provider.NewClient(provider.Config{
		BaseURL: cfg.ProviderBaseURL,
		APIKey:  cfg.ProviderAPIKey,
	}, log)

	aggregator := aggregate.New(client, nil, aggregate.Config{
		FetchTimeout: cfg.FetchTimeout,
		CacheTTL:     cfg.CacheTTL,
	}, log)

	var recorder engine.Recorder
	var history server.History
	if cfg.HistoryPath != "" {
		h, err := store.NewSQLiteHistory(cfg.HistoryPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.HistoryPath).Msg("failed to open history store")
		}
		defer h.Close()
		recorder = h
		history = h
	}

	var narrator narrate.Narrator
	var suggester narrate.Suggester
	if cfg.AnthropicAPIKey != "" {
		llm := narrate.NewLLM(narrate.LLMConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.Model,
		}, log)
		narrator = llm
		suggester = llm
	} else {
		log.Info().Msg("no Anthropic API key, using template narrator")
	}

	eng := engine.New(aggregator, engine.Config{
		Narrator:  narrator,
		Suggester: suggester,
		Recorder:  recorder,
	}, log)

	srv := server.New(server.Config{
		Engine:    eng,
		Snapshots: aggregator,
		History:   history,
	}, log)

	if err := srv.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
