package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tapas_chat/internal/adapters/observability"
	"tapas_chat/internal/classify"
	"tapas_chat/internal/normalize"
	"tapas_chat/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	root := &cobra.Command{
		Use:           "tapasctl",
		Short:         "Operator tools for the TAPAS chat service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(renderCmd(), classifyCmd(cfg), replayCmd(cfg), migrateCmd(cfg), sessionsCmd(cfg))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("tapasctl failed")
		os.Exit(1)
	}
}

func newClassifier(cfg shared.Config) *classify.Classifier {
	return classify.New(normalize.New(cfg.USDToINR,
		normalize.WithLabeler(normalize.NewLabeler(cfg.CurrencySymbol, cfg.CurrencyLocale))))
}
