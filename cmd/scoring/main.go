package main

import (
	"os"

	"github.com/arjun/loanflow/internal/bootstrap"
	"github.com/arjun/loanflow/internal/pkg/logger"
	"github.com/arjun/loanflow/internal/scoring"
)

// @title Loanflow Scoring API
// @version 1.0
// @description Credit risk scoring service backed by a pre-trained default classifier

func main() {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	srv, err := scoring.NewServer(cfg, lgr)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize scoring server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Scoring server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Scoring service finished gracefully.")
}
