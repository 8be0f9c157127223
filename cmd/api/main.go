package main

import (
	"os"

	"github.com/arjun/loanflow/internal/pkg/logger"
	"github.com/arjun/loanflow/internal/server"
)

// @title Loanflow API
// @version 1.0
// @description Loan origination backend: applicant intake and the banker review workflow

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for banker authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup errors are logged in detail inside NewServer
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
