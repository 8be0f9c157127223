package scoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/arjun/loanflow/internal/config"
	"github.com/arjun/loanflow/internal/pkg/metrics"
)

// Server holds the state for the scoring HTTP server
type Server struct {
	config *config.Config
	router *gin.Engine
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads the model artifact and builds the scoring service. A
// missing or incomplete artifact aborts construction.
func NewServer(cfg *config.Config, lgr zerolog.Logger) (*Server, error) {
	model, err := LoadModel(cfg.Scoring.ModelPath)
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Scoring.ModelPath).Msg("Failed to load model artifact")
		return nil, err
	}
	lgr.Info().Str("path", cfg.Scoring.ModelPath).Msg("Model artifact loaded")

	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())

	NewHandler(model, lgr).RegisterRoutes(router)

	return &Server{
		config: cfg,
		router: router,
		logger: lgr,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Scoring.ListenPort,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("Scoring server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting scoring server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Scoring server shutdown error")
			return err
		}
	}

	s.logger.Info().Msg("Scoring server stopped.")
	return nil
}
