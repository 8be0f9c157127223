package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arjun/loanflow/internal/app/models/dto"
	"github.com/arjun/loanflow/internal/pkg/apperrors"
	"github.com/arjun/loanflow/internal/pkg/auth"
)

// BankerCredentials holds the configured reviewer account
type BankerCredentials struct {
	Email        string
	PasswordHash string
}

// authService implements AuthService against a single configured banker
// account. There is no self-service banker registration.
type authService struct {
	credentials BankerCredentials
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(credentials BankerCredentials, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authService{
		credentials: credentials,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Login checks the banker credentials and issues an access token
func (s *authService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	if !strings.EqualFold(email, s.credentials.Email) ||
		!auth.CheckPassword(s.credentials.PasswordHash, password) {
		s.logger.Warn().Str("email", email).Msg("Failed banker login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(s.credentials.Email)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
