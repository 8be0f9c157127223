package services

import (
	"context"

	"github.com/arjun/loanflow/internal/app/models"
	"github.com/arjun/loanflow/internal/app/models/dto"
)

// ApplicationService governs the application lifecycle: intake, verify,
// analyze, decide, read
type ApplicationService interface {
	Intake(ctx context.Context, req *dto.ApplicationCreateRequest) (*models.Application, error)
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	List(ctx context.Context) ([]*models.Application, error)
	Verify(ctx context.Context, id int64, verified bool) (*models.Application, error)
	Analyze(ctx context.Context, id int64) (*models.Application, error)
	Decide(ctx context.Context, id int64, approved bool) (*models.Application, error)
}

// AuthService authenticates bankers and issues access tokens
type AuthService interface {
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
}

// ApplicationStore is the persistence boundary used by the lifecycle engine
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	GetAll(ctx context.Context) ([]*models.Application, error)
	ExistsByPANAndAadhaar(ctx context.Context, pan, aadhaar string) (bool, error)
	SetVerified(ctx context.Context, id int64, verified bool) (*models.Application, error)
	SaveAnalysis(ctx context.Context, id int64, score int, label string, probability float64) (*models.Application, error)
	SetDecision(ctx context.Context, id int64, approved bool) (*models.Application, error)
}
