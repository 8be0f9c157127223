package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arjun/loanflow/internal/app/models"
	"github.com/arjun/loanflow/internal/pkg/apperrors"
)

const applicationColumns = `
	id, full_name, email, phone, pan, aadhaar,
	age, monthly_income, existing_emi, requested_loan_amount, requested_tenure_months,
	cibil_score, risk_label, default_probability,
	is_verified, analysis_run, approved`

// uniqueViolation is the SQLSTATE for unique constraint violations
const uniqueViolation = "23505"

// ApplicationRepository handles database operations for loan applications
type ApplicationRepository struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
	}
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID,
		&app.FullName,
		&app.Email,
		&app.Phone,
		&app.PAN,
		&app.Aadhaar,
		&app.Age,
		&app.MonthlyIncome,
		&app.ExistingEMI,
		&app.RequestedLoanAmount,
		&app.RequestedTenureMonths,
		&app.CibilScore,
		&app.RiskLabel,
		&app.DefaultProbability,
		&app.IsVerified,
		&app.AnalysisRun,
		&app.Approved,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts a new application record. The UNIQUE (pan, aadhaar)
// constraint closes the duplicate-submission race; a violation is
// translated to ErrDuplicateApplicant.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (
			full_name, email, phone, pan, aadhaar,
			age, monthly_income, existing_emi, requested_loan_amount, requested_tenure_months
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		app.FullName, app.Email, app.Phone, app.PAN, app.Aadhaar,
		app.Age, app.MonthlyIncome, app.ExistingEMI, app.RequestedLoanAmount, app.RequestedTenureMonths,
	).Scan(&app.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrDuplicateApplicant
		}
		return fmt.Errorf("error creating application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}

	return app, nil
}

// GetAll retrieves all applications, newest id first
func (r *ApplicationRepository) GetAll(ctx context.Context) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// ExistsByPANAndAadhaar checks whether an application already exists for
// the given identity pair
func (r *ApplicationRepository) ExistsByPANAndAadhaar(ctx context.Context, pan, aadhaar string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM applications WHERE pan = $1 AND aadhaar = $2)`,
		pan, aadhaar).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking application existence: %w", err)
	}

	return exists, nil
}

// SetVerified stores the reviewer's verification outcome and returns the
// updated record
func (r *ApplicationRepository) SetVerified(ctx context.Context, id int64, verified bool) (*models.Application, error) {
	query := `
		UPDATE applications
		SET is_verified = $2
		WHERE id = $1
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRow(ctx, query, id, verified))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error updating verification: %w", err)
	}

	return app, nil
}

// SaveAnalysis persists the scoring output. The UPDATE re-asserts the
// verified guard so a concurrent un-verify between guard check and write
// cannot slip through; zero rows means the guard no longer holds.
func (r *ApplicationRepository) SaveAnalysis(ctx context.Context, id int64, score int, label string, probability float64) (*models.Application, error) {
	query := `
		UPDATE applications
		SET cibil_score = $2, risk_label = $3, default_probability = $4, analysis_run = TRUE
		WHERE id = $1 AND is_verified
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRow(ctx, query, id, score, label, probability))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.guardFailure(ctx, id, apperrors.ErrNotVerified)
		}
		return nil, fmt.Errorf("error saving analysis: %w", err)
	}

	return app, nil
}

// SetDecision stores the reviewer's final decision. The UPDATE re-asserts
// the analysis_run guard.
func (r *ApplicationRepository) SetDecision(ctx context.Context, id int64, approved bool) (*models.Application, error) {
	query := `
		UPDATE applications
		SET approved = $2
		WHERE id = $1 AND analysis_run
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRow(ctx, query, id, approved))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.guardFailure(ctx, id, apperrors.ErrAnalysisNotRun)
		}
		return nil, fmt.Errorf("error saving decision: %w", err)
	}

	return app, nil
}

// guardFailure distinguishes a missing record from a failed guard after a
// conditional update matched no rows
func (r *ApplicationRepository) guardFailure(ctx context.Context, id int64, guardErr error) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking application existence: %w", err)
	}
	if !exists {
		return apperrors.ErrApplicationNotFound
	}
	return guardErr
}
