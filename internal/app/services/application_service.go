package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arjun/loanflow/internal/app/models"
	"github.com/arjun/loanflow/internal/app/models/dto"
	"github.com/arjun/loanflow/internal/pkg/apperrors"
	"github.com/arjun/loanflow/internal/pkg/metrics"
	"github.com/arjun/loanflow/internal/pkg/riskengine"
	"github.com/arjun/loanflow/internal/pkg/validation"
)

// applicationService implements ApplicationService
type applicationService struct {
	store   ApplicationStore
	scoring riskengine.Client
	logger  zerolog.Logger
}

// NewApplicationService creates a new application lifecycle service
func NewApplicationService(store ApplicationStore, scoring riskengine.Client, logger zerolog.Logger) ApplicationService {
	return &applicationService{
		store:   store,
		scoring: scoring,
		logger:  logger,
	}
}

// Intake creates a new application in its initial state. The (pan, aadhaar)
// pair must be fresh; the check here gives a friendly error on the common
// path and the storage constraint closes the race.
func (s *applicationService) Intake(ctx context.Context, req *dto.ApplicationCreateRequest) (app *models.Application, err error) {
	defer func() { metrics.RecordLifecycle("intake", err) }()

	if res := req.Validate(); !res.OK() {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid applicant submission").
			WithDetails(map[string]interface{}{"violations": res.Violations})
	}

	pan := validation.NormalizePAN(req.PAN)

	exists, err := s.store.ExistsByPANAndAadhaar(ctx, pan, req.Aadhaar)
	if err != nil {
		return nil, fmt.Errorf("error checking for duplicate applicant: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateApplicant
	}

	app = &models.Application{
		FullName:              req.FullName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		PAN:                   pan,
		Aadhaar:               req.Aadhaar,
		Age:                   req.Age,
		MonthlyIncome:         req.MonthlyIncome,
		ExistingEMI:           req.ExistingEMI,
		RequestedLoanAmount:   req.RequestedLoanAmount,
		RequestedTenureMonths: req.RequestedTenureMonths,
	}

	if err = s.store.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("applicationId", app.ID).Str("pan", app.PAN).Msg("Application created")
	return app, nil
}

// GetByID retrieves a single application
func (s *applicationService) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	return s.store.GetByID(ctx, id)
}

// List retrieves all applications, newest first
func (s *applicationService) List(ctx context.Context) ([]*models.Application, error) {
	return s.store.GetAll(ctx)
}

// Verify records the reviewer's verification outcome. The flag may be set
// either way any number of times; prior analysis output is left untouched.
func (s *applicationService) Verify(ctx context.Context, id int64, verified bool) (app *models.Application, err error) {
	defer func() { metrics.RecordLifecycle("verify", err) }()

	app, err = s.store.SetVerified(ctx, id, verified)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("applicationId", id).Bool("verified", verified).Msg("Application verification updated")
	return app, nil
}

// Analyze invokes the scoring service for a verified application and
// persists its verdict. A failed scoring call leaves the record untouched;
// the persisting update re-asserts the verified guard.
func (s *applicationService) Analyze(ctx context.Context, id int64) (app *models.Application, err error) {
	defer func() { metrics.RecordLifecycle("analyze", err) }()

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.IsVerified {
		return nil, apperrors.ErrNotVerified
	}

	result, err := s.scoring.Analyze(ctx, riskengine.AnalysisRequest{
		Age:                   current.Age,
		MonthlyIncome:         current.MonthlyIncome,
		ExistingEMI:           current.ExistingEMI,
		RequestedLoanAmount:   current.RequestedLoanAmount,
		RequestedTenureMonths: current.RequestedTenureMonths,
	})
	if err != nil {
		return nil, err
	}

	app, err = s.store.SaveAnalysis(ctx, id, result.CibilScore, result.RiskLabel, result.DefaultProbability)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("applicationId", id).
		Int("cibilScore", result.CibilScore).
		Str("riskLabel", result.RiskLabel).
		Msg("Application analyzed")
	return app, nil
}

// Decide records the reviewer's final decision. Permitted only after
// analysis has run; the update re-asserts that guard.
func (s *applicationService) Decide(ctx context.Context, id int64, approved bool) (app *models.Application, err error) {
	defer func() { metrics.RecordLifecycle("decide", err) }()

	app, err = s.store.SetDecision(ctx, id, approved)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("applicationId", id).Bool("approved", approved).Msg("Application decision recorded")
	return app, nil
}
