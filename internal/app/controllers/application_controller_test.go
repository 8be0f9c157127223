package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/loanflow/internal/app/controllers"
	"github.com/arjun/loanflow/internal/app/models"
	"github.com/arjun/loanflow/internal/app/models/dto"
	"github.com/arjun/loanflow/internal/app/routes"
	"github.com/arjun/loanflow/internal/app/services"
	"github.com/arjun/loanflow/internal/middleware"
	"github.com/arjun/loanflow/internal/pkg/apperrors"
	"github.com/arjun/loanflow/internal/pkg/auth"
)

// fakeApplicationService returns canned results per method
type fakeApplicationService struct {
	intakeApp  *models.Application
	intakeErr  error
	getApp     *models.Application
	getErr     error
	listApps   []*models.Application
	listErr    error
	verifyApp  *models.Application
	verifyErr  error
	analyzeApp *models.Application
	analyzeErr error
	decideApp  *models.Application
	decideErr  error
}

func (f *fakeApplicationService) Intake(_ context.Context, _ *dto.ApplicationCreateRequest) (*models.Application, error) {
	return f.intakeApp, f.intakeErr
}

func (f *fakeApplicationService) GetByID(_ context.Context, _ int64) (*models.Application, error) {
	return f.getApp, f.getErr
}

func (f *fakeApplicationService) List(_ context.Context) ([]*models.Application, error) {
	return f.listApps, f.listErr
}

func (f *fakeApplicationService) Verify(_ context.Context, _ int64, _ bool) (*models.Application, error) {
	return f.verifyApp, f.verifyErr
}

func (f *fakeApplicationService) Analyze(_ context.Context, _ int64) (*models.Application, error) {
	return f.analyzeApp, f.analyzeErr
}

func (f *fakeApplicationService) Decide(_ context.Context, _ int64, _ bool) (*models.Application, error) {
	return f.decideApp, f.decideErr
}

const (
	testBankerEmail    = "banker@loanflow.app"
	testBankerPassword = "reviewer-secret"
)

type testEnv struct {
	router *gin.Engine
	jwt    *auth.JWTService
}

// newTestEnv wires the real router, middleware and auth stack around a
// fake application service
func newTestEnv(t *testing.T, appSvc services.ApplicationService) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExpiry: time.Hour,
		TokenIssuer: "loanflow.test",
	})

	hash, err := auth.HashPassword(testBankerPassword)
	require.NoError(t, err)

	authSvc := services.NewAuthService(services.BankerCredentials{
		Email:        testBankerEmail,
		PasswordHash: hash,
	}, jwtService, zerolog.Nop())

	router := gin.New()
	routes.SetupRouter(
		router,
		controllers.NewAuthController(authSvc),
		controllers.NewApplicationController(appSvc),
		middleware.NewAuthMiddleware(jwtService),
	)

	return testEnv{router: router, jwt: jwtService}
}

func (e testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) bankerToken(t *testing.T) string {
	t.Helper()
	token, _, err := e.jwt.GenerateToken(testBankerEmail)
	require.NoError(t, err)
	return token
}

func sampleApplication() *models.Application {
	return &models.Application{
		ID:                    1,
		FullName:              "Ravi Sharma",
		Email:                 "ravi.sharma@example.com",
		Phone:                 "9876543210",
		PAN:                   "ABCDE1234F",
		Aadhaar:               "123412341234",
		Age:                   30,
		MonthlyIncome:         50000,
		ExistingEMI:           2000,
		RequestedLoanAmount:   200000,
		RequestedTenureMonths: 24,
	}
}

func applyBody() gin.H {
	return gin.H{
		"full_name":               "Ravi Sharma",
		"email":                   "ravi.sharma@example.com",
		"phone":                   "9876543210",
		"pan":                     "ABCDE1234F",
		"aadhaar":                 "123412341234",
		"age":                     30,
		"monthly_income":          50000,
		"existing_emi":            2000,
		"requested_loan_amount":   200000,
		"requested_tenure_months": 24,
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestApply_Created(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{intakeApp: sampleApplication()})

	rec := env.do(t, http.MethodPost, "/user/apply", applyBody(), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data models.Application `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.Equal(t, "ABCDE1234F", resp.Data.PAN)
	assert.False(t, resp.Data.IsVerified)
	assert.Nil(t, resp.Data.CibilScore)
}

func TestApply_MalformedJSON(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{})

	req := httptest.NewRequest(http.MethodPost, "/user/apply", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, rec).Error.Code)
}

func TestApply_ValidationFailure(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{
		intakeErr: apperrors.NewCustomError(apperrors.ErrValidationFailed, "validation failed"),
	})

	rec := env.do(t, http.MethodPost, "/user/apply", applyBody(), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, rec).Error.Code)
}

func TestApply_DuplicateApplicant(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{intakeErr: apperrors.ErrDuplicateApplicant})

	rec := env.do(t, http.MethodPost, "/user/apply", applyBody(), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, decodeError(t, rec).Error.Code)
}

func TestBankerRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{})

	paths := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/banker/applications", nil},
		{http.MethodGet, "/banker/applications/1", nil},
		{http.MethodPost, "/banker/applications/1/verify", gin.H{"is_verified": true}},
		{http.MethodPost, "/banker/applications/1/analyze", nil},
		{http.MethodPost, "/banker/applications/1/decision", gin.H{"approved": true}},
	}

	for _, p := range paths {
		rec := env.do(t, p.method, p.path, p.body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestBankerRoutes_RejectGarbageToken(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{})

	rec := env.do(t, http.MethodGet, "/banker/applications", nil, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, rec).Error.Code)
}

func TestListApplications_OK(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{
		listApps: []*models.Application{sampleApplication()},
	})

	rec := env.do(t, http.MethodGet, "/banker/applications", nil, env.bankerToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Application `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ravi Sharma", resp.Data[0].FullName)
}

func TestGetApplication_NotFound(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{getErr: apperrors.ErrApplicationNotFound})

	rec := env.do(t, http.MethodGet, "/banker/applications/42", nil, env.bankerToken(t))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, decodeError(t, rec).Error.Code)
}

func TestGetApplication_NonNumericID(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{})

	rec := env.do(t, http.MethodGet, "/banker/applications/abc", nil, env.bankerToken(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyApplication_OK(t *testing.T) {
	app := sampleApplication()
	app.IsVerified = true
	env := newTestEnv(t, &fakeApplicationService{verifyApp: app})

	rec := env.do(t, http.MethodPost, "/banker/applications/1/verify",
		gin.H{"is_verified": true}, env.bankerToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.Application `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.IsVerified)
}

func TestVerifyApplication_MissingFlag(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{})

	rec := env.do(t, http.MethodPost, "/banker/applications/1/verify",
		gin.H{}, env.bankerToken(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeApplication_Unverified(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{analyzeErr: apperrors.ErrNotVerified})

	rec := env.do(t, http.MethodPost, "/banker/applications/1/analyze", nil, env.bankerToken(t))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, dto.ErrorCodePreconditionFailed, resp.Error.Code)
	assert.Equal(t, "Application must be verified before analysis.", resp.Error.Message)
}

func TestAnalyzeApplication_ScoringFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unreachable", apperrors.NewCustomError(apperrors.ErrScoringUnreachable, "failed to reach scoring service: connection refused")},
		{"rejected", apperrors.NewCustomError(apperrors.ErrScoringRejected, "scoring service error: bad input")},
		{"malformed", apperrors.NewCustomError(apperrors.ErrScoringMalformed, "scoring service returned a malformed response")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &fakeApplicationService{analyzeErr: tt.err})

			rec := env.do(t, http.MethodPost, "/banker/applications/1/analyze", nil, env.bankerToken(t))
			require.Equal(t, http.StatusBadGateway, rec.Code)
			assert.Equal(t, dto.ErrorCodeExternalServiceError, decodeError(t, rec).Error.Code)
		})
	}
}

func TestAnalyzeApplication_OK(t *testing.T) {
	app := sampleApplication()
	app.IsVerified = true
	app.AnalysisRun = true
	score := 812
	label := "Low"
	probability := 0.146
	app.CibilScore = &score
	app.RiskLabel = &label
	app.DefaultProbability = &probability

	env := newTestEnv(t, &fakeApplicationService{analyzeApp: app})

	rec := env.do(t, http.MethodPost, "/banker/applications/1/analyze", nil, env.bankerToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.Application `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.AnalysisRun)
	require.NotNil(t, resp.Data.CibilScore)
	assert.Equal(t, 812, *resp.Data.CibilScore)
	require.NotNil(t, resp.Data.RiskLabel)
	assert.Equal(t, "Low", *resp.Data.RiskLabel)
}

func TestDecideApplication_BeforeAnalysis(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{decideErr: apperrors.ErrAnalysisNotRun})

	rec := env.do(t, http.MethodPost, "/banker/applications/1/decision",
		gin.H{"approved": true}, env.bankerToken(t))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, dto.ErrorCodePreconditionFailed, resp.Error.Code)
	assert.Equal(t, "Run analysis before taking decision.", resp.Error.Message)
}

func TestDecideApplication_OK(t *testing.T) {
	app := sampleApplication()
	app.AnalysisRun = true
	app.Approved = true
	env := newTestEnv(t, &fakeApplicationService{decideApp: app})

	rec := env.do(t, http.MethodPost, "/banker/applications/1/decision",
		gin.H{"approved": true}, env.bankerToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.Application `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Approved)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{})

	rec := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{})

	rec := env.do(t, http.MethodPost, "/auth/login",
		gin.H{"email": testBankerEmail, "password": testBankerPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data dto.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.Equal(t, "Bearer", resp.Data.TokenType)

	// The issued token is accepted by the banker routes
	rec = env.do(t, http.MethodGet, "/banker/applications", nil, resp.Data.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t, &fakeApplicationService{})

	rec := env.do(t, http.MethodPost, "/auth/login",
		gin.H{"email": testBankerEmail, "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, decodeError(t, rec).Error.Code)
}
