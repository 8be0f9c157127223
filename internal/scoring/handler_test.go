package scoring

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/loanflow/internal/app/models/dto"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	NewHandler(loadTestModel(t), zerolog.Nop()).RegisterRoutes(router)
	return router
}

func postAnalyze(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint_Verdict(t *testing.T) {
	router := newTestRouter(t)

	rec := postAnalyze(t, router, AnalyzeRequest{
		Age:                   30,
		MonthlyIncome:         50000,
		ExistingEMI:           2000,
		RequestedLoanAmount:   200000,
		RequestedTenureMonths: 24,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.GreaterOrEqual(t, resp.DefaultProbability, 0.0)
	assert.LessOrEqual(t, resp.DefaultProbability, 1.0)
	assert.Equal(t, ScoreFromProbability(resp.DefaultProbability), resp.CibilScore)
	assert.Equal(t, LabelFromProbability(resp.DefaultProbability), resp.RiskLabel)
}

func TestAnalyzeEndpoint_RangeViolations(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		mutate func(*AnalyzeRequest)
	}{
		{"underage applicant", func(r *AnalyzeRequest) { r.Age = 17 }},
		{"zero income", func(r *AnalyzeRequest) { r.MonthlyIncome = 0 }},
		{"negative emi", func(r *AnalyzeRequest) { r.ExistingEMI = -100 }},
		{"tenure above cap", func(r *AnalyzeRequest) { r.RequestedTenureMonths = 400 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := AnalyzeRequest{
				Age:                   30,
				MonthlyIncome:         50000,
				ExistingEMI:           2000,
				RequestedLoanAmount:   200000,
				RequestedTenureMonths: 24,
			}
			tt.mutate(&req)

			rec := postAnalyze(t, router, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
		})
	}
}

func TestAnalyzeEndpoint_MalformedBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoringHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
