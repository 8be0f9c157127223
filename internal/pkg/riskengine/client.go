package riskengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/arjun/loanflow/internal/pkg/apperrors"
)

// AnalysisRequest carries the financial inputs of one application
type AnalysisRequest struct {
	Age                   int     `json:"age"`
	MonthlyIncome         float64 `json:"monthly_income"`
	ExistingEMI           float64 `json:"existing_emi"`
	RequestedLoanAmount   float64 `json:"requested_loan_amount"`
	RequestedTenureMonths int     `json:"requested_tenure_months"`
}

// AnalysisResult is the scoring service's verdict
type AnalysisResult struct {
	CibilScore         int     `json:"cibil_score"`
	RiskLabel          string  `json:"risk_label"`
	DefaultProbability float64 `json:"default_probability"`
}

// Client is the boundary to the external scoring service
type Client interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
}

// HTTPClient calls the scoring service over HTTP. A single attempt with a
// bounded timeout; no retries.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient creates a scoring client against the given base URL
func NewHTTPClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Analyze submits the financial inputs and returns the scoring verdict.
// Transport failures map to ErrScoringUnreachable, non-200 responses to
// ErrScoringRejected and undecodable bodies to ErrScoringMalformed.
func (c *HTTPClient) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", c.baseURL).Msg("Scoring service unreachable")
		return nil, apperrors.NewCustomError(apperrors.ErrScoringUnreachable,
			fmt.Sprintf("failed to reach scoring service: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrScoringUnreachable,
			fmt.Sprintf("failed to read scoring response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("Scoring service rejected analysis request")
		return nil, apperrors.NewCustomError(apperrors.ErrScoringRejected,
			fmt.Sprintf("scoring service error: %s", string(respBody)))
	}

	var result AnalysisResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrScoringMalformed,
			fmt.Sprintf("failed to decode scoring response: %v", err))
	}

	return &result, nil
}
