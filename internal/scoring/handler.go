package scoring

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/arjun/loanflow/internal/app/models/dto"
	"github.com/arjun/loanflow/internal/pkg/metrics"
	"github.com/arjun/loanflow/internal/pkg/validation"
)

// AnalyzeRequest is the scoring request payload
type AnalyzeRequest struct {
	Age                   int     `json:"age"`
	MonthlyIncome         float64 `json:"monthly_income"`
	ExistingEMI           float64 `json:"existing_emi"`
	RequestedLoanAmount   float64 `json:"requested_loan_amount"`
	RequestedTenureMonths int     `json:"requested_tenure_months"`
}

// AnalyzeResponse is the scoring verdict
type AnalyzeResponse struct {
	CibilScore         int     `json:"cibil_score"`
	RiskLabel          string  `json:"risk_label"`
	DefaultProbability float64 `json:"default_probability"`
}

// Handler serves the scoring endpoints backed by an injected model
type Handler struct {
	model  *Model
	logger zerolog.Logger
}

// NewHandler creates a scoring handler
func NewHandler(model *Model, logger zerolog.Logger) *Handler {
	return &Handler{
		model:  model,
		logger: logger,
	}
}

// Analyze evaluates the model for one set of applicant financials
// @Summary Score applicant financials
// @Description Derives model features from the financial inputs and returns score, risk label and default probability
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "Applicant financials"
// @Success 200 {object} AnalyzeResponse "Scoring verdict"
// @Failure 400 {object} dto.ErrorResponse "Invalid financial inputs"
// @Router /analyze [post]
func (h *Handler) Analyze(ctx *gin.Context) {
	var req AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		metrics.ScoringRequests.WithLabelValues(metrics.OutcomeError).Inc()
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	financials := validation.Financials{
		Age:                   req.Age,
		MonthlyIncome:         req.MonthlyIncome,
		ExistingEMI:           req.ExistingEMI,
		RequestedLoanAmount:   req.RequestedLoanAmount,
		RequestedTenureMonths: req.RequestedTenureMonths,
	}

	// The intake range rules apply on this side of the boundary too
	if res := validation.ValidateFinancials(financials); !res.OK() {
		metrics.ScoringRequests.WithLabelValues(metrics.OutcomeError).Inc()
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		errorDetail = errorDetail.WithDetails(map[string]interface{}{"violations": res.Violations})
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	start := time.Now()
	probability, err := h.model.PredictProbability(financials)
	if err != nil {
		metrics.ScoringRequests.WithLabelValues(metrics.OutcomeError).Inc()
		h.logger.Error().Err(err).Msg("Model evaluation failed")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Model evaluation failed")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return
	}

	metrics.ScoringRequests.WithLabelValues(metrics.OutcomeSuccess).Inc()
	h.logger.Debug().
		Float64("probability", probability).
		Dur("elapsed", time.Since(start)).
		Msg("Scoring evaluated")

	ctx.JSON(http.StatusOK, AnalyzeResponse{
		CibilScore:         ScoreFromProbability(probability),
		RiskLabel:          LabelFromProbability(probability),
		DefaultProbability: probability,
	})
}

// RegisterRoutes wires the scoring endpoints onto the router
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())
	router.POST("/analyze", h.Analyze)
}
