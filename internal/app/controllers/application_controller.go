package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arjun/loanflow/internal/app/models/dto"
	"github.com/arjun/loanflow/internal/app/services"
	"github.com/arjun/loanflow/internal/middleware"
)

// ApplicationController handles loan application endpoints
type ApplicationController struct {
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
	}
}

// parseApplicationID extracts and validates the :id path parameter
func parseApplicationID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid application ID")
		errorDetail = errorDetail.WithDetails("Application ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// Apply handles a new loan application submission
// @Summary Submit a loan application
// @Description Validates the applicant submission and creates a new application in its initial state
// @Tags user
// @Accept json
// @Produce json
// @Param request body dto.ApplicationCreateRequest true "Applicant submission"
// @Success 201 {object} dto.APIResponse{data=models.Application} "Application created"
// @Failure 400 {object} dto.ErrorResponse "Validation failure or duplicate PAN + Aadhaar pair"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /user/apply [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	var req dto.ApplicationCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	app, err := c.applicationService.Intake(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      app,
		Timestamp: time.Now(),
	})
}

// ListApplications lists all applications, newest first
// @Summary List applications
// @Description Retrieves all loan applications ordered newest id first
// @Tags banker
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Application} "Applications retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /banker/applications [get]
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	apps, err := c.applicationService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      apps,
		Timestamp: time.Now(),
	})
}

// GetApplication retrieves a single application
// @Summary Get application by ID
// @Tags banker
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /banker/applications/{id} [get]
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	id, ok := parseApplicationID(ctx)
	if !ok {
		return
	}

	app, err := c.applicationService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      app,
		Timestamp: time.Now(),
	})
}

// VerifyApplication records the reviewer's verification outcome
// @Summary Verify an application
// @Description Sets the verification flag to the supplied boolean value
// @Tags banker
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.BankerVerifyRequest true "Verification outcome"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Verification updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /banker/applications/{id}/verify [post]
func (c *ApplicationController) VerifyApplication(ctx *gin.Context) {
	id, ok := parseApplicationID(ctx)
	if !ok {
		return
	}

	var req dto.BankerVerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails("is_verified is required and must be a boolean")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	app, err := c.applicationService.Verify(ctx, id, *req.IsVerified)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      app,
		Timestamp: time.Now(),
	})
}

// AnalyzeApplication runs the risk analysis for a verified application
// @Summary Analyze an application
// @Description Invokes the scoring service and persists its verdict; requires prior verification
// @Tags banker
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Analysis stored"
// @Failure 400 {object} dto.ErrorResponse "Application not verified"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 502 {object} dto.ErrorResponse "Scoring service unreachable, rejected the request or returned a malformed response"
// @Router /banker/applications/{id}/analyze [post]
func (c *ApplicationController) AnalyzeApplication(ctx *gin.Context) {
	id, ok := parseApplicationID(ctx)
	if !ok {
		return
	}

	app, err := c.applicationService.Analyze(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      app,
		Timestamp: time.Now(),
	})
}

// DecideApplication records the reviewer's final decision
// @Summary Decide on an application
// @Description Sets the approval flag; requires that analysis has run
// @Tags banker
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.BankerDecisionRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Decision stored"
// @Failure 400 {object} dto.ErrorResponse "Analysis has not run"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /banker/applications/{id}/decision [post]
func (c *ApplicationController) DecideApplication(ctx *gin.Context) {
	id, ok := parseApplicationID(ctx)
	if !ok {
		return
	}

	var req dto.BankerDecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails("approved is required and must be a boolean")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	app, err := c.applicationService.Decide(ctx, id, *req.Approved)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      app,
		Timestamp: time.Now(),
	})
}
