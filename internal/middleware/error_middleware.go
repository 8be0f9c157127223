package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arjun/loanflow/internal/app/models/dto"
	"github.com/arjun/loanflow/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. Every handler
// funnels service errors through here so status codes stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	detail := errorDetailFor(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if custom.Message != "" {
			detail.Message = custom.Message
		}
		if custom.Details != nil {
			detail = detail.WithDetails(custom.Details)
		}
	}

	c.JSON(statusFor(err), dto.NewErrorResponse(detail))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrApplicationNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		return 404
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrDuplicateApplicant),
		errors.Is(err, apperrors.ErrNotVerified),
		errors.Is(err, apperrors.ErrAnalysisNotRun),
		errors.Is(err, apperrors.ErrBadRequest):
		return 400
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid):
		return 401
	case errors.Is(err, apperrors.ErrScoringUnreachable),
		errors.Is(err, apperrors.ErrScoringRejected),
		errors.Is(err, apperrors.ErrScoringMalformed):
		return 502
	default:
		return 500
	}
}

func errorDetailFor(err error) *dto.ErrorDetail {
	switch {
	case errors.Is(err, apperrors.ErrApplicationNotFound):
		return dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Application not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrDuplicateApplicant):
		return dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "An application already exists for this PAN + Aadhaar.")
	case errors.Is(err, apperrors.ErrNotVerified):
		return dto.NewErrorDetail(dto.ErrorCodePreconditionFailed, "Application must be verified before analysis.")
	case errors.Is(err, apperrors.ErrAnalysisNotRun):
		return dto.NewErrorDetail(dto.ErrorCodePreconditionFailed, "Run analysis before taking decision.")
	case errors.Is(err, apperrors.ErrBadRequest):
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Bad request")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrScoringUnreachable):
		return dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Failed to reach scoring service")
	case errors.Is(err, apperrors.ErrScoringRejected):
		return dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Scoring service error")
	case errors.Is(err, apperrors.ErrScoringMalformed):
		return dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Scoring service returned a malformed response")
	default:
		return dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
