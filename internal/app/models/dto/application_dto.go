package dto

import (
	"github.com/arjun/loanflow/internal/pkg/validation"
)

// ApplicationCreateRequest is the intake payload submitted by an applicant
type ApplicationCreateRequest struct {
	FullName string `json:"full_name" example:"Ravi Sharma"`
	Email    string `json:"email" example:"ravi.sharma@example.com"`
	Phone    string `json:"phone" example:"9876543210"`

	PAN     string `json:"pan" example:"ABCDE1234F"`
	Aadhaar string `json:"aadhaar" example:"123412341234"`

	Age                   int     `json:"age" example:"30"`
	MonthlyIncome         float64 `json:"monthly_income" example:"50000"`
	ExistingEMI           float64 `json:"existing_emi" example:"2000"`
	RequestedLoanAmount   float64 `json:"requested_loan_amount" example:"200000"`
	RequestedTenureMonths int     `json:"requested_tenure_months" example:"24"`
}

// Validate applies the intake rules and returns every violation found
func (r *ApplicationCreateRequest) Validate() validation.Result {
	return validation.ValidateApplicant(validation.ApplicantSubmission{
		FullName:              r.FullName,
		Email:                 r.Email,
		Phone:                 r.Phone,
		PAN:                   r.PAN,
		Aadhaar:               r.Aadhaar,
		Age:                   r.Age,
		MonthlyIncome:         r.MonthlyIncome,
		ExistingEMI:           r.ExistingEMI,
		RequestedLoanAmount:   r.RequestedLoanAmount,
		RequestedTenureMonths: r.RequestedTenureMonths,
	})
}

// BankerVerifyRequest records the reviewer's verification outcome
type BankerVerifyRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required"`
}

// BankerDecisionRequest records the reviewer's final decision
type BankerDecisionRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}
