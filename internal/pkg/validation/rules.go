package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// PAN pattern - 5 letters, 4 digits, 1 letter
	PANPattern = `^[A-Z]{5}[0-9]{4}[A-Z]$`

	// Aadhaar pattern - exactly 12 digits
	AadhaarPattern = `^[0-9]{12}$`

	// Phone pattern - 10 digits, first digit 6-9
	PhonePattern = `^[6-9][0-9]{9}$`

	// Full name min/max length
	FullNameMinLength = 3
	FullNameMaxLength = 255
)

// Applicant range rules
const (
	AgeMin    = 18
	AgeMax    = 80
	TenureMin = 6
	TenureMax = 360
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email   *regexp.Regexp
	PAN     *regexp.Regexp
	Aadhaar *regexp.Regexp
	Phone   *regexp.Regexp
}{
	Email:   regexp.MustCompile(EmailPattern),
	PAN:     regexp.MustCompile(PANPattern),
	Aadhaar: regexp.MustCompile(AadhaarPattern),
	Phone:   regexp.MustCompile(PhonePattern),
}

// Violation describes a single field-level validation failure
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects violations for one input
type Result struct {
	Violations []Violation
}

// OK reports whether the input passed validation
func (r *Result) OK() bool {
	return len(r.Violations) == 0
}

// Add records a violation
func (r *Result) Add(field, message string) {
	r.Violations = append(r.Violations, Violation{Field: field, Message: message})
}

// NormalizePAN trims and upper-cases a PAN before matching
func NormalizePAN(pan string) string {
	return strings.ToUpper(strings.TrimSpace(pan))
}

// ApplicantSubmission holds the raw intake fields subject to validation
type ApplicantSubmission struct {
	FullName              string
	Email                 string
	Phone                 string
	PAN                   string
	Aadhaar               string
	Age                   int
	MonthlyIncome         float64
	ExistingEMI           float64
	RequestedLoanAmount   float64
	RequestedTenureMonths int
}

// ValidateApplicant validates a raw applicant submission and returns every
// violation found. Pure; no side effects.
func ValidateApplicant(in ApplicantSubmission) Result {
	var res Result

	if l := len(strings.TrimSpace(in.FullName)); l < FullNameMinLength || l > FullNameMaxLength {
		res.Add("full_name", fmt.Sprintf("must be between %d and %d characters", FullNameMinLength, FullNameMaxLength))
	}
	if !CompiledPatterns.Email.MatchString(in.Email) {
		res.Add("email", "must be a valid email address")
	}
	if !CompiledPatterns.Phone.MatchString(in.Phone) {
		res.Add("phone", "must be 10 digits starting with 6-9")
	}
	if !CompiledPatterns.PAN.MatchString(NormalizePAN(in.PAN)) {
		res.Add("pan", "must match 5 letters, 4 digits, 1 letter")
	}
	if !CompiledPatterns.Aadhaar.MatchString(in.Aadhaar) {
		res.Add("aadhaar", "must be exactly 12 digits")
	}

	res.Violations = append(res.Violations, ValidateFinancials(Financials{
		Age:                   in.Age,
		MonthlyIncome:         in.MonthlyIncome,
		ExistingEMI:           in.ExistingEMI,
		RequestedLoanAmount:   in.RequestedLoanAmount,
		RequestedTenureMonths: in.RequestedTenureMonths,
	}).Violations...)

	return res
}

// Financials holds the four financial inputs shared by intake and scoring
type Financials struct {
	Age                   int
	MonthlyIncome         float64
	ExistingEMI           float64
	RequestedLoanAmount   float64
	RequestedTenureMonths int
}

// ValidateFinancials applies the range rules shared by the intake endpoint
// and the scoring service.
func ValidateFinancials(in Financials) Result {
	var res Result

	if in.Age < AgeMin || in.Age > AgeMax {
		res.Add("age", fmt.Sprintf("must be between %d and %d", AgeMin, AgeMax))
	}
	if in.MonthlyIncome <= 0 {
		res.Add("monthly_income", "must be greater than zero")
	}
	if in.ExistingEMI < 0 {
		res.Add("existing_emi", "must not be negative")
	}
	if in.RequestedLoanAmount <= 0 {
		res.Add("requested_loan_amount", "must be greater than zero")
	}
	if in.RequestedTenureMonths < TenureMin || in.RequestedTenureMonths > TenureMax {
		res.Add("requested_tenure_months", fmt.Sprintf("must be between %d and %d", TenureMin, TenureMax))
	}

	return res
}
