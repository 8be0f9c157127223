package models

// Application represents a single loan request record and its lifecycle state.
// Applicant identity and financial fields are immutable after intake; the
// analysis outputs and the three flags are owned by the lifecycle engine.
type Application struct {
	ID int64 `json:"id"`

	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`

	PAN     string `json:"pan"`
	Aadhaar string `json:"aadhaar"`

	Age                   int     `json:"age"`
	MonthlyIncome         float64 `json:"monthly_income"`
	ExistingEMI           float64 `json:"existing_emi"`
	RequestedLoanAmount   float64 `json:"requested_loan_amount"`
	RequestedTenureMonths int     `json:"requested_tenure_months"`

	// Outputs from the scoring service; non-nil only after analysis has run
	CibilScore         *int     `json:"cibil_score"`
	RiskLabel          *string  `json:"risk_label"`
	DefaultProbability *float64 `json:"default_probability"`

	IsVerified  bool `json:"is_verified"`
	AnalysisRun bool `json:"analysis_run"`
	Approved    bool `json:"approved"`
}
