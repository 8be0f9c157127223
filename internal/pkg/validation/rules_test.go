package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() ApplicantSubmission {
	return ApplicantSubmission{
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

func TestValidateApplicant_Valid(t *testing.T) {
	res := ValidateApplicant(validSubmission())
	assert.True(t, res.OK())
	assert.Empty(t, res.Violations)
}

func TestValidateApplicant_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ApplicantSubmission)
		field  string
	}{
		{"full name too short", func(s *ApplicantSubmission) { s.FullName = "Ra" }, "full_name"},
		{"email without domain", func(s *ApplicantSubmission) { s.Email = "ravi@" }, "email"},
		{"phone too short", func(s *ApplicantSubmission) { s.Phone = "987654321" }, "phone"},
		{"phone starting with 5", func(s *ApplicantSubmission) { s.Phone = "5876543210" }, "phone"},
		{"pan with wrong shape", func(s *ApplicantSubmission) { s.PAN = "AB1DE1234F" }, "pan"},
		{"pan too long", func(s *ApplicantSubmission) { s.PAN = "ABCDE12345F" }, "pan"},
		{"aadhaar with letters", func(s *ApplicantSubmission) { s.Aadhaar = "12341234123A" }, "aadhaar"},
		{"aadhaar too short", func(s *ApplicantSubmission) { s.Aadhaar = "12341234123" }, "aadhaar"},
		{"zero income", func(s *ApplicantSubmission) { s.MonthlyIncome = 0 }, "monthly_income"},
		{"negative emi", func(s *ApplicantSubmission) { s.ExistingEMI = -1 }, "existing_emi"},
		{"zero loan amount", func(s *ApplicantSubmission) { s.RequestedLoanAmount = 0 }, "requested_loan_amount"},
		{"tenure too short", func(s *ApplicantSubmission) { s.RequestedTenureMonths = 5 }, "requested_tenure_months"},
		{"tenure too long", func(s *ApplicantSubmission) { s.RequestedTenureMonths = 361 }, "requested_tenure_months"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)

			res := ValidateApplicant(sub)
			require.False(t, res.OK())
			require.Len(t, res.Violations, 1)
			assert.Equal(t, tt.field, res.Violations[0].Field)
		})
	}
}

func TestValidateApplicant_AgeBoundaries(t *testing.T) {
	tests := []struct {
		age int
		ok  bool
	}{
		{17, false},
		{18, true},
		{80, true},
		{81, false},
	}

	for _, tt := range tests {
		sub := validSubmission()
		sub.Age = tt.age

		res := ValidateApplicant(sub)
		assert.Equal(t, tt.ok, res.OK(), "age %d", tt.age)
	}
}

func TestValidateApplicant_LowercasePANAccepted(t *testing.T) {
	sub := validSubmission()
	sub.PAN = "abcde1234f"

	res := ValidateApplicant(sub)
	assert.True(t, res.OK(), "PAN should be case-normalized before matching")
}

func TestValidateApplicant_CollectsAllViolations(t *testing.T) {
	sub := validSubmission()
	sub.FullName = "X"
	sub.Phone = "123"
	sub.Age = 99
	sub.MonthlyIncome = -5

	res := ValidateApplicant(sub)
	require.False(t, res.OK())

	fields := make(map[string]bool)
	for _, v := range res.Violations {
		fields[v.Field] = true
	}
	assert.True(t, fields["full_name"])
	assert.True(t, fields["phone"])
	assert.True(t, fields["age"])
	assert.True(t, fields["monthly_income"])
}

func TestValidateFinancials_TenureBoundaries(t *testing.T) {
	base := Financials{
		Age:                   30,
		MonthlyIncome:         50000,
		ExistingEMI:           0,
		RequestedLoanAmount:   100000,
		RequestedTenureMonths: 6,
	}
	res := ValidateFinancials(base)
	assert.True(t, res.OK())

	base.RequestedTenureMonths = 360
	res = ValidateFinancials(base)
	assert.True(t, res.OK())
}

func TestNormalizePAN(t *testing.T) {
	assert.Equal(t, "ABCDE1234F", NormalizePAN("  abcde1234f "))
}
