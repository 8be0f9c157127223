package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/arjun/loanflow/internal/pkg/validation"
)

// Risk labels returned alongside the score
const (
	LabelLow    = "Low"
	LabelMedium = "Medium"
	LabelHigh   = "High"
)

// Label thresholds on default probability
const (
	lowThreshold    = 0.20
	mediumThreshold = 0.50
)

// Feature names expected by the fitted model
const (
	featIncomeTotal  = "AMT_INCOME_TOTAL"
	featCredit       = "AMT_CREDIT"
	featAnnuity      = "AMT_ANNUITY"
	featDaysBirth    = "DAYS_BIRTH"
	featDaysEmployed = "DAYS_EMPLOYED"
)

// Employment duration is not collected from applicants; a neutral constant
// of five years stands in for it.
const assumedDaysEmployed = -365 * 5

// artifact is the serialized form of a fitted logistic-regression model:
// standardization parameters plus coefficients, exported by the offline
// training job.
type artifact struct {
	FeatureNames []string           `json:"feature_names"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	Means        map[string]float64 `json:"feature_means"`
	Scales       map[string]float64 `json:"feature_scales"`
}

// Model evaluates a previously fitted binary default classifier
type Model struct {
	featureNames []string
	coefficients []float64
	intercept    float64
	means        []float64
	scales       []float64
}

// LoadModel reads a model artifact from disk. Construction fails fast if
// the artifact is absent or incomplete; callers are expected to abort
// startup on error.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model artifact not found at %s: %w", path, err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if len(art.FeatureNames) == 0 {
		return nil, fmt.Errorf("model artifact has no feature names")
	}

	m := &Model{
		featureNames: art.FeatureNames,
		intercept:    art.Intercept,
	}

	for _, name := range art.FeatureNames {
		coef, ok := art.Coefficients[name]
		if !ok {
			return nil, fmt.Errorf("model artifact missing coefficient for %s", name)
		}
		mean, ok := art.Means[name]
		if !ok {
			return nil, fmt.Errorf("model artifact missing mean for %s", name)
		}
		scale, ok := art.Scales[name]
		if !ok || scale == 0 {
			return nil, fmt.Errorf("model artifact missing scale for %s", name)
		}
		m.coefficients = append(m.coefficients, coef)
		m.means = append(m.means, mean)
		m.scales = append(m.scales, scale)
	}

	return m, nil
}

// buildFeatureVector maps applicant financials to the feature space the
// model was trained on, in artifact order.
func (m *Model) buildFeatureVector(in validation.Financials) ([]float64, error) {
	// Annuity approximated as existing EMI plus the implied EMI on this loan
	tenure := in.RequestedTenureMonths
	if tenure < 1 {
		tenure = 1
	}
	totalEMI := in.ExistingEMI + in.RequestedLoanAmount/float64(tenure)

	features := map[string]float64{
		featIncomeTotal:  in.MonthlyIncome * 12.0,
		featCredit:       in.RequestedLoanAmount,
		featAnnuity:      totalEMI,
		featDaysBirth:    -math.Trunc(float64(in.Age) * 365.25),
		featDaysEmployed: assumedDaysEmployed,
	}

	vec := make([]float64, len(m.featureNames))
	for i, name := range m.featureNames {
		value, ok := features[name]
		if !ok {
			return nil, fmt.Errorf("no mapping for model feature %s", name)
		}
		vec[i] = value
	}
	return vec, nil
}

// PredictProbability returns the model's default probability for the
// given financials
func (m *Model) PredictProbability(in validation.Financials) (float64, error) {
	vec, err := m.buildFeatureVector(in)
	if err != nil {
		return 0, err
	}

	z := m.intercept
	for i, x := range vec {
		z += m.coefficients[i] * (x - m.means[i]) / m.scales[i]
	}

	return 1.0 / (1.0 + math.Exp(-z)), nil
}

// ScoreFromProbability maps a default probability to a pseudo CIBIL score
// in [300, 900]: p=0 -> 900, p=1 -> 300.
func ScoreFromProbability(p float64) int {
	return int(math.Round(900 - p*600))
}

// LabelFromProbability maps a default probability to a risk label with
// bands at 0.20 and 0.50
func LabelFromProbability(p float64) string {
	switch {
	case p < lowThreshold:
		return LabelLow
	case p < mediumThreshold:
		return LabelMedium
	default:
		return LabelHigh
	}
}
