package risk

import (
	"fmt"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
)

// Weights maps each category to its share of the overall score.
type Weights map[model.Category]float64

// Thresholds are inclusive lower bounds on the overall score.
type Thresholds struct {
	Low    float64 `json:"low" yaml:"low"`
	Medium float64 `json:"medium" yaml:"medium"`
	High   float64 `json:"high" yaml:"high"`
}

// MissingDataPolicy decides how a category without any evaluated factor
// contributes to the overall score.
type MissingDataPolicy string

const (
	// MissingDataPenalize keeps the category maximum fixed at 100, so a
	// category with no data scores 0/100.
	MissingDataPenalize MissingDataPolicy = "penalize"
	// MissingDataNeutral sizes the category maximum to the evaluated factors
	// and drops empty categories from aggregation.
	MissingDataNeutral MissingDataPolicy = "neutral"
)

const categoryMaxScore = 100

type Policy struct {
	Weights       Weights           `json:"weights" yaml:"weights"`
	Thresholds    Thresholds        `json:"thresholds" yaml:"thresholds"`
	MissingData   MissingDataPolicy `json:"missing_data" yaml:"missing_data"`
	Jurisdictions JurisdictionTable `json:"jurisdictions" yaml:"jurisdictions"`
}

func DefaultWeights() Weights {
	return Weights{
		model.CategoryKYC:        0.25,
		model.CategorySecurity:   0.25,
		model.CategoryCustody:    0.20,
		model.CategoryTrading:    0.15,
		model.CategoryRegulatory: 0.15,
	}
}

func DefaultThresholds() Thresholds {
	return Thresholds{Low: 80, Medium: 60, High: 40}
}

func DefaultPolicy() Policy {
	return Policy{
		Weights:       DefaultWeights(),
		Thresholds:    DefaultThresholds(),
		MissingData:   MissingDataPenalize,
		Jurisdictions: DefaultJurisdictionTable(),
	}
}

// Sum returns the exact decimal sum of all weights.
func (w Weights) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range model.Categories {
		sum = sum.Add(decimal.NewFromFloat(w[c]))
	}
	return sum
}

func (p Policy) Validate() error {
	for _, c := range model.Categories {
		weight, ok := p.Weights[c]
		if !ok {
			return fmt.Errorf("risk policy: missing weight for category %q", c)
		}
		if weight < 0 {
			return fmt.Errorf("risk policy: negative weight %.4f for category %q", weight, c)
		}
	}
	for c := range p.Weights {
		if !c.Valid() {
			return fmt.Errorf("risk policy: unknown category %q", c)
		}
	}
	if !p.Weights.Sum().Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("risk policy: weights must sum to 1.0, got %s", p.Weights.Sum().String())
	}

	t := p.Thresholds
	if !(t.Low > t.Medium && t.Medium > t.High && t.High >= 0 && t.Low <= 100) {
		return fmt.Errorf("risk policy: thresholds must satisfy 100 >= low > medium > high >= 0 (got %.2f/%.2f/%.2f)", t.Low, t.Medium, t.High)
	}

	switch p.MissingData {
	case MissingDataPenalize, MissingDataNeutral:
	default:
		return fmt.Errorf("risk policy: unknown missing data policy %q", p.MissingData)
	}
	return p.Jurisdictions.Validate()
}
