package risk

import (
	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Aggregate combines category completion ratios into a 0-100 score:
// sum(score/max * weight) / sum(weight) * 100, over categories with a
// positive max. With a fixed max of 100 every category participates and the
// weight sum is 1.
func Aggregate(scores []model.RiskScore, weights Weights) float64 {
	total := decimal.Zero
	weightSum := decimal.Zero
	for _, s := range scores {
		if s.MaxScore <= 0 {
			continue
		}
		weight := decimal.NewFromFloat(weights[s.Category])
		ratio := decimal.NewFromFloat(s.Score).Div(decimal.NewFromFloat(s.MaxScore))
		total = total.Add(ratio.Mul(weight))
		weightSum = weightSum.Add(weight)
	}
	if weightSum.IsZero() {
		return 0
	}
	overall := total.Div(weightSum).Mul(hundred)
	overall = decimal.Min(decimal.Max(overall, decimal.Zero), hundred)
	return overall.InexactFloat64()
}

// Classify maps an overall score to a level, checking Low first.
func Classify(score float64, t Thresholds) model.RiskLevel {
	s := decimal.NewFromFloat(score)
	switch {
	case s.GreaterThanOrEqual(decimal.NewFromFloat(t.Low)):
		return model.RiskLow
	case s.GreaterThanOrEqual(decimal.NewFromFloat(t.Medium)):
		return model.RiskMedium
	case s.GreaterThanOrEqual(decimal.NewFromFloat(t.High)):
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}
