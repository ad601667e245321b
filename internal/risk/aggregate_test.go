package risk

import (
	"testing"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func scores(kyc, sec, cust, trade, reg float64) []model.RiskScore {
	vals := []float64{kyc, sec, cust, trade, reg}
	out := make([]model.RiskScore, 0, len(vals))
	for i, v := range vals {
		out = append(out, model.RiskScore{Category: model.Categories[i], Score: v, MaxScore: 100})
	}
	return out
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	assert.True(t, DefaultWeights().Sum().Equal(decimal.NewFromInt(1)))
}

func TestAggregate(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 93.5, Aggregate(scores(74, 100, 100, 100, 100), w))
	assert.Equal(t, 100.0, Aggregate(scores(100, 100, 100, 100, 100), w))
	assert.Equal(t, 0.0, Aggregate(scores(0, 0, 0, 0, 0), w))
	assert.Equal(t, 50.0, Aggregate(scores(50, 50, 50, 50, 50), w))
}

func TestAggregate_WeightShiftIsMonotonic(t *testing.T) {
	in := scores(90, 40, 40, 40, 40)
	base := Aggregate(in, DefaultWeights())

	// Move weight toward the category with the higher ratio.
	heavier := DefaultWeights()
	heavier[model.CategoryKYC] = 0.35
	heavier[model.CategorySecurity] = 0.15
	assert.Greater(t, Aggregate(in, heavier), base)

	lighter := DefaultWeights()
	lighter[model.CategoryKYC] = 0.15
	lighter[model.CategorySecurity] = 0.35
	assert.Less(t, Aggregate(in, lighter), base)
}

func TestClassify_Boundaries(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		score float64
		want  model.RiskLevel
	}{
		{100, model.RiskLow},
		{80, model.RiskLow},
		{79.999, model.RiskMedium},
		{60, model.RiskMedium},
		{59.999, model.RiskHigh},
		{40, model.RiskHigh},
		{39.999, model.RiskCritical},
		{0, model.RiskCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.score, th), "score %v", tc.score)
	}
}
