package risk

import (
	"strings"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
)

// newFactor builds a factor, dropping the recommendation when the factor
// already scores its maximum.
func newFactor(name string, score, maxScore decimal.Decimal, description, recommendation string) model.RiskFactor {
	score = decimal.Min(decimal.Max(score, decimal.Zero), maxScore)
	f := model.RiskFactor{
		Name:        name,
		Score:       score.InexactFloat64(),
		MaxScore:    maxScore.InexactFloat64(),
		Description: description,
	}
	if score.LessThan(maxScore) {
		f.Recommendation = recommendation
	}
	return f
}

type bound struct {
	limit  float64
	points int64
}

// atLeast returns the points of the first bound the value reaches.
// Bounds run from best to worst.
func atLeast(value decimal.Decimal, bounds []bound, fallback int64) decimal.Decimal {
	for _, b := range bounds {
		if value.GreaterThanOrEqual(decimal.NewFromFloat(b.limit)) {
			return pts(b.points)
		}
	}
	return pts(fallback)
}

// atMost returns the points of the first bound the value does not exceed.
func atMost(value decimal.Decimal, bounds []bound, fallback int64) decimal.Decimal {
	for _, b := range bounds {
		if value.LessThanOrEqual(decimal.NewFromFloat(b.limit)) {
			return pts(b.points)
		}
	}
	return pts(fallback)
}

func pts(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func boolPoints(ok bool, points int64) decimal.Decimal {
	if ok {
		return pts(points)
	}
	return decimal.Zero
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func recommendIf(cond bool, recommendation string) string {
	if cond {
		return recommendation
	}
	return ""
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
