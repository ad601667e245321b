package risk

import (
	"fmt"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
)

const (
	FactorManipulationDetection = "Market Manipulation Detection"
	FactorInsurance             = "Insurance Coverage"
	FactorSecurityTesting       = "Security Testing"
)

// monthLength is the month used to age penetration tests.
const monthLength = 30 * 24 * time.Hour

func assessSecurity(s *model.EntityComplianceSnapshot, now time.Time) []model.RiskFactor {
	sec := s.Security
	if sec == nil {
		return nil
	}
	var factors []model.RiskFactor

	if m := sec.Manipulation; m != nil {
		factors = append(factors, newFactor(
			FactorManipulationDetection,
			boolPoints(m.BotDetection, 20).Add(boolPoints(m.SpoofingDetection, 20)),
			pts(40),
			fmt.Sprintf("Bot detection: %s, spoofing detection: %s",
				yesNo(m.BotDetection, "enabled", "disabled"),
				yesNo(m.SpoofingDetection, "enabled", "disabled")),
			"Deploy both bot and spoofing detection for market manipulation",
		))
	}

	if ins := sec.Insurance; ins != nil {
		desc := "No insurance coverage"
		if ins.HasInsurance {
			desc = "Insurance coverage in place"
			if ins.CoverageLimit != nil {
				desc = fmt.Sprintf("Insurance coverage in place (limit: %s)", ins.CoverageLimit.StringFixed(2))
			}
		}
		factors = append(factors, newFactor(
			FactorInsurance,
			boolPoints(ins.HasInsurance, 30),
			pts(30),
			desc,
			"Obtain insurance coverage for customer assets",
		))

		if ins.LastPenetrationTest != nil {
			months := monthsSince(*ins.LastPenetrationTest, now)
			factors = append(factors, newFactor(
				FactorSecurityTesting,
				atMost(months, []bound{{6, 30}, {12, 15}}, 0),
				pts(30),
				fmt.Sprintf("Last penetration test %s months ago", months.StringFixed(1)),
				recommendIf(months.GreaterThan(pts(6)), "Conduct a penetration test at least every 6 months"),
			))
		}
	}

	return factors
}

// monthsSince returns the fractional number of 30-day months between then and
// now. Future dates count as zero.
func monthsSince(then, now time.Time) decimal.Decimal {
	elapsed := now.Sub(then)
	if elapsed <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(monthLength)))
}
