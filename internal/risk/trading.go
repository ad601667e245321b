package risk

import (
	"fmt"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
)

const (
	FactorHFTActivity      = "High-Frequency Trading"
	FactorLeverage         = "Leverage Limits"
	FactorMarketMonitoring = "Market Monitoring"
)

func assessTrading(s *model.EntityComplianceSnapshot) []model.RiskFactor {
	t := s.Trading
	if t == nil {
		return nil
	}
	var factors []model.RiskFactor

	if h := t.HFT; h != nil {
		factors = append(factors, hftFactor(h))
	}

	if l := t.Leverage; l != nil && l.MaxLeverage != nil {
		lev := decimal.NewFromFloat(*l.MaxLeverage)
		factors = append(factors, newFactor(
			FactorLeverage,
			atMost(lev, []bound{{5, 30}, {10, 20}, {20, 10}}, 0),
			pts(30),
			fmt.Sprintf("Maximum leverage %sx", lev.String()),
			recommendIf(lev.GreaterThan(pts(5)), "Cap maximum leverage at 5x"),
		))
	}

	if a := t.Analytics; a != nil {
		factors = append(factors, newFactor(
			FactorMarketMonitoring,
			boolPoints(a.RealTimeAnalytics, 15).Add(boolPoints(a.ProofOfReserves, 15)),
			pts(30),
			fmt.Sprintf("Real-time analytics: %s, proof of reserves: %s",
				yesNo(a.RealTimeAnalytics, "yes", "no"),
				yesNo(a.ProofOfReserves, "yes", "no")),
			"Adopt real-time blockchain analytics and publish proof of reserves",
		))
	}

	return factors
}

// hftFactor gives full credit when HFT is prohibited. An allowed HFT entry
// without a volume figure lands in the lowest tier.
func hftFactor(h *model.HFTActivity) model.RiskFactor {
	const rec = "Cap high-frequency trading at 30% of volume"
	if !h.Allowed {
		return newFactor(FactorHFTActivity, pts(40), pts(40), "High-frequency trading prohibited", "")
	}
	if h.VolumePercentage == nil {
		return newFactor(FactorHFTActivity, pts(20), pts(40), "High-frequency trading allowed, volume share unknown", rec)
	}
	share := decimal.NewFromFloat(*h.VolumePercentage)
	return newFactor(
		FactorHFTActivity,
		atMost(share, []bound{{30, 40}, {50, 30}}, 20),
		pts(40),
		fmt.Sprintf("High-frequency trading allowed at %s%% of volume", share.String()),
		recommendIf(share.GreaterThan(pts(30)), rec),
	)
}
