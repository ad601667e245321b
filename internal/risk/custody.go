package risk

import (
	"fmt"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
)

const (
	FactorColdStorage     = "Cold Storage"
	FactorFundSegregation = "Fund Segregation"
	FactorMultiSignature  = "Multi-Signature Controls"
)

func assessCustody(s *model.EntityComplianceSnapshot) []model.RiskFactor {
	c := s.Custody
	if c == nil {
		return nil
	}
	var factors []model.RiskFactor

	if p := c.ColdStoragePercentage; p != nil {
		share := decimal.NewFromFloat(*p)
		factors = append(factors, newFactor(
			FactorColdStorage,
			atLeast(share, []bound{{95, 40}, {90, 30}, {80, 20}}, 10),
			pts(40),
			fmt.Sprintf("%s%% of assets held in cold storage", share.String()),
			recommendIf(share.LessThan(pts(95)), "Hold at least 95% of customer assets in cold storage"),
		))
	}

	if seg := c.FundSegregation; seg != nil {
		factors = append(factors, newFactor(
			FactorFundSegregation,
			boolPoints(*seg, 30),
			pts(30),
			yesNo(*seg, "Customer funds segregated from operating funds", "Customer funds not segregated"),
			"Segregate customer funds from company operating funds",
		))
	}

	if ms := c.MultiSigRequired; ms != nil {
		factors = append(factors, newFactor(
			FactorMultiSignature,
			boolPoints(*ms, 30),
			pts(30),
			yesNo(*ms, "Multi-signature approval required for withdrawals", "No multi-signature requirement"),
			"Require multi-signature approval for custodial wallets",
		))
	}

	return factors
}
