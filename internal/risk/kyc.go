package risk

import (
	"fmt"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
)

const (
	FactorVerificationRate     = "User Verification Rate"
	FactorHighRiskJurisdiction = "High-Risk Jurisdiction Exposure"
	FactorSanctionsCompliance  = "Sanctions Compliance"
)

func assessKYC(s *model.EntityComplianceSnapshot) []model.RiskFactor {
	k := s.KYC
	if k == nil {
		return nil
	}
	var factors []model.RiskFactor

	if k.VerifiedUsers != nil || k.NonVerifiedUsers != nil {
		var verified, unverified int64
		if k.VerifiedUsers != nil {
			verified = *k.VerifiedUsers
		}
		if k.NonVerifiedUsers != nil {
			unverified = *k.NonVerifiedUsers
		}
		// 两者均为 0 时跳过，避免除零
		total := decimal.NewFromInt(verified).Add(decimal.NewFromInt(unverified))
		if total.IsPositive() {
			ratio := decimal.NewFromInt(verified).Div(total)
			factors = append(factors, newFactor(
				FactorVerificationRate,
				ratio.Mul(pts(30)),
				pts(30),
				fmt.Sprintf("%s%% of users verified (%d of %s)", ratio.Mul(hundred).StringFixed(1), verified, total.String()),
				recommendIf(ratio.LessThan(decimal.NewFromFloat(0.8)), "Increase the user verification rate to at least 80%"),
			))
		}
	}

	if p := k.HighRiskJurisdictionPercentage; p != nil {
		share := decimal.NewFromFloat(*p)
		factors = append(factors, newFactor(
			FactorHighRiskJurisdiction,
			decimal.Max(decimal.Zero, pts(40).Sub(share.Mul(pts(2)))),
			pts(40),
			fmt.Sprintf("%s%% of users from high-risk jurisdictions", share.String()),
			recommendIf(share.GreaterThan(pts(15)), "Apply enhanced due diligence to users from high-risk jurisdictions"),
		))
	}

	if sc := k.Sanctions; sc != nil {
		var compliant []string
		var missing []string
		for _, fw := range []struct {
			name string
			ok   bool
		}{{"OFAC", sc.OFAC}, {"FATF", sc.FATF}, {"EU", sc.EU}} {
			if fw.ok {
				compliant = append(compliant, fw.name)
			} else {
				missing = append(missing, fw.name)
			}
		}
		desc := fmt.Sprintf("Compliant with %d of 3 sanctions frameworks", len(compliant))
		if len(missing) > 0 {
			desc += fmt.Sprintf(" (missing: %s)", joinNames(missing))
		}
		factors = append(factors, newFactor(
			FactorSanctionsCompliance,
			pts(int64(10*len(compliant))),
			pts(30),
			desc,
			recommendIf(len(missing) > 0, "Achieve full compliance with OFAC, FATF and EU sanctions frameworks"),
		))
	}

	return factors
}
