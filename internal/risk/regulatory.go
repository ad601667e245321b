package risk

import (
	"fmt"
	"strings"

	"github.com/complyhub/riskgate/internal/model"
)

const (
	FactorLicensing        = "Licensing"
	FactorComplianceTools  = "Compliance Tools"
	FactorJurisdictionRisk = "Jurisdiction Risk"
)

func assessRegulatory(s *model.EntityComplianceSnapshot, table JurisdictionTable) []model.RiskFactor {
	var factors []model.RiskFactor
	r := s.Regulatory

	if r != nil && r.HoldsLicenses != nil {
		factors = append(factors, newFactor(
			FactorLicensing,
			boolPoints(*r.HoldsLicenses, 40),
			pts(40),
			yesNo(*r.HoldsLicenses, "Holds required regulatory licenses", "Required regulatory licenses not held"),
			"Obtain the licenses required in every operating jurisdiction",
		))
	}

	if s.Trading != nil && s.Trading.Analytics != nil {
		tools := namedTools(s.Trading.Analytics.MonitoringTools)
		desc := "No named compliance monitoring tools"
		if len(tools) > 0 {
			desc = fmt.Sprintf("%d compliance monitoring tools: %s", len(tools), joinNames(tools))
		}
		factors = append(factors, newFactor(
			FactorComplianceTools,
			atLeast(pts(int64(len(tools))), []bound{{3, 30}, {2, 20}, {1, 10}}, 0),
			pts(30),
			desc,
			"Use at least three blockchain monitoring tools",
		))
	}

	if r != nil {
		tier := table.Classify(r.Headquarters)
		hq := strings.TrimSpace(r.Headquarters)
		if hq == "" {
			hq = "unknown"
		}
		factors = append(factors, newFactor(
			FactorJurisdictionRisk,
			pts(int64(tier.Score())),
			pts(30),
			fmt.Sprintf("Headquartered in %s (%s risk)", hq, tier),
			"Consider domiciling in a low-risk regulatory jurisdiction",
		))
	}

	return factors
}

func namedTools(tools []string) []string {
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		if name := strings.TrimSpace(t); name != "" {
			out = append(out, name)
		}
	}
	return out
}
