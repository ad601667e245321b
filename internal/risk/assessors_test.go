package risk

import (
	"math"
	"testing"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFactor(t *testing.T, factors []model.RiskFactor, name string) model.RiskFactor {
	t.Helper()
	for _, f := range factors {
		if f.Name == name {
			return f
		}
	}
	require.Failf(t, "factor not found", "%s", name)
	return model.RiskFactor{}
}

func TestAssessKYC(t *testing.T) {
	t.Run("verification skipped when no users", func(t *testing.T) {
		factors := assessKYC(&model.EntityComplianceSnapshot{KYC: &model.KYCMetrics{
			VerifiedUsers:    ptr(int64(0)),
			NonVerifiedUsers: ptr(int64(0)),
		}})
		assert.Empty(t, factors)
	})

	t.Run("verification with only one count present", func(t *testing.T) {
		factors := assessKYC(&model.EntityComplianceSnapshot{KYC: &model.KYCMetrics{VerifiedUsers: ptr(int64(10))}})
		require.Len(t, factors, 1)
		assert.Equal(t, 30.0, factors[0].Score)
	})

	t.Run("verification total beyond int64", func(t *testing.T) {
		factors := assessKYC(&model.EntityComplianceSnapshot{KYC: &model.KYCMetrics{
			VerifiedUsers:    ptr(int64(math.MaxInt64)),
			NonVerifiedUsers: ptr(int64(1)),
		}})
		f := findFactor(t, factors, FactorVerificationRate)
		assert.InDelta(t, 30.0, f.Score, 1e-9)
		assert.Empty(t, f.Recommendation)
		assert.Contains(t, f.Description, "of 9223372036854775808")
	})

	t.Run("low verification recommends", func(t *testing.T) {
		factors := assessKYC(&model.EntityComplianceSnapshot{KYC: &model.KYCMetrics{
			VerifiedUsers:    ptr(int64(50)),
			NonVerifiedUsers: ptr(int64(50)),
		}})
		f := findFactor(t, factors, FactorVerificationRate)
		assert.Equal(t, 15.0, f.Score)
		assert.NotEmpty(t, f.Recommendation)
	})

	t.Run("high risk exposure", func(t *testing.T) {
		cases := []struct {
			pct   float64
			score float64
			rec   bool
		}{
			{0, 40, false},
			{15, 10, false},
			{15.5, 9, true},
			{20, 0, true},
			{60, 0, true},
		}
		for _, tc := range cases {
			factors := assessKYC(&model.EntityComplianceSnapshot{KYC: &model.KYCMetrics{HighRiskJurisdictionPercentage: ptr(tc.pct)}})
			f := findFactor(t, factors, FactorHighRiskJurisdiction)
			assert.Equal(t, tc.score, f.Score, "pct %v", tc.pct)
			assert.Equal(t, tc.rec, f.Recommendation != "", "pct %v", tc.pct)
		}
	})

	t.Run("sanctions partial", func(t *testing.T) {
		factors := assessKYC(&model.EntityComplianceSnapshot{KYC: &model.KYCMetrics{
			Sanctions: &model.SanctionsCompliance{OFAC: true, EU: true},
		}})
		f := findFactor(t, factors, FactorSanctionsCompliance)
		assert.Equal(t, 20.0, f.Score)
		assert.Contains(t, f.Description, "FATF")
		assert.NotEmpty(t, f.Recommendation)
	})
}

func TestAssessSecurity_PenetrationTestTiers(t *testing.T) {
	month := 30 * 24 * time.Hour
	cases := []struct {
		name  string
		age   time.Duration
		score float64
		rec   bool
	}{
		{"future date", -month, 30, false},
		{"exactly 6 months", 6 * month, 30, false},
		{"just over 6 months", 6*month + time.Minute, 15, true},
		{"exactly 12 months", 12 * month, 15, true},
		{"just over 12 months", 12*month + time.Minute, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := &model.EntityComplianceSnapshot{Security: &model.SecurityPosture{
				Insurance: &model.InsuranceCoverage{HasInsurance: true, LastPenetrationTest: ptr(fixedNow.Add(-tc.age))},
			}}
			f := findFactor(t, assessSecurity(snap, fixedNow), FactorSecurityTesting)
			assert.Equal(t, tc.score, f.Score)
			assert.Equal(t, tc.rec, f.Recommendation != "")
		})
	}
}

func TestAssessSecurity(t *testing.T) {
	snap := &model.EntityComplianceSnapshot{Security: &model.SecurityPosture{
		Manipulation: &model.ManipulationDetection{BotDetection: true},
		Insurance:    &model.InsuranceCoverage{HasInsurance: true, CoverageLimit: ptr(decimal.NewFromInt(5000000))},
	}}
	factors := assessSecurity(snap, fixedNow)
	require.Len(t, factors, 2, "no pen test date, no testing factor")

	assert.Equal(t, 20.0, findFactor(t, factors, FactorManipulationDetection).Score)
	ins := findFactor(t, factors, FactorInsurance)
	assert.Equal(t, 30.0, ins.Score)
	assert.Contains(t, ins.Description, "5000000.00")

	none := assessSecurity(&model.EntityComplianceSnapshot{Security: &model.SecurityPosture{
		Insurance: &model.InsuranceCoverage{HasInsurance: false},
	}}, fixedNow)
	assert.Equal(t, 0.0, findFactor(t, none, FactorInsurance).Score)
}

func TestAssessCustody_ColdStorageTiers(t *testing.T) {
	cases := []struct {
		pct   float64
		score float64
	}{
		{100, 40},
		{95, 40},
		{94.99, 30},
		{90, 30},
		{89.9, 20},
		{80, 20},
		{79, 10},
		{0, 10},
	}
	for _, tc := range cases {
		f := findFactor(t, assessCustody(&model.EntityComplianceSnapshot{Custody: &model.CustodyArrangement{
			ColdStoragePercentage: ptr(tc.pct),
		}}), FactorColdStorage)
		assert.Equal(t, tc.score, f.Score, "cold storage %v", tc.pct)
		assert.Equal(t, tc.pct < 95, f.Recommendation != "", "cold storage %v", tc.pct)
	}
}

func TestAssessCustody_Flags(t *testing.T) {
	factors := assessCustody(&model.EntityComplianceSnapshot{Custody: &model.CustodyArrangement{
		FundSegregation:  ptr(true),
		MultiSigRequired: ptr(false),
	}})
	require.Len(t, factors, 2)
	assert.Equal(t, 30.0, findFactor(t, factors, FactorFundSegregation).Score)
	assert.Equal(t, 0.0, findFactor(t, factors, FactorMultiSignature).Score)
}

func TestAssessTrading_HFT(t *testing.T) {
	cases := []struct {
		name  string
		hft   model.HFTActivity
		score float64
		rec   bool
	}{
		{"prohibited", model.HFTActivity{Allowed: false, VolumePercentage: ptr(90.0)}, 40, false},
		{"30 percent", model.HFTActivity{Allowed: true, VolumePercentage: ptr(30.0)}, 40, false},
		{"31 percent", model.HFTActivity{Allowed: true, VolumePercentage: ptr(31.0)}, 30, true},
		{"50 percent", model.HFTActivity{Allowed: true, VolumePercentage: ptr(50.0)}, 30, true},
		{"51 percent", model.HFTActivity{Allowed: true, VolumePercentage: ptr(51.0)}, 20, true},
		{"unknown volume", model.HFTActivity{Allowed: true}, 20, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hft := tc.hft
			f := findFactor(t, assessTrading(&model.EntityComplianceSnapshot{Trading: &model.TradingControls{HFT: &hft}}), FactorHFTActivity)
			assert.Equal(t, tc.score, f.Score)
			assert.Equal(t, tc.rec, f.Recommendation != "")
		})
	}
}

func TestAssessTrading_LeverageTiers(t *testing.T) {
	cases := []struct {
		lev   float64
		score float64
	}{
		{1, 30},
		{5, 30},
		{5.5, 20},
		{10, 20},
		{20, 10},
		{20.01, 0},
		{100, 0},
	}
	for _, tc := range cases {
		f := findFactor(t, assessTrading(&model.EntityComplianceSnapshot{Trading: &model.TradingControls{
			Leverage: &model.LeverageLimits{MaxLeverage: ptr(tc.lev)},
		}}), FactorLeverage)
		assert.Equal(t, tc.score, f.Score, "leverage %v", tc.lev)
	}

	factors := assessTrading(&model.EntityComplianceSnapshot{Trading: &model.TradingControls{Leverage: &model.LeverageLimits{}}})
	assert.Empty(t, factors, "leverage without a value is skipped")
}

func TestAssessTrading_Monitoring(t *testing.T) {
	factors := assessTrading(&model.EntityComplianceSnapshot{Trading: &model.TradingControls{
		Analytics: &model.BlockchainAnalytics{ProofOfReserves: true},
	}})
	f := findFactor(t, factors, FactorMarketMonitoring)
	assert.Equal(t, 15.0, f.Score)
	assert.NotEmpty(t, f.Recommendation)
}

func TestAssessRegulatory(t *testing.T) {
	table := DefaultJurisdictionTable()

	cases := []struct {
		tools []string
		score float64
	}{
		{nil, 0},
		{[]string{"Chainalysis"}, 10},
		{[]string{"Chainalysis", "  "}, 10},
		{[]string{"Chainalysis", "Elliptic"}, 20},
		{[]string{"Chainalysis", "Elliptic", "TRM", "Merkle Science"}, 30},
	}
	for _, tc := range cases {
		snap := &model.EntityComplianceSnapshot{Trading: &model.TradingControls{
			Analytics: &model.BlockchainAnalytics{MonitoringTools: tc.tools},
		}}
		f := findFactor(t, assessRegulatory(snap, table), FactorComplianceTools)
		assert.Equal(t, tc.score, f.Score, "tools %v", tc.tools)
	}

	factors := assessRegulatory(&model.EntityComplianceSnapshot{Regulatory: &model.RegulatoryPosture{
		HoldsLicenses: ptr(false),
		Headquarters:  "Dubai, UAE",
	}}, table)
	require.Len(t, factors, 2)
	assert.Equal(t, 0.0, findFactor(t, factors, FactorLicensing).Score)
	assert.Equal(t, 20.0, findFactor(t, factors, FactorJurisdictionRisk).Score)

	unknown := assessRegulatory(&model.EntityComplianceSnapshot{Regulatory: &model.RegulatoryPosture{}}, table)
	require.Len(t, unknown, 1)
	assert.Equal(t, 10.0, unknown[0].Score)
	assert.Contains(t, unknown[0].Description, "unknown")

	assert.Empty(t, assessRegulatory(&model.EntityComplianceSnapshot{}, table))
}
