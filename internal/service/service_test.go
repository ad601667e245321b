package service

import (
	"context"
	"testing"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/risk"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// strongSnapshot scores 93.5 overall (Low) under the default policy.
func strongSnapshot() *model.EntityComplianceSnapshot {
	return &model.EntityComplianceSnapshot{
		KYC: &model.KYCMetrics{
			VerifiedUsers:                  ptr(int64(80)),
			NonVerifiedUsers:               ptr(int64(20)),
			HighRiskJurisdictionPercentage: ptr(10.0),
			Sanctions:                      &model.SanctionsCompliance{OFAC: true, FATF: true, EU: true},
		},
		Security: &model.SecurityPosture{
			Manipulation: &model.ManipulationDetection{BotDetection: true, SpoofingDetection: true},
			Insurance: &model.InsuranceCoverage{
				HasInsurance:        true,
				LastPenetrationTest: ptr(fixedNow.AddDate(0, -2, 0)),
			},
		},
		Custody: &model.CustodyArrangement{
			ColdStoragePercentage: ptr(98.0),
			FundSegregation:       ptr(true),
			MultiSigRequired:      ptr(true),
		},
		Trading: &model.TradingControls{
			HFT:      &model.HFTActivity{Allowed: false},
			Leverage: &model.LeverageLimits{MaxLeverage: ptr(3.0)},
			Analytics: &model.BlockchainAnalytics{
				RealTimeAnalytics: true,
				ProofOfReserves:   true,
				MonitoringTools:   []string{"Chainalysis", "Elliptic", "TRM Labs"},
			},
		},
		Regulatory: &model.RegulatoryPosture{
			HoldsLicenses: ptr(true),
			Headquarters:  "Singapore",
		},
	}
}

func newTestEngine(t *testing.T) *risk.Engine {
	t.Helper()
	engine, err := risk.NewEngine(risk.DefaultPolicy(), risk.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return engine
}

func createEntity(t *testing.T, svc *EntityService, snapshot *model.EntityComplianceSnapshot) *model.Entity {
	t.Helper()
	e, err := svc.Create(context.Background(), EntityCreateRequest{
		Name:     "Acme Exchange",
		Type:     model.EntityExchange,
		Snapshot: snapshot,
	})
	require.NoError(t, err)
	return e
}
