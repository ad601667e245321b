package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityComplianceSnapshot 描述某个实体在评估时刻的合规状态
// 所有子结构均为可选：nil 表示"没有数据"，而不是"零风险"
type EntityComplianceSnapshot struct {
	KYC        *KYCMetrics         `json:"kyc,omitempty" yaml:"kyc,omitempty"`
	Security   *SecurityPosture    `json:"security,omitempty" yaml:"security,omitempty"`
	Custody    *CustodyArrangement `json:"custody,omitempty" yaml:"custody,omitempty"`
	Trading    *TradingControls    `json:"trading,omitempty" yaml:"trading,omitempty"`
	Regulatory *RegulatoryPosture  `json:"regulatory,omitempty" yaml:"regulatory,omitempty"`
}

type KYCMetrics struct {
	VerifiedUsers                  *int64               `json:"verified_users,omitempty" yaml:"verified_users,omitempty" validate:"omitempty,gte=0"`
	NonVerifiedUsers               *int64               `json:"non_verified_users,omitempty" yaml:"non_verified_users,omitempty" validate:"omitempty,gte=0"`
	HighRiskJurisdictionPercentage *float64             `json:"high_risk_jurisdiction_percentage,omitempty" yaml:"high_risk_jurisdiction_percentage,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
	Sanctions                      *SanctionsCompliance `json:"sanctions,omitempty" yaml:"sanctions,omitempty"`
}

// SanctionsCompliance flags one framework each.
type SanctionsCompliance struct {
	OFAC bool `json:"ofac" yaml:"ofac"`
	FATF bool `json:"fatf" yaml:"fatf"`
	EU   bool `json:"eu" yaml:"eu"`
}

type SecurityPosture struct {
	Manipulation *ManipulationDetection `json:"manipulation,omitempty" yaml:"manipulation,omitempty"`
	Insurance    *InsuranceCoverage     `json:"insurance,omitempty" yaml:"insurance,omitempty"`
}

type ManipulationDetection struct {
	BotDetection      bool `json:"bot_detection" yaml:"bot_detection"`
	SpoofingDetection bool `json:"spoofing_detection" yaml:"spoofing_detection"`
}

type InsuranceCoverage struct {
	HasInsurance        bool             `json:"has_insurance" yaml:"has_insurance"`
	CoverageLimit       *decimal.Decimal `json:"coverage_limit,omitempty" yaml:"coverage_limit,omitempty"`
	LastPenetrationTest *time.Time       `json:"last_penetration_test,omitempty" yaml:"last_penetration_test,omitempty"`
}

type CustodyArrangement struct {
	ColdStoragePercentage *float64 `json:"cold_storage_percentage,omitempty" yaml:"cold_storage_percentage,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
	FundSegregation       *bool    `json:"fund_segregation,omitempty" yaml:"fund_segregation,omitempty"`
	MultiSigRequired      *bool    `json:"multi_sig_required,omitempty" yaml:"multi_sig_required,omitempty"`
}

type TradingControls struct {
	HFT       *HFTActivity         `json:"hft,omitempty" yaml:"hft,omitempty"`
	Leverage  *LeverageLimits      `json:"leverage,omitempty" yaml:"leverage,omitempty"`
	Analytics *BlockchainAnalytics `json:"analytics,omitempty" yaml:"analytics,omitempty"`
}

type HFTActivity struct {
	Allowed          bool     `json:"allowed" yaml:"allowed"`
	VolumePercentage *float64 `json:"volume_percentage,omitempty" yaml:"volume_percentage,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
}

type LeverageLimits struct {
	MaxLeverage *float64 `json:"max_leverage,omitempty" yaml:"max_leverage,omitempty" validate:"omitempty,finite,gt=0"`
}

type BlockchainAnalytics struct {
	RealTimeAnalytics bool     `json:"real_time_analytics" yaml:"real_time_analytics"`
	ProofOfReserves   bool     `json:"proof_of_reserves" yaml:"proof_of_reserves"`
	MonitoringTools   []string `json:"monitoring_tools,omitempty" yaml:"monitoring_tools,omitempty"`
}

type RegulatoryPosture struct {
	HoldsLicenses *bool  `json:"holds_licenses,omitempty" yaml:"holds_licenses,omitempty"`
	Headquarters  string `json:"headquarters,omitempty" yaml:"headquarters,omitempty"`
}
