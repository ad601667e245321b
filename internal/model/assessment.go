package model

import "time"

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Category identifies one of the five assessed areas.
type Category string

const (
	CategoryKYC        Category = "kyc_aml"
	CategorySecurity   Category = "security"
	CategoryCustody    Category = "custody"
	CategoryTrading    Category = "trading"
	CategoryRegulatory Category = "regulatory"
)

// Categories lists the categories in assessment output order.
var Categories = []Category{
	CategoryKYC,
	CategorySecurity,
	CategoryCustody,
	CategoryTrading,
	CategoryRegulatory,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) Label() string {
	switch c {
	case CategoryKYC:
		return "KYC/AML Controls"
	case CategorySecurity:
		return "Security Measures"
	case CategoryCustody:
		return "Custody Arrangements"
	case CategoryTrading:
		return "Trading Controls"
	case CategoryRegulatory:
		return "Regulatory Compliance"
	default:
		return string(c)
	}
}

type RiskFactor struct {
	Name           string  `json:"name" yaml:"name"`
	Score          float64 `json:"score" yaml:"score"`
	MaxScore       float64 `json:"max_score" yaml:"max_score"`
	Description    string  `json:"description" yaml:"description"`
	Recommendation string  `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

type RiskScore struct {
	Category Category     `json:"category" yaml:"category"`
	Label    string       `json:"label" yaml:"label"`
	Score    float64      `json:"score" yaml:"score"`
	MaxScore float64      `json:"max_score" yaml:"max_score"`
	Factors  []RiskFactor `json:"factors" yaml:"factors"`
}

// Recommendations returns the recommendations of every factor below its max.
func (s RiskScore) Recommendations() []string {
	out := make([]string, 0, len(s.Factors))
	for _, f := range s.Factors {
		if f.Recommendation != "" {
			out = append(out, f.Recommendation)
		}
	}
	return out
}

type RiskAssessment struct {
	OverallScore float64     `json:"overall_score" yaml:"overall_score"`
	RiskLevel    RiskLevel   `json:"risk_level" yaml:"risk_level"`
	Categories   []RiskScore `json:"categories" yaml:"categories"`
	AssessedAt   time.Time   `json:"assessed_at" yaml:"assessed_at"`
}

// Recommendations flattens all category recommendations in category order.
func (a *RiskAssessment) Recommendations() []string {
	var out []string
	for _, c := range a.Categories {
		out = append(out, c.Recommendations()...)
	}
	return out
}

// AssessmentRecord 是持久化的一次实体评估
type AssessmentRecord struct {
	ID          string         `json:"id"`
	EntityID    string         `json:"entity_id"`
	Assessment  RiskAssessment `json:"assessment"`
	Attestation *Attestation   `json:"attestation,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
