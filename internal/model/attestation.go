package model

import "time"

// Attestation is a signed statement of an assessment result.
type Attestation struct {
	EntityID   string    `json:"entity_id" binding:"required"`
	ScoreBps   int64     `json:"score_bps"`
	RiskLevel  RiskLevel `json:"risk_level" binding:"required"`
	AssessedAt time.Time `json:"assessed_at" binding:"required"`
	Signer     string    `json:"signer" binding:"required"`
	Signature  string    `json:"signature" binding:"required"`
	ChainID    int64     `json:"chain_id"`
}
