package model

import "time"

type EntityType string

const (
	EntityExchange         EntityType = "exchange"
	EntityStablecoinIssuer EntityType = "stablecoin_issuer"
	EntityDeFiProtocol     EntityType = "defi_protocol"
	EntityNFTMarketplace   EntityType = "nft_marketplace"
	EntityFund             EntityType = "fund"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityExchange, EntityStablecoinIssuer, EntityDeFiProtocol, EntityNFTMarketplace, EntityFund:
		return true
	default:
		return false
	}
}

// Entity 代表一个受监管的加密行业主体 (交易所、稳定币发行方等)
type Entity struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Type          EntityType                `json:"type"`
	Jurisdictions []string                  `json:"jurisdictions,omitempty"`
	Snapshot      *EntityComplianceSnapshot `json:"snapshot,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}
