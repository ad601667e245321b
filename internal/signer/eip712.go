package signer

import (
	"math/big"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

const (
	EIP712DomainName    = "RiskGate Compliance Attestation"
	EIP712DomainVersion = "1"
)

var (
	// keccak256("EIP712Domain(string name,string version,uint256 chainId)")
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(string name,string version,uint256 chainId)"))

	// keccak256("RiskAttestation(bytes32 entityId,uint256 scoreBps,string riskLevel,uint256 assessedAt)")
	AttestationTypeHash = crypto.Keccak256Hash([]byte("RiskAttestation(bytes32 entityId,uint256 scoreBps,string riskLevel,uint256 assessedAt)"))
)

// NewAttestation builds the unsigned statement for an assessment. The score is
// carried in basis points and the timestamp at second precision.
func NewAttestation(entityID string, a *model.RiskAssessment) *model.Attestation {
	bps := decimal.NewFromFloat(a.OverallScore).Shift(2).Round(0).IntPart()
	return &model.Attestation{
		EntityID:   entityID,
		ScoreBps:   bps,
		RiskLevel:  a.RiskLevel,
		AssessedAt: a.AssessedAt.UTC().Truncate(time.Second),
	}
}

func domainSeparator(chainID int64) []byte {
	data := make([]byte, 32*4)
	copy(data[0:32], EIP712DomainTypeHash.Bytes())
	copy(data[32:64], crypto.Keccak256([]byte(EIP712DomainName)))
	copy(data[64:96], crypto.Keccak256([]byte(EIP712DomainVersion)))
	copy(data[96:128], math.U256Bytes(big.NewInt(chainID)))
	return crypto.Keccak256(data)
}

// hashAttestation = keccak256(abi.encode(typeHash, entityId, scoreBps, keccak256(riskLevel), assessedAt))
func hashAttestation(att *model.Attestation) []byte {
	data := make([]byte, 32*5)
	copy(data[0:32], AttestationTypeHash.Bytes())
	copy(data[32:64], crypto.Keccak256([]byte(att.EntityID)))
	copy(data[64:96], math.U256Bytes(big.NewInt(att.ScoreBps)))
	copy(data[96:128], crypto.Keccak256([]byte(att.RiskLevel)))
	copy(data[128:160], math.U256Bytes(big.NewInt(att.AssessedAt.Unix())))
	return crypto.Keccak256(data)
}

// TypedDataHash is keccak256("\x19\x01" ‖ domainSeparator ‖ hashStruct).
func TypedDataHash(att *model.Attestation) []byte {
	return crypto.Keccak256([]byte{0x19, 0x01}, domainSeparator(att.ChainID), hashAttestation(att))
}
