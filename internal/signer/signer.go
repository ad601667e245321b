package signer

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID int64
}

func NewSigner(privateKeyHex string, chainID int64) (*Signer, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if privateKeyHex == "" {
		return nil, fmt.Errorf("private key is required")
	}
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %v", err)
	}

	publicKeyECDSA, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("error casting public key to ECDSA")
	}

	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(*publicKeyECDSA),
		chainID: chainID,
	}, nil
}

// Sign fills in signer, chain and signature on att.
func (s *Signer) Sign(att *model.Attestation) error {
	if att == nil {
		return fmt.Errorf("attestation is nil")
	}
	att.ChainID = s.chainID
	att.Signer = s.address.Hex()

	signature, err := crypto.Sign(TypedDataHash(att), s.key)
	if err != nil {
		return err
	}
	// crypto.Sign 返回 V=0/1，钱包习惯 27/28
	if signature[64] < 27 {
		signature[64] += 27
	}
	att.Signature = "0x" + common.Bytes2Hex(signature)
	return nil
}

func (s *Signer) Address() common.Address {
	return s.address
}

func (s *Signer) ChainID() int64 {
	return s.chainID
}
