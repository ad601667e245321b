package signer

import (
	"errors"
	"fmt"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrMalformedSignature = errors.New("malformed signature")
	ErrSignerMismatch     = errors.New("signature does not match signer")
)

// Recover returns the address that produced att.Signature.
func Recover(att *model.Attestation) (common.Address, error) {
	sig, err := hexutil.Decode(att.Signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedSignature, crypto.SignatureLength, len(sig))
	}
	// 不修改调用方的切片
	normalized := make([]byte, len(sig))
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pub, err := crypto.SigToPub(TypedDataHash(att), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify checks att.Signature against att.Signer.
func Verify(att *model.Attestation) error {
	if att == nil {
		return ErrMalformedSignature
	}
	if !common.IsHexAddress(att.Signer) {
		return fmt.Errorf("%w: invalid signer address %q", ErrMalformedSignature, att.Signer)
	}
	recovered, err := Recover(att)
	if err != nil {
		return err
	}
	if recovered != common.HexToAddress(att.Signer) {
		return ErrSignerMismatch
	}
	return nil
}
