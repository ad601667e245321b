package handler

import (
	"errors"
	"net/http"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/complyhub/riskgate/internal/signer"
	"github.com/gin-gonic/gin"
)

type AttestationHandler struct{}

func NewAttestationHandler() *AttestationHandler {
	return &AttestationHandler{}
}

// Verify POST /v1/attestations/verify
func (h *AttestationHandler) Verify(c *gin.Context) {
	var att model.Attestation
	if err := c.ShouldBindJSON(&att); err != nil {
		fail(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}

	err := signer.Verify(&att)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"valid": true, "signer": att.Signer})
	case errors.Is(err, signer.ErrSignerMismatch):
		recovered, _ := signer.Recover(&att)
		c.JSON(http.StatusOK, gin.H{"valid": false, "signer": att.Signer, "recovered": recovered.Hex()})
	default:
		fail(c, apperrors.New(apperrors.ErrSignature, err.Error(), err))
	}
}
