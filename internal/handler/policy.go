package handler

import (
	"net/http"
	"strings"

	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/complyhub/riskgate/internal/risk"
	"github.com/gin-gonic/gin"
)

type PolicyHandler struct {
	policy risk.Policy
}

func NewPolicyHandler(policy risk.Policy) *PolicyHandler {
	return &PolicyHandler{policy: policy}
}

func (h *PolicyHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.policy)
}

// Classify GET /v1/jurisdictions/classify?hq=
func (h *PolicyHandler) Classify(c *gin.Context) {
	hq, ok := c.GetQuery("hq")
	if !ok {
		fail(c, apperrors.NewInvalidRequest("hq query parameter is required"))
		return
	}
	tier := h.policy.Jurisdictions.Classify(hq)
	c.JSON(http.StatusOK, gin.H{
		"headquarters": strings.TrimSpace(hq),
		"tier":         tier,
		"score":        tier.Score(),
	})
}
