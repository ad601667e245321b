package handler

import (
	"net/http"

	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/complyhub/riskgate/internal/service"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	svc *service.AuditService
}

func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

func (h *AuditHandler) List(c *gin.Context) {
	from, to, err := timeWindow(c)
	if err != nil {
		fail(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}

	records, err := h.svc.List(c.Request.Context(), c.Query("entity_id"), queryInt(c, "limit", 100), from, to)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
