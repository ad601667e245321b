package handler

import (
	"net/http"

	"github.com/complyhub/riskgate/internal/middleware"
	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/complyhub/riskgate/internal/service"
	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	svc *service.AssessmentService
}

func NewAssessmentHandler(svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{svc: svc}
}

// AssessEntity POST /v1/entities/:id/assessments
func (h *AssessmentHandler) AssessEntity(c *gin.Context) {
	rec, err := h.svc.AssessEntity(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	middleware.AddAuditContext(c, "overall_score", rec.Assessment.OverallScore)
	middleware.AddAuditContext(c, "risk_level", rec.Assessment.RiskLevel)
	c.JSON(http.StatusCreated, rec)
}

func (h *AssessmentHandler) History(c *gin.Context) {
	from, to, err := timeWindow(c)
	if err != nil {
		fail(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}
	records, err := h.svc.History(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 100), from, to)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *AssessmentHandler) Latest(c *gin.Context) {
	rec, err := h.svc.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// AssessSnapshot POST /v1/assessments scores an ad-hoc snapshot.
func (h *AssessmentHandler) AssessSnapshot(c *gin.Context) {
	var snapshot model.EntityComplianceSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		fail(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}
	assessment, err := h.svc.AssessSnapshot(c.Request.Context(), &snapshot)
	if err != nil {
		fail(c, err)
		return
	}
	middleware.AddAuditContext(c, "overall_score", assessment.OverallScore)
	c.JSON(http.StatusOK, gin.H{
		"assessment":      assessment,
		"recommendations": assessment.Recommendations(),
	})
}
