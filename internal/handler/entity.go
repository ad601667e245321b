package handler

import (
	"net/http"

	"github.com/complyhub/riskgate/internal/middleware"
	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/complyhub/riskgate/internal/service"
	"github.com/gin-gonic/gin"
)

type EntityHandler struct {
	svc *service.EntityService
}

func NewEntityHandler(svc *service.EntityService) *EntityHandler {
	return &EntityHandler{svc: svc}
}

func (h *EntityHandler) List(c *gin.Context) {
	entities, err := h.svc.List(c.Request.Context(), queryInt(c, "limit", 100), queryInt(c, "offset", 0))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entities)
}

func (h *EntityHandler) Get(c *gin.Context) {
	entity, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (h *EntityHandler) Create(c *gin.Context) {
	var req service.EntityCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}
	entity, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	middleware.SetAuditEntity(c, entity.ID)
	c.JSON(http.StatusCreated, entity)
}

func (h *EntityHandler) Update(c *gin.Context) {
	var req service.EntityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}
	entity, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (h *EntityHandler) PutSnapshot(c *gin.Context) {
	var snapshot model.EntityComplianceSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		fail(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}
	entity, err := h.svc.PutSnapshot(c.Request.Context(), c.Param("id"), &snapshot)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (h *EntityHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
