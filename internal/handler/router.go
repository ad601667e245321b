package handler

import (
	"net/http"

	"github.com/complyhub/riskgate/internal/middleware"
	"github.com/complyhub/riskgate/internal/risk"
	"github.com/complyhub/riskgate/internal/service"
	"github.com/complyhub/riskgate/internal/stream"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Entities    *service.EntityService
	Assessments *service.AssessmentService
	Audit       *service.AuditService // optional
	Hub         *stream.Hub
	Policy      risk.Policy
	Idempotency middleware.IdempotencyStore
	Limiters    *middleware.ClientLimiters
	ReadOnly    bool
	MetricsPath string // empty disables /metrics
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())
	if deps.Audit != nil {
		r.Use(middleware.AuditMiddleware(deps.Audit))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "riskgate"})
	})
	if deps.MetricsPath != "" {
		r.GET(deps.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	entityHandler := NewEntityHandler(deps.Entities)
	assessmentHandler := NewAssessmentHandler(deps.Assessments)
	policyHandler := NewPolicyHandler(deps.Policy)
	attestationHandler := NewAttestationHandler()

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimitMiddleware(deps.Limiters))
	v1.Use(middleware.ReadOnlyMiddleware(deps.ReadOnly))
	v1.Use(middleware.IdempotencyMiddleware(deps.Idempotency))
	{
		v1.POST("/entities", entityHandler.Create)
		v1.GET("/entities", entityHandler.List)
		v1.GET("/entities/:id", entityHandler.Get)
		v1.PATCH("/entities/:id", entityHandler.Update)
		v1.DELETE("/entities/:id", entityHandler.Delete)
		v1.PUT("/entities/:id/snapshot", entityHandler.PutSnapshot)

		v1.POST("/entities/:id/assessments", assessmentHandler.AssessEntity)
		v1.GET("/entities/:id/assessments", assessmentHandler.History)
		v1.GET("/entities/:id/assessments/latest", assessmentHandler.Latest)
		v1.POST("/assessments", assessmentHandler.AssessSnapshot)

		v1.POST("/attestations/verify", attestationHandler.Verify)
		v1.GET("/policy", policyHandler.Get)
		v1.GET("/jurisdictions/classify", policyHandler.Classify)

		if deps.Audit != nil {
			v1.GET("/audit", NewAuditHandler(deps.Audit).List)
		}
		if deps.Hub != nil {
			v1.GET("/stream", NewStreamHandler(deps.Hub).Serve)
		}
	}

	return r
}
