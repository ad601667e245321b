package middleware

import (
	"net/http"

	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// ReadOnlyMiddleware rejects writes while the portal is frozen. Ad-hoc scoring
// and attestation verification persist nothing and stay available.
func ReadOnlyMiddleware(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		switch c.FullPath() {
		case "/v1/assessments", "/v1/attestations/verify":
			c.Next()
			return
		}

		c.Error(apperrors.New(apperrors.ErrReadOnly, "read-only mode enabled", nil))
		c.Abort()
	}
}
