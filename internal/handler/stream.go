package handler

import (
	"github.com/complyhub/riskgate/internal/pkg/logger"
	"github.com/complyhub/riskgate/internal/stream"
	"github.com/gin-gonic/gin"
)

type StreamHandler struct {
	hub *stream.Hub
}

func NewStreamHandler(hub *stream.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// Serve GET /v1/stream upgrades to a websocket feed of completed assessments.
func (h *StreamHandler) Serve(c *gin.Context) {
	if err := h.hub.ServeWS(c.Writer, c.Request); err != nil {
		// upgrader already wrote the HTTP error
		logger.Warn("Stream upgrade failed", "error", err, "client_ip", c.ClientIP())
	}
}
