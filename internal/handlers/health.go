package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.Store.Ping(ctx); err != nil {
		log.Printf("⚠️ Health: stockage injoignable: %v", err)
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":       status,
		"timestamp":    time.Now().UTC(),
		"connections":  h.Hub.Count(),
		"seenSessions": h.Tracker.Seen(),
	})
}

// 🔌 GET /ws : canal temps réel des métriques
func (h *Handler) ServeWS(c *gin.Context) {
	h.Hub.ServeWS(c.Writer, c.Request)
}
