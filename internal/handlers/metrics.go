package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cloudscale_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 500
)

// 📡 GET /api/metrics : dernier relevé
func (h *Handler) LatestMetrics(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	snapshot, err := h.Store.LatestSnapshot(ctx)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Aucune métrique disponible"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// 📡 GET /api/metrics/history?limit=N
func (h *Handler) MetricsHistory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	history, err := h.Store.SnapshotHistory(ctx, historyLimit(c.Query("limit")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// historyLimit retombe sur 10 pour une valeur absente ou invalide, plafonne à 500
func historyLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultHistoryLimit
	}
	if n > maxHistoryLimit {
		return maxHistoryLimit
	}
	return n
}
