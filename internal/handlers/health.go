package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//
// 🟢 GET /api/health
//
func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.db.Scylla.Query(`SELECT now() FROM system.local`).WithContext(ctx).Exec(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "scylla": err.Error()})
		return
	}
	if err := h.db.Redis.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "redis": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
