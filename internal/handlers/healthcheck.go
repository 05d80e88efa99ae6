package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intersection-backend/internal/db"
)

type HealthHandler struct {
	pg *db.PostgresService
}

func NewHealthHandler(pg *db.PostgresService) *HealthHandler {
	return &HealthHandler{pg: pg}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) HealthDB(c *gin.Context) {
	if h.pg == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database not configured"})
		return
	}
	if err := h.pg.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database connection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
