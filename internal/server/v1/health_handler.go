package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sahiljangra115/Aurora-chat/pkg/api"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health is a liveness probe. It never calls an upstream.
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}
