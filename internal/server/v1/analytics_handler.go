package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Sahiljangra115/Aurora-chat/internal/analytics"
	"github.com/Sahiljangra115/Aurora-chat/internal/llm"
)

type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// Recent lists the latest request logs, newest first.
//
// GET /api/requests?limit=N
func (h *AnalyticsHandler) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			_ = c.Error(llm.ValidationError("Invalid 'limit' parameter"))
			return
		}
		limit = n
	}

	logs, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   logs,
	})
}

// Stats aggregates request logs per provider.
//
// GET /api/requests/stats
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.service.ProviderStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   stats,
	})
}
