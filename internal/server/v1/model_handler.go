package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sahiljangra115/Aurora-chat/internal/gateway"
	"github.com/Sahiljangra115/Aurora-chat/internal/server/middleware"
	"github.com/Sahiljangra115/Aurora-chat/pkg/api"
)

type ModelHandler struct {
	service gateway.Service
}

func NewModelHandler(service gateway.Service) *ModelHandler {
	return &ModelHandler{service: service}
}

// ListModels lists the models of one provider; the default provider when
// the query parameter is absent.
//
// GET /api/models?provider=<id>
func (h *ModelHandler) ListModels(c *gin.Context) {
	id := c.Query("provider")
	if id == "" {
		id = h.service.DefaultProvider()
	}
	middleware.SetProvider(c, id)

	models, err := h.service.ListModels(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.ModelsResponse{Models: models})
}
