package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sahiljangra115/Aurora-chat/internal/gateway"
	"github.com/Sahiljangra115/Aurora-chat/pkg/api"
)

type ConfigHandler struct {
	apiBaseURL string
	service    gateway.Service
}

func NewConfigHandler(apiBaseURL string, service gateway.Service) *ConfigHandler {
	return &ConfigHandler{apiBaseURL: apiBaseURL, service: service}
}

// Get returns what the browser UI needs to render the provider picker.
//
// GET /api/config
func (h *ConfigHandler) Get(c *gin.Context) {
	providers := h.service.Providers()

	resp := api.ConfigResponse{
		APIBaseURL:         h.apiBaseURL,
		DefaultProvider:    h.service.DefaultProvider(),
		AvailableProviders: make([]api.Provider, 0, len(providers)),
	}
	for _, p := range providers {
		resp.AvailableProviders = append(resp.AvailableProviders, api.Provider{
			ID:           p.ID,
			Label:        p.Label,
			Type:         string(p.Kind),
			DefaultModel: p.DefaultModel,
			Description:  p.Description,
		})
	}

	c.JSON(http.StatusOK, resp)
}
