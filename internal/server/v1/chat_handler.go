package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sahiljangra115/Aurora-chat/internal/gateway"
	"github.com/Sahiljangra115/Aurora-chat/internal/llm"
	"github.com/Sahiljangra115/Aurora-chat/internal/server/middleware"
	"github.com/Sahiljangra115/Aurora-chat/internal/server/validator"
	"github.com/Sahiljangra115/Aurora-chat/pkg/api"
)

// CredentialHeader may carry the remote credential when the body has none.
const CredentialHeader = "X-Api-Key"

type ChatHandler struct {
	service   gateway.Service
	validator *validator.Validator
}

func NewChatHandler(service gateway.Service, v *validator.Validator) *ChatHandler {
	return &ChatHandler{
		service:   service,
		validator: v,
	}
}

// CreateCompletion answers one chat turn.
//
// POST /api/chat
func (h *ChatHandler) CreateCompletion(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validator.IsValidation(err) {
			_ = c.Error(h.validator.ParseError(err))
			return
		}
		// empty or unparsable bodies count as {}; resolution reports what is missing
		req = api.ChatRequest{}
	}

	h.tagProvider(c, req.Provider)

	result, err := h.service.Chat(c.Request.Context(), toChatInput(&req, c.GetHeader(CredentialHeader)))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.ChatResponse{Message: result.Message, Usage: result.Usage})
}

func (h *ChatHandler) tagProvider(c *gin.Context, id string) {
	if id == "" {
		id = h.service.DefaultProvider()
	}
	middleware.SetProvider(c, id)
}

func toChatInput(req *api.ChatRequest, headerCredential string) gateway.ChatInput {
	in := gateway.ChatInput{
		ProviderID:       req.Provider,
		Model:            req.Model,
		Credential:       req.APIKey,
		HeaderCredential: headerCredential,
		Temperature:      req.Temperature.Ptr(),
		TopP:             req.TopP.Ptr(),
		Message:          req.Message,
	}
	if len(req.History) > 0 {
		in.History = make([]llm.Message, len(req.History))
		for i, m := range req.History {
			in.History[i] = llm.Message{Role: llm.Role(m.Role), Content: m.Content}
		}
	}
	return in
}
