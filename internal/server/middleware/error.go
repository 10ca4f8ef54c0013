package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sahiljangra115/Aurora-chat/internal/llm"
	"github.com/Sahiljangra115/Aurora-chat/internal/server/validator"
	"github.com/Sahiljangra115/Aurora-chat/pkg/api"
)

// ErrorHandler writes the last error a handler attached with c.Error.
// Validation failures become 400, transport failures 502, anything else 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var reqErr *validator.RequestError
		if errors.As(err, &reqErr) {
			c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{
				Error:  reqErr.Error(),
				Fields: reqErr.Fields,
			})
			return
		}

		var llmErr *llm.Error
		if errors.As(err, &llmErr) {
			status := http.StatusInternalServerError
			switch llmErr.Kind {
			case llm.KindValidation:
				status = http.StatusBadRequest
			case llm.KindTransport:
				status = http.StatusBadGateway
			}

			if llmErr.Log != nil {
				logger.Error("Upstream failure",
					zap.String("request_id", c.GetString(RequestIDKey)),
					zap.String("reason", llmErr.Message),
					zap.Error(llmErr.Log),
				)
			}

			c.AbortWithStatusJSON(status, api.ErrorResponse{Error: llmErr.Message})
			return
		}

		logger.Error("Unhandled error",
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{
			Error: "An unexpected error occurred.",
		})
	}
}
