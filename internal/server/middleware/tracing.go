package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns the OpenTelemetry tracing middleware. Requests to any of
// the skip paths (health probes, metrics scrapes) are not traced.
func Tracing(serviceName string, skip ...string) []gin.HandlerFunc {
	filter := func(r *http.Request) bool {
		for _, path := range skip {
			if r.URL.Path == path {
				return false
			}
		}
		return true
	}

	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName, otelgin.WithFilter(filter)),
		tagRequestID,
	}
}

// tagRequestID copies the request id onto the server span so traces can be
// matched with access logs.
func tagRequestID(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if id := c.GetString(RequestIDKey); id != "" && span.IsRecording() {
		span.SetAttributes(attribute.String("aurora.request_id", id))
	}
	c.Next()
}
