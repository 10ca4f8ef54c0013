package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Middleware())
	engine.GET("/api/models", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := counterValue(t, RequestsTotal.WithLabelValues("GET", "/api/models", "200"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/models?provider=ollama", nil)
	engine.ServeHTTP(w, req)

	after := counterValue(t, RequestsTotal.WithLabelValues("GET", "/api/models", "200"))
	assert.Equal(t, before+1, after)
}

func TestObserveProvider(t *testing.T) {
	before := counterValue(t, ProviderRequestsTotal.WithLabelValues("ollama", "local", "ok"))

	ObserveProvider("ollama", "local", "ok", 250*time.Millisecond)

	after := counterValue(t, ProviderRequestsTotal.WithLabelValues("ollama", "local", "ok"))
	assert.Equal(t, before+1, after)
}

func TestHandler(t *testing.T) {
	ObserveProvider("openrouter", "remote", "transport_error", time.Second)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "aurora_provider_requests_total"))
	assert.True(t, strings.Contains(body, "aurora_provider_latency_seconds"))
}
