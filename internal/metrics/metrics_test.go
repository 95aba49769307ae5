package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/clients/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := counterValue(t, HTTPRequestsTotal.WithLabelValues("GET", "/api/clients/:id", "418"))

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients/"+id, nil))
	}

	after := counterValue(t, HTTPRequestsTotal.WithLabelValues("GET", "/api/clients/:id", "418"))
	if after-before != 2 {
		t.Fatalf("counter delta = %v", after-before)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}
