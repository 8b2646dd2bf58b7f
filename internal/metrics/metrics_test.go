package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinCountsRequestsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Gin())
	r.GET("/api/events/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/api/events/:id", "GET", "200"))
	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("/api/events/:id", "GET", "200"))
	assert.Equal(t, 2.0, after-before)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequests.WithLabelValues("unmatched", "GET", "404")), 1.0)
}

func TestObserveRegistration(t *testing.T) {
	before := testutil.ToFloat64(registrations.WithLabelValues("full"))
	ObserveRegistration("full")
	assert.Equal(t, 1.0, testutil.ToFloat64(registrations.WithLabelValues("full"))-before)
}
