package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveExtractionIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(extractionsTotal.WithLabelValues("pattern", OutcomeSuccess))
	ObserveExtraction("pattern", OutcomeSuccess, 150*time.Millisecond)
	after := testutil.ToFloat64(extractionsTotal.WithLabelValues("pattern", OutcomeSuccess))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestHandlerExposesRouteSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/cvs", func(c *gin.Context) { c.JSON(http.StatusOK, []any{}) })
	router.GET("/metrics", Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cvs", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `cv_http_requests_total{method="GET",route="/cvs",status="200"}`) {
		t.Fatalf("expected /cvs series in metrics output:\n%s", body)
	}
}
