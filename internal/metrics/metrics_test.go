package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"college_api/internal/metrics"

	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	metrics.ObserveRequest(http.MethodGet, "/api/news", http.StatusOK, 15*time.Millisecond)
	metrics.ObserveStore("insert", "news", time.Now(), nil)
	metrics.ObserveStore("list", "event", time.Now(), errors.New("down"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `college_api_http_requests_total{method="GET",route="/api/news",status="200"}`)
	require.Contains(t, body, `college_api_store_operations_total{collection="news",operation="insert",result="ok"}`)
	require.Contains(t, body, `college_api_store_operations_total{collection="event",operation="list",result="error"}`)
}
