package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmo-lab/projecthub/pkg/constants"
)

func TestHandlerServesScrapeEndpoint(t *testing.T) {
	StatusTransitions.WithLabelValues("planning", "active", "ok").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, constants.MetricsPath, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "projecthub_status_transitions_total")
}

func TestHandlerOnlyExposesMetricsPath(t *testing.T) {
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewServerBindsGivenAddress(t *testing.T) {
	srv := NewServer(":9091")
	assert.Equal(t, ":9091", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
