package internal

import (
	"context"
	"energymon/internal/controllers"
	"energymon/internal/models"
	"energymon/internal/services"
	"energymon/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- minimal mocks for routes test ---

type routeTestAlerts struct{}

func (m *routeTestAlerts) Evaluate(_ context.Context) (models.AlertSummary, error) {
	return models.AlertSummary{}, nil
}
func (m *routeTestAlerts) LastSummary() (models.AlertSummary, bool) { return models.AlertSummary{}, false }

type routeTestRegistry struct{}

func (m *routeTestRegistry) Load(_ context.Context) (models.Registry, error) {
	return models.NewRegistry(), nil
}
func (m *routeTestRegistry) Poll(_ context.Context) (services.PollResult, error) {
	return services.PollResult{}, nil
}
func (m *routeTestRegistry) RemoveInactive(_ context.Context, _ time.Duration) (int, error) {
	return 0, nil
}

func newRouteTestController() *controllers.AlertController {
	return controllers.NewAlertController(&testutil.MockLogger{}, &routeTestAlerts{}, &routeTestRegistry{})
}

func TestInitRoutes_RegistersThreeRoutes(t *testing.T) {
	router := InitRoutes(newRouteTestController())
	routes := router.GetRoutes()

	require.Len(t, routes, 3)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/alerts/check")
	assert.Contains(t, urls, "/telegram/poll")
	assert.Contains(t, urls, "/telegram/chats")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	mux := InitRoutes(newRouteTestController()).Mux()

	// POST /alerts/check with GET should fail
	req := httptest.NewRequest(http.MethodGet, "/alerts/check", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// GET /telegram/chats with POST should fail
	req = httptest.NewRequest(http.MethodPost, "/telegram/chats", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/alerts/check", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
