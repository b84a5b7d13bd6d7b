package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthCheckBeforeFirstRefresh(t *testing.T) {
	deps := newTestDeps(&stubFetcher{})
	defer deps.Shutdown()

	rec := httptest.NewRecorder()
	HealthCheckHandler(deps)(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	var resp HealthCheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Status != "down" {
		t.Errorf("status = %q before any refresh, want down", resp.Status)
	}
	if resp.Services["spots"].Status != "down" {
		t.Errorf("spots status = %q, want down", resp.Services["spots"].Status)
	}
}

func TestHealthCheckAfterRefreshes(t *testing.T) {
	// One body serves both feeds: valid XML for the solar parser, and a
	// single droppable record for the ADIF parser. Both refreshes still
	// count as successful fetches.
	deps := newTestDeps(&stubFetcher{
		body: `<solar><solardata><solarflux>100</solarflux></solardata></solar>`,
	})
	defer deps.Shutdown()

	deps.Controllers.Spots.Refresh(context.Background())
	deps.Controllers.Solar.Refresh(context.Background())
	deps.Controllers.Quotes.Rotate()

	rec := httptest.NewRecorder()
	HealthCheckHandler(deps)(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	var resp HealthCheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("status = %q, want ok (services: %+v)", resp.Status, resp.Services)
	}
	if resp.Uptime == "" {
		t.Error("uptime missing")
	}
}
