package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// ServiceStatus is one data source's health entry.
type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// HealthCheckResponse summarizes the pipeline's health.
type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}

// HealthCheckHandler handles GET /healthCheck. A source is "ok" once it
// has produced data and its last refresh did not error; "degraded" when
// it errors but stale data is still on display; "down" when it has
// never succeeded.
func HealthCheckHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		services := make(map[string]ServiceStatus)

		spots := deps.Controllers.Spots.Snapshot()
		services["spots"] = feedStatus(spots.Error, !spots.LastUpdate.IsZero())

		solar := deps.Controllers.Solar.Snapshot()
		services["solar"] = feedStatus(solar.Error, !solar.LastUpdate.IsZero())

		bands := deps.Controllers.Bands.Snapshot()
		services["bands"] = feedStatus("", !bands.LastUpdate.IsZero())

		_, hasQuote := deps.Controllers.Quotes.Current()
		services["quotes"] = feedStatus("", hasQuote)

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status == "down" {
				overallStatus = "down"
				break
			}
			if svc.Status != "ok" {
				overallStatus = "degraded"
			}
		}

		now := time.Now()
		uptime := now.Sub(deps.UpSince).Round(time.Second).String()

		resp := HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			Uptime:   uptime,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func feedStatus(lastErr string, hasData bool) ServiceStatus {
	switch {
	case lastErr != "" && hasData:
		return ServiceStatus{Status: "degraded", Details: lastErr}
	case lastErr != "":
		return ServiceStatus{Status: "down", Details: lastErr}
	case !hasData:
		return ServiceStatus{Status: "down", Details: "no data yet"}
	default:
		return ServiceStatus{Status: "ok"}
	}
}
