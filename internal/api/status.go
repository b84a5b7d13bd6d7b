package api

import (
	"net/http"
	"time"
)

// SourceStatus is one data source's refresh bookkeeping.
type SourceStatus struct {
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	LastUpdate time.Time `json:"lastUpdate,omitempty"`
	NextUpdate time.Time `json:"nextUpdate,omitempty"`
}

// StatusResponse is the kiosk-facing status panel payload.
type StatusResponse struct {
	Uptime  string                  `json:"uptime"`
	Sources map[string]SourceStatus `json:"sources"`
}

// GetStatusHandler handles GET /api/status: per-source refresh state
// with last/next refresh times, for the kiosk's footer.
func GetStatusHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sources := make(map[string]SourceStatus)

		spots := deps.Controllers.Spots.Snapshot()
		sources["spots"] = SourceStatus{
			Status:     feedStatus(spots.Error, !spots.LastUpdate.IsZero()).Status,
			Error:      spots.Error,
			LastUpdate: spots.LastUpdate,
			NextUpdate: spots.NextUpdate,
		}

		solar := deps.Controllers.Solar.Snapshot()
		sources["solar"] = SourceStatus{
			Status:     feedStatus(solar.Error, !solar.LastUpdate.IsZero()).Status,
			Error:      solar.Error,
			LastUpdate: solar.LastUpdate,
			NextUpdate: solar.NextUpdate,
		}

		bands := deps.Controllers.Bands.Snapshot()
		sources["bands"] = SourceStatus{
			Status:     feedStatus("", !bands.LastUpdate.IsZero()).Status,
			LastUpdate: bands.LastUpdate,
		}

		_, hasQuote := deps.Controllers.Quotes.Current()
		sources["quotes"] = SourceStatus{Status: feedStatus("", hasQuote).Status}

		resp := StatusResponse{
			Uptime:  time.Since(deps.UpSince).Round(time.Second).String(),
			Sources: sources,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}
