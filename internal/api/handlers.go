package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ham-kiosk/dashboard/internal/bands"
	"ham-kiosk/dashboard/internal/models"
	"ham-kiosk/dashboard/internal/scheduler"
)

// SpotsResponse is one page of the current spot set.
type SpotsResponse struct {
	IsLoading  bool          `json:"isLoading"`
	Error      string        `json:"error,omitempty"`
	Spots      []models.Spot `json:"spots"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	TotalSpots int           `json:"totalSpots"`
	LastUpdate time.Time     `json:"lastUpdate,omitempty"`
	NextUpdate time.Time     `json:"nextUpdate,omitempty"`
}

// BandsResponse carries band summaries ordered by frequency.
type BandsResponse struct {
	Bands       []models.BandSummary `json:"bands"`
	ActiveBands int                  `json:"activeBands"`
	TotalSpots  int                  `json:"totalSpots"`
	IsEmpty     bool                 `json:"isEmpty"`
	LastUpdate  time.Time            `json:"lastUpdate,omitempty"`
}

// SolarResponse decorates the raw conditions with derived values.
type SolarResponse struct {
	IsLoading        bool                    `json:"isLoading"`
	Error            string                  `json:"error,omitempty"`
	Solar            *models.SolarConditions `json:"solarData,omitempty"`
	OverallCondition string                  `json:"overallCondition,omitempty"`
	TimeOfDay        string                  `json:"timeOfDay"`
	LastUpdate       time.Time               `json:"lastUpdate,omitempty"`
	NextUpdate       time.Time               `json:"nextUpdate,omitempty"`
}

// QuoteResponse is the quote on display.
type QuoteResponse struct {
	Quote models.Quote `json:"quote"`
}

// RefreshResponse acknowledges a manual refresh request.
type RefreshResponse struct {
	Source string `json:"source"`
	Queued bool   `json:"queued"`
}

// GetSpotsHandler handles GET /api/spots with optional page and
// page_size query parameters.
func GetSpotsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := deps.Controllers.Spots.Snapshot()

		pageSize := queryInt(r, "page_size", deps.Cfg.SpotsCard.PageSize)
		if pageSize < 1 {
			pageSize = 1
		}

		total := len(snap.Spots)
		totalPages := (total + pageSize - 1) / pageSize
		if totalPages < 1 {
			totalPages = 1
		}

		page := queryInt(r, "page", 1)
		if page < 1 {
			page = 1
		}
		if page > totalPages {
			page = totalPages
		}

		lo := (page - 1) * pageSize
		hi := lo + pageSize
		if lo > total {
			lo = total
		}
		if hi > total {
			hi = total
		}

		resp := SpotsResponse{
			IsLoading:  snap.IsLoading,
			Error:      snap.Error,
			Spots:      snap.Spots[lo:hi],
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalSpots: total,
			LastUpdate: snap.LastUpdate,
			NextUpdate: snap.NextUpdate,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetBandsHandler handles GET /api/bands.
func GetBandsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := deps.Controllers.Bands.Snapshot()

		bandCount, spotCount := bands.Totals(snap.Summary)
		resp := BandsResponse{
			Bands:       bands.Sorted(snap.Summary),
			ActiveBands: bandCount,
			TotalSpots:  spotCount,
			IsEmpty:     snap.IsEmpty,
			LastUpdate:  snap.LastUpdate,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetSolarHandler handles GET /api/solar.
func GetSolarHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := deps.Controllers.Solar.Snapshot()

		resp := SolarResponse{
			IsLoading:  snap.IsLoading,
			Error:      snap.Error,
			Solar:      snap.Solar,
			TimeOfDay:  models.TimeOfDay(time.Now()),
			LastUpdate: snap.LastUpdate,
			NextUpdate: snap.NextUpdate,
		}
		if snap.Solar != nil {
			resp.OverallCondition = snap.Solar.OverallCondition(time.Now())
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetQuoteHandler handles GET /api/quote.
func GetQuoteHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := deps.Controllers.Quotes.Current()
		if !ok {
			respondWithError(w, http.StatusNotFound, "no quote selected yet")
			return
		}
		respondWithSuccess(w, http.StatusOK, &QuoteResponse{Quote: q})
	}
}

// RefreshHandler handles POST /api/refresh/{source}. The refresh runs
// asynchronously; the response only acknowledges the request.
func RefreshHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := chi.URLParam(r, "source")
		if !scheduler.KnownSource(source) {
			respondWithError(w, http.StatusBadRequest, "unknown source: "+source)
			return
		}

		go deps.Scheduler.RefreshNow(source)
		respondWithSuccess(w, http.StatusAccepted, &RefreshResponse{Source: source, Queued: true})
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
