package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func cardsRouter(deps *Dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/cards/{card}", GetCardHandler(deps))
	r.Post("/api/cards/{card}/page", CardPageHandler(deps))
	r.Post("/api/cards/{card}/retry", CardRetryHandler(deps))
	return r
}

func TestGetCardSnapshot(t *testing.T) {
	deps := newTestDeps(&stubFetcher{body: adifBatch(25)})
	defer deps.Shutdown()
	deps.Controllers.Spots.Refresh(context.Background())

	router := cardsRouter(deps)
	req := httptest.NewRequest(http.MethodGet, "/api/cards/spots", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse[CardResponse](t, rec)
	snap := resp.Data.Table
	if snap.State.String() != "ready" {
		t.Fatalf("card state = %v, want ready", snap.State)
	}
	// Default page size 20 over 25 rows.
	if snap.TotalPages != 2 || snap.RowCount != 25 {
		t.Errorf("pages/rows = %d/%d, want 2/25", snap.TotalPages, snap.RowCount)
	}
	if len(snap.Cells) != 20 {
		t.Errorf("page holds %d rows, want 20", len(snap.Cells))
	}
}

func TestCardPageActions(t *testing.T) {
	deps := newTestDeps(&stubFetcher{body: adifBatch(25)})
	defer deps.Shutdown()
	deps.Controllers.Spots.Refresh(context.Background())

	router := cardsRouter(deps)

	post := func(url string) CardResponse {
		t.Helper()
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, url, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("POST %s = %d", url, rec.Code)
		}
		return *decodeResponse[CardResponse](t, rec).Data
	}

	if got := post("/api/cards/spots/page?action=next").Table.PageIndex; got != 1 {
		t.Errorf("next: pageIndex = %d, want 1", got)
	}
	if got := post("/api/cards/spots/page?action=next").Table.PageIndex; got != 1 {
		t.Errorf("next past end: pageIndex = %d, want clamped to 1", got)
	}
	if got := post("/api/cards/spots/page?action=first").Table.PageIndex; got != 0 {
		t.Errorf("first: pageIndex = %d, want 0", got)
	}
	if got := post("/api/cards/spots/page?action=goto&n=99").Table.PageIndex; got != 1 {
		t.Errorf("goto 99: pageIndex = %d, want clamped to 1", got)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards/spots/page?action=sideways", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown action status = %d, want 400", rec.Code)
	}
}

func TestCardUnknownName(t *testing.T) {
	deps := newTestDeps(&stubFetcher{})
	defer deps.Shutdown()

	router := cardsRouter(deps)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cards/weather", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
