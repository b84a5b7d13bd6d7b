package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ham-kiosk/dashboard/internal/table"
)

// CardResponse is one card's rendered page.
type CardResponse struct {
	Card  string         `json:"card"`
	Table table.Snapshot `json:"table"`
}

// GetCardHandler handles GET /api/cards/{card}: the current page of a
// dashboard card rendered through its visible columns.
func GetCardHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "card")
		card := deps.Controllers.Cards.Card(name)
		if card == nil {
			respondWithError(w, http.StatusNotFound, "unknown card: "+name)
			return
		}
		respondWithSuccess(w, http.StatusOK, &CardResponse{Card: name, Table: card.Snapshot()})
	}
}

// CardPageHandler handles POST /api/cards/{card}/page with an action
// query parameter: first, prev, next, last, or goto with n.
func CardPageHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "card")
		card := deps.Controllers.Cards.Card(name)
		if card == nil {
			respondWithError(w, http.StatusNotFound, "unknown card: "+name)
			return
		}

		switch action := r.URL.Query().Get("action"); action {
		case "first":
			card.FirstPage()
		case "prev":
			card.PrevPage()
		case "next":
			card.NextPage()
		case "last":
			card.LastPage()
		case "goto":
			card.GoToPage(queryInt(r, "n", 0))
		default:
			respondWithError(w, http.StatusBadRequest, "unknown page action: "+action)
			return
		}

		respondWithSuccess(w, http.StatusOK, &CardResponse{Card: name, Table: card.Snapshot()})
	}
}

// CardRetryHandler handles POST /api/cards/{card}/retry. Only a card in
// the error state re-requests its source.
func CardRetryHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "card")
		card := deps.Controllers.Cards.Card(name)
		if card == nil {
			respondWithError(w, http.StatusNotFound, "unknown card: "+name)
			return
		}

		card.Retry()
		respondWithSuccess(w, http.StatusOK, &CardResponse{Card: name, Table: card.Snapshot()})
	}
}
