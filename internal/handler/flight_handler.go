package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/mira/skylink/internal/provider"
)

// FlightHandler serves raw flight candidates straight from the active
// candidate source, without any ranking.
type FlightHandler struct {
	source provider.CandidateProvider
}

// NewFlightHandler creates a handler over the candidate source.
func NewFlightHandler(source provider.CandidateProvider) *FlightHandler {
	return &FlightHandler{source: source}
}

// ListFlights handles GET /api/v1/flights?origin=..&destination=..&date=..
func (h *FlightHandler) ListFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	origin := strings.ToUpper(strings.TrimSpace(q.Get("origin")))
	destination := strings.ToUpper(strings.TrimSpace(q.Get("destination")))
	if origin == "" || destination == "" {
		writeBadRequest(w, "origin and destination are required")
		return
	}

	date, err := parseDate(q.Get("date"))
	if err != nil {
		writeBadRequest(w, "invalid date: expected YYYY-MM-DD")
		return
	}

	flights, err := h.source.ListFlights(r.Context(), origin, destination, date)
	if err != nil {
		log.Printf("[handler] list flights %s→%s: %v", origin, destination, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "source_unavailable",
			"message": "Flight source is unavailable. Try again later.",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flights": flights,
		"count":   len(flights),
		"source":  h.source.Name(),
	})
}
