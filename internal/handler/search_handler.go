package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mira/skylink/internal/service"
)

// SearchHandler handles the journey planning search endpoints.
type SearchHandler struct {
	alternates  *service.AlternatesService
	connections *service.ConnectionService
	preferences *service.PreferenceService
}

// NewSearchHandler creates a handler wired to the three search services.
func NewSearchHandler(alternates *service.AlternatesService, connections *service.ConnectionService, preferences *service.PreferenceService) *SearchHandler {
	return &SearchHandler{alternates: alternates, connections: connections, preferences: preferences}
}

// AlternatesRequest is the body of POST /api/v1/search/alternates.
type AlternatesRequest struct {
	OriginAirportCode       string  `json:"origin_airport_code"`
	FinalDestinationAddress string  `json:"final_destination_address"`
	Date                    string  `json:"date"`
	RadiusKm                float64 `json:"radius_km"`
}

// SearchAlternates handles POST /api/v1/search/alternates
//
// Finds airports near the resolved destination and prices the full trip:
// flight into each alternate plus ground transport onward. An empty result
// set is a 200 with a hint, not an error.
//
// Response codes:
//
//	200 — Search completed (possibly with zero results and a hint)
//	400 — Malformed body or date
//	404 — Unknown origin airport code
//	422 — Destination could not be resolved to coordinates
//	500 — Unexpected error
func (h *SearchHandler) SearchAlternates(w http.ResponseWriter, r *http.Request) {
	var req AlternatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.OriginAirportCode == "" || req.FinalDestinationAddress == "" {
		writeBadRequest(w, "origin_airport_code and final_destination_address are required")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeBadRequest(w, "invalid date: expected YYYY-MM-DD")
		return
	}

	resp, err := h.alternates.FindAlternates(r.Context(), req.OriginAirportCode, req.FinalDestinationAddress, date, req.RadiusKm)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOriginNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "origin_not_found",
				"message": "Origin airport code is unknown.",
			})
		case errors.Is(err, service.ErrDestinationUnresolved):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":   "destination_unresolved",
				"message": "Destination could not be resolved to coordinates.",
			})
		default:
			log.Printf("[handler] alternates search: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// MultiModalRequest is the body of POST /api/v1/search/multimodal.
type MultiModalRequest struct {
	OriginAirportCode      string `json:"origin_airport_code"`
	DestinationAirportCode string `json:"destination_airport_code"`
	Date                   string `json:"date"`
}

// SearchMultiModal handles POST /api/v1/search/multimodal
//
// Enumerates direct flights, one-stop connections, and train-linked
// flight pairs between two airports, ranked by total cost.
//
// Response codes:
//
//	200 — Search completed (possibly with zero candidates)
//	400 — Malformed body or date
//	404 — Unknown airport code
//	500 — Unexpected error
func (h *SearchHandler) SearchMultiModal(w http.ResponseWriter, r *http.Request) {
	var req MultiModalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.OriginAirportCode == "" || req.DestinationAirportCode == "" {
		writeBadRequest(w, "origin_airport_code and destination_airport_code are required")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeBadRequest(w, "invalid date: expected YYYY-MM-DD")
		return
	}

	candidates, err := h.connections.FindMultiModalConnections(r.Context(), req.OriginAirportCode, req.DestinationAirportCode, date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAirportNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "airport_not_found",
				"message": "Origin or destination airport code is unknown.",
			})
		default:
			log.Printf("[handler] multimodal search: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// PreferencesRequest is the body of POST /api/v1/search/preferences.
type PreferencesRequest struct {
	OriginAirportCode      string  `json:"origin_airport_code"`
	DestinationAirportCode string  `json:"destination_airport_code"`
	Date                   string  `json:"date"`
	MaxPriceEUR            float64 `json:"max_price_eur"`
	MaxDurationHours       float64 `json:"max_duration_hours"`
}

// SearchByPreferences handles POST /api/v1/search/preferences
//
// Scores every flight on the route against the traveller's soft limits
// and returns the best matches. Over-limit flights are scored down, never
// filtered out.
func (h *SearchHandler) SearchByPreferences(w http.ResponseWriter, r *http.Request) {
	var req PreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.OriginAirportCode == "" || req.DestinationAirportCode == "" {
		writeBadRequest(w, "origin_airport_code and destination_airport_code are required")
		return
	}
	if req.MaxPriceEUR < 0 || req.MaxDurationHours < 0 {
		writeBadRequest(w, "max_price_eur and max_duration_hours must be non-negative")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeBadRequest(w, "invalid date: expected YYYY-MM-DD")
		return
	}

	prefs := service.Preferences{
		MaxPriceEUR:      req.MaxPriceEUR,
		MaxDurationHours: req.MaxDurationHours,
	}
	results, err := h.preferences.SearchByPreferences(r.Context(), req.OriginAirportCode, req.DestinationAirportCode, date, prefs)
	if err != nil {
		log.Printf("[handler] preferences search: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}
