package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mira/skylink/internal/model"
	"github.com/mira/skylink/internal/repository"
	"github.com/mira/skylink/pkg/geo"
)

// AirportHandler serves the airport reference data.
type AirportHandler struct {
	airports        *repository.AirportRepository
	defaultRadiusKm float64
}

// NewAirportHandler creates a handler over the airport repository.
func NewAirportHandler(airports *repository.AirportRepository, defaultRadiusKm float64) *AirportHandler {
	return &AirportHandler{airports: airports, defaultRadiusKm: defaultRadiusKm}
}

// ListAirports handles GET /api/v1/airports
func (h *AirportHandler) ListAirports(w http.ResponseWriter, r *http.Request) {
	airports, err := h.airports.List(r.Context())
	if err != nil {
		log.Printf("[handler] list airports: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"airports": airports,
		"count":    len(airports),
	})
}

// NearbyAirports handles GET /api/v1/airports/nearby?lat=..&lon=..&radius_km=..
//
// Returns airports within radius_km of the point, nearest first, with the
// great-circle distance to each.
func (h *AirportHandler) NearbyAirports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeBadRequest(w, "invalid lat: must be a number")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeBadRequest(w, "invalid lon: must be a number")
		return
	}
	point := model.Location{Lat: lat, Lon: lon}
	if !point.Valid() {
		writeBadRequest(w, "coordinates out of range")
		return
	}

	radiusKm := h.defaultRadiusKm
	if s := q.Get("radius_km"); s != "" {
		radiusKm, err = strconv.ParseFloat(s, 64)
		if err != nil || radiusKm <= 0 {
			writeBadRequest(w, "invalid radius_km: must be a positive number")
			return
		}
	}

	all, err := h.airports.List(r.Context())
	if err != nil {
		log.Printf("[handler] nearby airports: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}

	nearby := geo.FindWithinRadius(point, radiusKm, all)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"airports":  nearby,
		"count":     len(nearby),
		"radius_km": radiusKm,
	})
}

// GetAirport handles GET /api/v1/airports/{code}
func (h *AirportHandler) GetAirport(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])

	airport, err := h.airports.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "not_found",
				"message": "Airport not found.",
			})
			return
		}
		log.Printf("[handler] get airport %s: %v", code, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	writeJSON(w, http.StatusOK, airport)
}
