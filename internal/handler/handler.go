// Package handler contains HTTP request handlers for the journey planning API.
package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// dateLayout is the wire format for travel dates.
const dateLayout = "2006-01-02"

// writeJSON is a helper that writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeBadRequest writes a 400 with a short reason.
func writeBadRequest(w http.ResponseWriter, reason string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": reason})
}

// parseDate parses the wire date format, defaulting to today when empty.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, s)
}
