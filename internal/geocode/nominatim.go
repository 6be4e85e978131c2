package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mira/skylink/config"
	"github.com/mira/skylink/internal/model"
)

// NominatimResolver geocodes street addresses and place names through the
// Nominatim search API. One request per lookup, no retry: resolution
// failure is fatal to the search, so retrying would only delay the error.
type NominatimResolver struct {
	cfg    config.GeocoderConfig
	client *http.Client
}

// NewNominatimResolver creates a geocoder with the configured timeout.
func NewNominatimResolver(cfg config.GeocoderConfig) *NominatimResolver {
	return &NominatimResolver{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Resolve implements Resolver. Returns ErrUnresolved when the service
// answers with no candidates or cannot be reached.
func (r *NominatimResolver) Resolve(ctx context.Context, text string) (model.Location, error) {
	if text == "" {
		return model.Location{}, ErrUnresolved
	}

	params := url.Values{
		"q":      {text},
		"format": {"json"},
		"limit":  {"1"},
	}
	endpoint := r.cfg.BaseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Location{}, fmt.Errorf("build geocode request: %w", err)
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", ErrUnresolved, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Location{}, fmt.Errorf("%w: geocoder status %d", ErrUnresolved, resp.StatusCode)
	}

	var places []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return model.Location{}, fmt.Errorf("%w: decode: %v", ErrUnresolved, err)
	}
	if len(places) == 0 {
		return model.Location{}, ErrUnresolved
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return model.Location{}, ErrUnresolved
	}

	loc := model.Location{Lat: lat, Lon: lon}
	if !loc.Valid() {
		return model.Location{}, ErrUnresolved
	}
	return loc, nil
}
