package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/mira/skylink/config"
	"github.com/mira/skylink/internal/model"
)

// PointResolver turns a free-form destination into coordinates. Satisfied
// by the geocode package's resolvers.
type PointResolver interface {
	Resolve(ctx context.Context, text string) (model.Location, error)
}

// NavitiaClient fetches public-transport journeys between two points and
// maps them into train-type ground legs. It only covers the configured
// region; outside it, journeys simply return empty.
type NavitiaClient struct {
	cfg      config.NavitiaConfig
	client   *http.Client
	resolver PointResolver // resolves street addresses; may be nil
}

// NewNavitiaClient creates a journey-planning client.
func NewNavitiaClient(cfg config.NavitiaConfig, resolver PointResolver) *NavitiaClient {
	return &NavitiaClient{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		resolver: resolver,
	}
}

// Configured reports whether a journey token is set.
func (c *NavitiaClient) Configured() bool { return c.cfg.Configured() }

// journeyResponse mirrors the slice of the journeys payload the mapping
// needs.
type journeyResponse struct {
	Journeys []struct {
		Durations struct {
			Total int `json:"total"` // seconds
		} `json:"durations"`
		Fare struct {
			Total struct {
				Value string `json:"value"` // cents, as a string
			} `json:"total"`
		} `json:"fare"`
		Sections []struct {
			Type     string `json:"type"`
			Mode     string `json:"mode"`
			Duration int    `json:"duration"`
			PTInfo   struct {
				Name string `json:"name"`
			} `json:"pt_display_information"`
		} `json:"sections"`
	} `json:"journeys"`
}

// Journeys returns up to five public-transport legs from an airport to
// either another airport or a street address.
func (c *NavitiaClient) Journeys(ctx context.Context, locator AirportLocator, fromAirportCode, toAirportCode, toAddress string) ([]model.GroundTransportLeg, error) {
	from, err := locator.GetByCode(ctx, fromAirportCode)
	if err != nil {
		return nil, ErrSourceUnavailable
	}

	var to model.Location
	switch {
	case toAirportCode != "":
		airport, err := locator.GetByCode(ctx, toAirportCode)
		if err != nil {
			return nil, ErrSourceUnavailable
		}
		to = airport.Location
	case strings.TrimSpace(toAddress) != "" && c.resolver != nil:
		to, err = c.resolver.Resolve(ctx, toAddress)
		if err != nil {
			return nil, nil // unresolvable address: no legs from this source
		}
	default:
		return nil, nil
	}

	legs, err := c.fetchJourneys(ctx, from.Location, to)
	if err != nil {
		log.Printf("[provider] navitia journeys from %s: %v", fromAirportCode, err)
		return nil, ErrSourceUnavailable
	}

	for i := range legs {
		legs[i].FromAirportCode = fromAirportCode
		legs[i].ToAirportCode = toAirportCode
		legs[i].ToAddress = strings.TrimSpace(toAddress)
	}
	return legs, nil
}

func (c *NavitiaClient) fetchJourneys(ctx context.Context, from, to model.Location) ([]model.GroundTransportLeg, error) {
	// Journeys coordinates are longitude;latitude.
	params := url.Values{
		"from": {fmt.Sprintf("%f;%f", from.Lon, from.Lat)},
		"to":   {fmt.Sprintf("%f;%f", to.Lon, to.Lat)},
	}
	endpoint := fmt.Sprintf("%s/coverage/%s/journeys?%s", c.cfg.BaseURL, c.cfg.Region, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build journeys request: %w", err)
	}
	// Basic auth: username=token, password empty.
	req.SetBasicAuth(c.cfg.Token, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("journeys status %d", resp.StatusCode)
	}

	var body journeyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("journeys decode: %w", err)
	}

	legs := make([]model.GroundTransportLeg, 0, 5)
	for i, j := range body.Journeys {
		if i == 5 {
			break
		}

		durationSec := j.Durations.Total
		if durationSec == 0 {
			for _, sec := range j.Sections {
				durationSec += sec.Duration
			}
		}
		if durationSec <= 0 {
			continue
		}

		costEUR := 0.0
		if v, err := parseFareCents(j.Fare.Total.Value); err == nil {
			costEUR = v / 100.0
		}

		legs = append(legs, model.GroundTransportLeg{
			Name:            summarizeSections(body.Journeys[i].Sections),
			Type:            model.TransportTrain,
			DurationMinutes: (durationSec + 30) / 60,
			CostEUR:         costEUR,
		})
	}
	return legs, nil
}

func parseFareCents(v string) (float64, error) {
	var cents float64
	_, err := fmt.Sscanf(strings.TrimSpace(v), "%f", &cents)
	return cents, err
}

// summarizeSections builds a short label like "RER B + Walk".
func summarizeSections(sections []struct {
	Type     string `json:"type"`
	Mode     string `json:"mode"`
	Duration int    `json:"duration"`
	PTInfo   struct {
		Name string `json:"name"`
	} `json:"pt_display_information"`
}) string {
	parts := make([]string, 0, len(sections))
	for _, sec := range sections {
		switch strings.ToLower(sec.Type) {
		case "public_transport":
			name := sec.PTInfo.Name
			if name == "" {
				name = "Train"
			}
			parts = append(parts, name)
		case "street_network":
			if strings.EqualFold(sec.Mode, "walking") {
				parts = append(parts, "Walk")
			}
		}
	}
	if len(parts) == 0 {
		return "Public transport"
	}
	return strings.Join(parts, " + ")
}
