package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mira/skylink/config"
	"github.com/mira/skylink/internal/model"
)

// AirportLocator resolves an airport code to its coordinates. The live
// ground-transport lookup needs airport positions, which stay in the
// local reference data even when flights come from the live API.
type AirportLocator interface {
	GetByCode(ctx context.Context, code string) (*model.Airport, error)
}

// GroundSource supplies ground transport legs from the local dataset.
// Offer APIs carry no airport-to-airport ground legs, so the live
// provider keeps that reference data local even when flights are live.
type GroundSource interface {
	ListGroundTransport(ctx context.Context, fromAirportCode, toAirportCode, toAddress string) ([]model.GroundTransportLeg, error)
}

// AmadeusProvider serves flight candidates from the Flight Offers Search
// API and ground transport from a journey-planning client. External offer
// objects are mapped into the same Flight shape the local dataset uses, so
// the engine cannot tell the sources apart.
type AmadeusProvider struct {
	cfg       config.AmadeusConfig
	client    *http.Client
	tokens    *TokenCache
	ground    *NavitiaClient // nil when journeys are not configured
	locator   AirportLocator
	localLegs GroundSource // local dataset fallback for ground legs
}

// NewAmadeusProvider creates a live candidate provider. The token cache is
// injected so its refresh discipline is owned in one place; localLegs
// serves the ground transport the live APIs cannot.
func NewAmadeusProvider(cfg config.AmadeusConfig, tokens *TokenCache, ground *NavitiaClient, locator AirportLocator, localLegs GroundSource) *AmadeusProvider {
	return &AmadeusProvider{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.Timeout},
		tokens:    tokens,
		ground:    ground,
		locator:   locator,
		localLegs: localLegs,
	}
}

// Name implements CandidateProvider.
func (p *AmadeusProvider) Name() string { return "amadeus" }

// Configured implements CandidateProvider.
func (p *AmadeusProvider) Configured() bool { return p.cfg.Configured() }

// ─── Flights ────────────────────────────────────────────────

// offerResponse mirrors the slice of the Flight Offers Search payload the
// mapping needs; everything else is ignored.
type offerResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Price struct {
			Total string `json:"total"`
		} `json:"price"`
		Itineraries []struct {
			Duration string `json:"duration"` // ISO-8601, e.g. "PT2H10M"
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
				Operating   struct {
					CarrierCode string `json:"carrierCode"`
				} `json:"operating"`
				Departure struct {
					IATACode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IATACode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
	} `json:"data"`
}

// ListFlights implements CandidateProvider.
func (p *AmadeusProvider) ListFlights(ctx context.Context, originCode, destinationCode string, date time.Time) ([]model.Flight, error) {
	if !p.Configured() {
		return nil, ErrSourceUnavailable
	}

	token, err := p.tokens.Token(ctx)
	if err != nil {
		log.Printf("[provider] amadeus token: %v", err)
		return nil, ErrSourceUnavailable
	}

	params := url.Values{
		"originLocationCode":      {truncCode(originCode)},
		"destinationLocationCode": {truncCode(destinationCode)},
		"departureDate":           {date.Format("2006-01-02")},
		"adults":                  {"1"},
	}

	endpoint := p.cfg.BaseURL + "/v2/shopping/flight-offers?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build offers request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[provider] amadeus offers %s→%s: %v", originCode, destinationCode, err)
		return nil, ErrSourceUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[provider] amadeus offers %s→%s: status %d", originCode, destinationCode, resp.StatusCode)
		return nil, ErrSourceUnavailable
	}

	var body offerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("[provider] amadeus decode: %v", err)
		return nil, ErrSourceUnavailable
	}

	flights := make([]model.Flight, 0, len(body.Data))
	for _, offer := range body.Data {
		if len(offer.Itineraries) == 0 {
			continue
		}
		it := offer.Itineraries[0]
		if len(it.Segments) == 0 {
			continue
		}
		seg0 := it.Segments[0]
		segN := it.Segments[len(it.Segments)-1]

		price, _ := strconv.ParseFloat(offer.Price.Total, 64)

		// First operating carrier code, falling back to marketing carrier.
		airline := seg0.Operating.CarrierCode
		if airline == "" {
			airline = seg0.CarrierCode
		}

		number := seg0.Number
		if number == "" && len(offer.ID) > 0 {
			number = offer.ID
			if len(number) > 6 {
				number = number[:6]
			}
		}

		dep, _ := time.Parse("2006-01-02T15:04:05", seg0.Departure.At)
		arr, _ := time.Parse("2006-01-02T15:04:05", segN.Arrival.At)

		flights = append(flights, model.Flight{
			ID:              offer.ID,
			FlightNumber:    number,
			Airline:         airline,
			OriginCode:      truncCode(originCode),
			DestinationCode: truncCode(destinationCode),
			DepartureTime:   dep,
			ArrivalTime:     arr,
			PriceEUR:        price,
			DurationMinutes: ParseISODurationMinutes(it.Duration),
		})
	}

	return flights, nil
}

// ListFlightsAfter implements CandidateProvider. The offers API is keyed
// by calendar date, so the instant's date and the following date are both
// queried and filtered; a second leg departing just past midnight must
// still surface. A failed next-day lookup degrades to same-day results.
func (p *AmadeusProvider) ListFlightsAfter(ctx context.Context, originCode, destinationCode string, notBefore time.Time) ([]model.Flight, error) {
	sameDay, err := p.ListFlights(ctx, originCode, destinationCode, notBefore)
	if err != nil {
		return nil, err
	}

	nextDay, err := p.ListFlights(ctx, originCode, destinationCode, notBefore.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("[provider] amadeus next-day offers %s→%s: %v", originCode, destinationCode, err)
		nextDay = nil
	}

	flights := make([]model.Flight, 0, len(sameDay)+len(nextDay))
	for _, f := range append(sameDay, nextDay...) {
		if !f.DepartureTime.Before(notBefore) {
			flights = append(flights, f)
		}
	}
	return flights, nil
}

// ListGroundTransport implements CandidateProvider. Street-address
// journeys come from the live journey planner when it is configured;
// airport-to-airport legs and full enumeration stay on the local dataset,
// which owns that reference data.
func (p *AmadeusProvider) ListGroundTransport(ctx context.Context, fromAirportCode, toAirportCode, toAddress string) ([]model.GroundTransportLeg, error) {
	if toAddress != "" && toAirportCode == "" && p.ground != nil && p.ground.Configured() {
		return p.ground.Journeys(ctx, p.locator, fromAirportCode, "", toAddress)
	}
	if p.localLegs != nil {
		return p.localLegs.ListGroundTransport(ctx, fromAirportCode, toAirportCode, toAddress)
	}
	return nil, nil
}

// ─── Helpers ────────────────────────────────────────────────

// ParseISODurationMinutes parses an ISO-8601 duration (e.g. "PT2H10M")
// into whole minutes. Malformed input yields 0 rather than an error: a
// missing duration must not discard an otherwise usable offer.
func ParseISODurationMinutes(s string) int {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "PT")

	minutes := 0
	acc := ""
	for _, c := range s {
		switch {
		case c == 'H':
			if n, err := strconv.Atoi(acc); err == nil {
				minutes += 60 * n
			}
			acc = ""
		case c == 'M':
			if n, err := strconv.Atoi(acc); err == nil {
				minutes += n
			}
			acc = ""
		case c >= '0' && c <= '9':
			acc += string(c)
		default:
			acc = ""
		}
	}
	return minutes
}

func truncCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) > 3 {
		return code[:3]
	}
	return code
}
