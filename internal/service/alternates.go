package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/mira/skylink/config"
	"github.com/mira/skylink/internal/geocode"
	"github.com/mira/skylink/internal/model"
	"github.com/mira/skylink/internal/provider"
	"github.com/mira/skylink/internal/repository"
	"github.com/mira/skylink/pkg/geo"
)

// ─── Errors ─────────────────────────────────────────────────

var (
	// ErrOriginNotFound means the caller supplied an unknown origin
	// airport code. Fatal to the request.
	ErrOriginNotFound = errors.New("origin airport not found")

	// ErrAirportNotFound means an origin or destination airport code is
	// unknown. Fatal to the request.
	ErrAirportNotFound = errors.New("airport not found")

	// ErrDestinationUnresolved means the destination text could not be
	// geocoded or matched to an airport. Fatal to the request.
	ErrDestinationUnresolved = errors.New("destination could not be resolved")
)

// Diagnostic hints attached to empty (but valid) result sets.
const (
	HintNoAirportsInRadius = "no airports within the search radius"
	HintNoFlights          = "no flights found for this date/route"
	HintLiveNotConfigured  = "live flight source not configured"
)

// AirportSource is the slice of the airport repository the engine needs.
type AirportSource interface {
	List(ctx context.Context) ([]model.Airport, error)
	GetByCode(ctx context.Context, code string) (*model.Airport, error)
}

// ─── AlternatesService ──────────────────────────────────────

// AlternatesService finds alternate airports near a final destination and
// prices the full trip: flight to the alternate plus ground transport
// onward.
//
// Pipeline per search:
//
//  1. RESOLVE: destination text → coordinates (airport-code fast path,
//     then geocoder). Failure here is fatal.
//  2. RADIUS: great-circle filter over all airports, ascending by
//     distance.
//  3. PRICE: per airport (fanned out over the worker pool), direct
//     flights origin→airport plus the best ground leg to the final
//     address. Source failures degrade to zero candidates.
//  4. RANK: ascending (total cost, total time), stable.
type AlternatesService struct {
	airports AirportSource
	source   provider.CandidateProvider
	resolver geocode.Resolver
	cfg      config.EngineConfig
}

// NewAlternatesService wires the alternate-airport search.
func NewAlternatesService(airports AirportSource, source provider.CandidateProvider, resolver geocode.Resolver, cfg config.EngineConfig) *AlternatesService {
	return &AlternatesService{airports: airports, source: source, resolver: resolver, cfg: cfg}
}

// AlternatesResponse is a full answer to an alternates search. An empty
// Results slice is a valid answer; Hint then says why it is empty.
type AlternatesResponse struct {
	Results []model.RankedResult `json:"results"`
	Hint    string               `json:"hint,omitempty"`
}

// FindAlternates searches airports within radiusKm of the resolved
// destination and prices one result per direct flight into each.
//
// Fatal errors: ErrOriginNotFound, ErrDestinationUnresolved. Candidate
// source failures are absorbed as zero candidates from that airport.
func (s *AlternatesService) FindAlternates(ctx context.Context, originCode, destinationText string, date time.Time, radiusKm float64) (*AlternatesResponse, error) {
	originCode = strings.ToUpper(strings.TrimSpace(originCode))
	if radiusKm <= 0 {
		radiusKm = s.cfg.DefaultRadiusKm
	}

	// ── Step 0: Validate the origin ─────────────────────
	if _, err := s.airports.GetByCode(ctx, originCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOriginNotFound
		}
		return nil, err
	}

	// ── Step 1: Resolve the destination ─────────────────
	point, err := s.resolver.Resolve(ctx, destinationText)
	if err != nil {
		if errors.Is(err, geocode.ErrUnresolved) {
			return nil, ErrDestinationUnresolved
		}
		return nil, err
	}

	// ── Step 2: Radius search ───────────────────────────
	all, err := s.airports.List(ctx)
	if err != nil {
		return nil, err
	}
	nearby := geo.FindWithinRadius(point, radiusKm, all)

	log.Printf("[alternates] %s → %q: %d airports within %.0f km",
		originCode, destinationText, len(nearby), radiusKm)

	if len(nearby) == 0 {
		return &AlternatesResponse{Results: []model.RankedResult{}, Hint: HintNoAirportsInRadius}, nil
	}

	// ── Step 3: Price each alternate (bounded fan-out) ──
	// Indexed slots keep discovery order deterministic across runs.
	perAirport := make([][]model.RankedResult, len(nearby))

	runIndexed(ctx, len(nearby), s.cfg.Workers, func(ctx context.Context, i int) {
		perAirport[i] = s.priceAirport(ctx, originCode, destinationText, date, nearby[i])
	})

	results := make([]model.RankedResult, 0, len(nearby))
	for _, batch := range perAirport {
		results = append(results, batch...)
	}

	// ── Step 4: Rank ────────────────────────────────────
	RankAlternates(results)

	resp := &AlternatesResponse{Results: results}
	if len(results) == 0 {
		resp.Hint = HintNoFlights
		if !s.source.Configured() {
			resp.Hint = HintLiveNotConfigured
		}
	}
	return resp, nil
}

// priceAirport builds one RankedResult per direct flight into a candidate
// airport. Candidate source failures are logged and absorbed: one dead
// source must not kill the whole search.
func (s *AlternatesService) priceAirport(ctx context.Context, originCode, destinationText string, date time.Time, ad geo.AirportDistance) []model.RankedResult {
	flights, err := s.source.ListFlights(ctx, originCode, ad.Airport.Code, date)
	if err != nil {
		log.Printf("[alternates] %s: flights %s→%s unavailable: %v",
			s.source.Name(), originCode, ad.Airport.Code, err)
		return nil
	}
	if len(flights) == 0 {
		return nil
	}

	transport, err := provider.BestGroundLeg(ctx, s.source, ad.Airport.Code, destinationText)
	if err != nil {
		log.Printf("[alternates] %s: transport from %s unavailable: %v",
			s.source.Name(), ad.Airport.Code, err)
		transport = nil
	}

	groundCost, groundMinutes := 0.0, 0
	if transport != nil {
		groundCost = transport.CostEUR
		groundMinutes = transport.DurationMinutes
	}

	results := make([]model.RankedResult, 0, len(flights))
	for _, f := range flights {
		results = append(results, model.RankedResult{
			Flight:          f,
			GroundTransport: transport,
			Airport:         ad.Airport,
			DistanceKm:      ad.DistanceKm,
			TotalCostEUR:    f.PriceEUR + groundCost,
			TotalMinutes:    f.DurationMinutes + groundMinutes,
			FlightCostEUR:   f.PriceEUR,
			GroundCostEUR:   groundCost,
		})
	}
	return results
}
