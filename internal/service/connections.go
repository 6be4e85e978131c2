package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/mira/skylink/config"
	"github.com/mira/skylink/internal/model"
	"github.com/mira/skylink/internal/provider"
	"github.com/mira/skylink/internal/repository"
)

// directQuality is the connection quality of a nonstop itinerary: there
// is no layover to degrade.
const directQuality = 10.0

// ─── ConnectionService ──────────────────────────────────────

// ConnectionService enumerates multi-modal itineraries between two
// airports on a date: direct flights, one-stop connections, and pairs of
// flights linked by a train between two nearby airports.
//
// Algorithm:
//
//  1. DIRECT: one candidate per nonstop flight.
//  2. CONNECT: per intermediate airport (pool bounded by
//     MaxIntermediates), the earliest first leg origin→I on the date is
//     paired with the earliest second leg I→destination departing at
//     least MinConnectionBuffer after the first leg's arrival. Only that
//     one first leg is considered per intermediate; later departures
//     through the same airport are not enumerated. The second leg is not
//     bound to the calendar date, so an overnight connection whose second
//     leg departs just after midnight is still found.
//  3. TRAIN LINK: train legs from I to a different airport J, paired with
//     the earliest flight J→destination. Qualifies only when the layover
//     sits in [MinConnectionBuffer, MaxLayoverHours×60] and the train
//     plus buffer fits inside it. A train is never substituted for a
//     same-airport connection.
//  4. RANK: ascending by total cost, quality descending as tie-break.
//
// Per-intermediate evaluation is fanned out over the bounded worker pool;
// results are collected into indexed slots and sorted only after the join.
type ConnectionService struct {
	airports AirportSource
	source   provider.CandidateProvider
	cfg      config.EngineConfig
}

// NewConnectionService wires the multi-modal connection builder.
func NewConnectionService(airports AirportSource, source provider.CandidateProvider, cfg config.EngineConfig) *ConnectionService {
	return &ConnectionService{airports: airports, source: source, cfg: cfg}
}

// FindMultiModalConnections returns ranked itinerary candidates between
// two airports on a date. Fails with ErrAirportNotFound when either code
// is unknown; an empty slice is a valid answer.
func (s *ConnectionService) FindMultiModalConnections(ctx context.Context, originCode, destinationCode string, date time.Time) ([]model.ItineraryCandidate, error) {
	originCode = strings.ToUpper(strings.TrimSpace(originCode))
	destinationCode = strings.ToUpper(strings.TrimSpace(destinationCode))

	if _, err := s.getAirport(ctx, originCode); err != nil {
		return nil, err
	}
	if _, err := s.getAirport(ctx, destinationCode); err != nil {
		return nil, err
	}

	candidates := make([]model.ItineraryCandidate, 0, 8)

	// ── Step 1: Direct flights ──────────────────────────
	direct, err := s.source.ListFlights(ctx, originCode, destinationCode, date)
	if err != nil {
		log.Printf("[connections] %s: direct %s→%s unavailable: %v",
			s.source.Name(), originCode, destinationCode, err)
	}
	for i := range direct {
		f := direct[i]
		candidates = append(candidates, model.ItineraryCandidate{
			Kind:         model.KindDirect,
			Flight:       &f,
			TotalCostEUR: f.PriceEUR,
			TotalMinutes: f.DurationMinutes,
			QualityScore: directQuality,
		})
	}

	// ── Step 2+3: Bounded intermediate evaluation ───────
	intermediates, err := s.intermediatePool(ctx, originCode, destinationCode)
	if err != nil {
		return nil, err
	}

	perIntermediate := make([][]model.ItineraryCandidate, len(intermediates))
	runIndexed(ctx, len(intermediates), s.cfg.Workers, func(ctx context.Context, i int) {
		perIntermediate[i] = s.buildVia(ctx, originCode, destinationCode, date, intermediates[i])
	})

	for _, batch := range perIntermediate {
		candidates = append(candidates, batch...)
	}

	// ── Step 4: Rank ────────────────────────────────────
	RankConnections(candidates)

	log.Printf("[connections] %s→%s on %s: %d candidates (%d direct, %d intermediates evaluated)",
		originCode, destinationCode, date.Format("2006-01-02"), len(candidates), len(direct), len(intermediates))

	return candidates, nil
}

// intermediatePool returns up to MaxIntermediates airports excluding the
// endpoints. The cutoff trades completeness for latency: connections
// through airports past it are never discovered.
func (s *ConnectionService) intermediatePool(ctx context.Context, originCode, destinationCode string) ([]model.Airport, error) {
	all, err := s.airports.List(ctx)
	if err != nil {
		return nil, err
	}

	limit := s.cfg.MaxIntermediates
	if limit <= 0 {
		limit = 20
	}

	pool := make([]model.Airport, 0, limit)
	for _, a := range all {
		if a.Code == originCode || a.Code == destinationCode {
			continue
		}
		pool = append(pool, a)
		if len(pool) == limit {
			break
		}
	}
	return pool, nil
}

// buildVia builds the connection and train-link candidates through one
// intermediate airport. Source failures are absorbed as zero candidates.
func (s *ConnectionService) buildVia(ctx context.Context, originCode, destinationCode string, date time.Time, via model.Airport) []model.ItineraryCandidate {
	buffer := time.Duration(s.cfg.MinConnectionBufferMinutes) * time.Minute
	maxLayover := s.cfg.MaxLayoverHours * 60

	firstLegs, err := s.source.ListFlights(ctx, originCode, via.Code, date)
	if err != nil {
		log.Printf("[connections] %s: flights %s→%s unavailable: %v",
			s.source.Name(), originCode, via.Code, err)
		return nil
	}
	if len(firstLegs) == 0 {
		return nil
	}

	// Only the earliest first leg is paired; the source's ordering is not
	// guaranteed, so scan for it.
	first := firstLegs[0]
	for _, f := range firstLegs[1:] {
		if f.DepartureTime.Before(first.DepartureTime) {
			first = f
		}
	}
	earliestSecond := first.ArrivalTime.Add(buffer)

	out := make([]model.ItineraryCandidate, 0, 2)

	// ── Same-airport connection ─────────────────────────
	if second := s.earliestFlight(ctx, via.Code, destinationCode, earliestSecond); second != nil {
		layover := minutesBetween(first.ArrivalTime, second.DepartureTime)
		f1, f2 := first, *second
		out = append(out, model.ItineraryCandidate{
			Kind:           model.KindConnection,
			Flight1:        &f1,
			Flight2:        &f2,
			ViaCode:        via.Code,
			LayoverMinutes: layover,
			TotalCostEUR:   f1.PriceEUR + f2.PriceEUR,
			TotalMinutes:   f1.DurationMinutes + f2.DurationMinutes + layover,
			QualityScore:   LayoverQuality(via, layover),
		})
	}

	// ── Train links to nearby airports ──────────────────
	// Trains only matter when the second leg departs a different airport;
	// a same-airport connection is never train-substituted.
	legs, err := s.source.ListGroundTransport(ctx, via.Code, "", "")
	if err != nil {
		log.Printf("[connections] %s: transport from %s unavailable: %v",
			s.source.Name(), via.Code, err)
		return out
	}

	for i := range legs {
		train := legs[i]
		if train.Type != model.TransportTrain || train.ToAirportCode == "" || train.ToAirportCode == via.Code {
			continue
		}

		second := s.earliestFlight(ctx, train.ToAirportCode, destinationCode, earliestSecond)
		if second == nil {
			continue
		}

		layover := minutesBetween(first.ArrivalTime, second.DepartureTime)
		if layover < s.cfg.MinConnectionBufferMinutes || layover > maxLayover {
			continue
		}
		if train.DurationMinutes+s.cfg.MinConnectionBufferMinutes > layover {
			continue
		}

		f1, f2 := first, *second
		out = append(out, model.ItineraryCandidate{
			Kind:           model.KindTrainLink,
			Flight1:        &f1,
			Flight2:        &f2,
			Train:          &train,
			ViaCode:        via.Code,
			LayoverMinutes: layover,
			TotalCostEUR:   f1.PriceEUR + f2.PriceEUR + train.CostEUR,
			TotalMinutes:   f1.DurationMinutes + f2.DurationMinutes + train.DurationMinutes,
			QualityScore:   LayoverQuality(via, train.DurationMinutes),
		})
	}

	return out
}

// earliestFlight returns the first flight on the route departing at or
// after the given instant, or nil. Deliberately not calendar-bound: a
// second leg departing after midnight still connects.
func (s *ConnectionService) earliestFlight(ctx context.Context, originCode, destinationCode string, notBefore time.Time) *model.Flight {
	flights, err := s.source.ListFlightsAfter(ctx, originCode, destinationCode, notBefore)
	if err != nil {
		log.Printf("[connections] %s: flights %s→%s unavailable: %v",
			s.source.Name(), originCode, destinationCode, err)
		return nil
	}

	var best *model.Flight
	for i := range flights {
		f := flights[i]
		if f.DepartureTime.Before(notBefore) {
			continue
		}
		if best == nil || f.DepartureTime.Before(best.DepartureTime) {
			best = &f
		}
	}
	return best
}

func (s *ConnectionService) getAirport(ctx context.Context, code string) (*model.Airport, error) {
	airport, err := s.airports.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAirportNotFound
		}
		return nil, err
	}
	return airport, nil
}

func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}
