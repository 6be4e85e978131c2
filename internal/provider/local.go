package provider

import (
	"context"
	"strings"
	"time"

	"github.com/mira/skylink/internal/model"
	"github.com/mira/skylink/internal/repository"
)

// LocalProvider serves candidates from the persisted dataset. It is always
// configured: an empty table is a valid (empty) answer, not a failure.
type LocalProvider struct {
	flights   *repository.FlightRepository
	transport *repository.TransportRepository
}

// NewLocalProvider creates a provider backed by the local repositories.
func NewLocalProvider(flights *repository.FlightRepository, transport *repository.TransportRepository) *LocalProvider {
	return &LocalProvider{flights: flights, transport: transport}
}

// Name implements CandidateProvider.
func (p *LocalProvider) Name() string { return "local" }

// Configured implements CandidateProvider.
func (p *LocalProvider) Configured() bool { return true }

// ListFlights implements CandidateProvider.
func (p *LocalProvider) ListFlights(ctx context.Context, originCode, destinationCode string, date time.Time) ([]model.Flight, error) {
	return p.flights.ListByRoute(ctx, originCode, destinationCode, date)
}

// ListFlightsAfter implements CandidateProvider.
func (p *LocalProvider) ListFlightsAfter(ctx context.Context, originCode, destinationCode string, notBefore time.Time) ([]model.Flight, error) {
	return p.flights.ListDepartingAfter(ctx, originCode, destinationCode, notBefore)
}

// ListGroundTransport implements CandidateProvider.
func (p *LocalProvider) ListGroundTransport(ctx context.Context, fromAirportCode, toAirportCode, toAddress string) ([]model.GroundTransportLeg, error) {
	switch {
	case toAirportCode != "":
		return p.transport.ListTrains(ctx, fromAirportCode, toAirportCode)
	case strings.TrimSpace(toAddress) != "":
		return p.transport.ListToAddress(ctx, fromAirportCode, toAddress)
	default:
		return p.transport.ListFrom(ctx, fromAirportCode)
	}
}
