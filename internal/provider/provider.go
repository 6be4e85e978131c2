// Package provider abstracts candidate sources for the journey planning
// engine. Flights and ground transport come either from the local dataset
// or from live quote APIs; the engine consumes both through one interface
// and must not depend on which is active.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/mira/skylink/internal/model"
)

// ErrSourceUnavailable marks a recoverable source failure (timeout, HTTP
// error, unusable credentials mid-flight). Callers absorb it as "zero
// candidates from this source" and keep searching.
var ErrSourceUnavailable = errors.New("candidate source unavailable")

// CandidateProvider yields flights and ground transport legs for the
// engine. Implementations own their timeouts; a failed or timed-out call
// returns ErrSourceUnavailable rather than a raw transport error.
type CandidateProvider interface {
	// Name identifies the source in logs and diagnostics.
	Name() string

	// Configured reports whether the source can serve at all. An
	// unconfigured live source yields the "live source not configured"
	// diagnostic instead of silent empty results.
	Configured() bool

	// ListFlights returns flights from origin to destination departing
	// on the given calendar date.
	ListFlights(ctx context.Context, originCode, destinationCode string, date time.Time) ([]model.Flight, error)

	// ListFlightsAfter returns flights from origin to destination
	// departing at or after the given instant, with no calendar-date
	// bound. Second legs of a connection use this: a leg departing just
	// after midnight is still a valid connection.
	ListFlightsAfter(ctx context.Context, originCode, destinationCode string, notBefore time.Time) ([]model.Flight, error)

	// ListGroundTransport returns ground legs departing fromAirportCode.
	// Exactly one of toAirportCode / toAddress narrows the search; both
	// empty means "anything departing this airport".
	ListGroundTransport(ctx context.Context, fromAirportCode, toAirportCode, toAddress string) ([]model.GroundTransportLeg, error)
}

// BestGroundLeg applies the engine's transport selection rule: prefer an
// exact destination-address match, else fall back to the first leg
// departing the airport. Returns nil when the airport has no legs at all.
func BestGroundLeg(ctx context.Context, p CandidateProvider, fromAirportCode, toAddress string) (*model.GroundTransportLeg, error) {
	if toAddress != "" {
		legs, err := p.ListGroundTransport(ctx, fromAirportCode, "", toAddress)
		if err != nil {
			return nil, err
		}
		if len(legs) > 0 {
			return &legs[0], nil
		}
	}

	legs, err := p.ListGroundTransport(ctx, fromAirportCode, "", "")
	if err != nil {
		return nil, err
	}
	if len(legs) == 0 {
		return nil, nil
	}
	return &legs[0], nil
}
