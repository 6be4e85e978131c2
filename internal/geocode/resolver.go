// Package geocode resolves free-form destination text into coordinates.
//
// Resolution order: a bare 3-letter airport code resolves against the
// local airport data (no network), anything else goes to the geocoder. A
// Redis read-through cache sits in front of the geocoder so repeated
// searches for the same destination cost one lookup per TTL.
package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/mira/skylink/internal/model"
	"github.com/mira/skylink/internal/repository"
)

// ErrUnresolved means the destination text could not be turned into
// coordinates. Fatal to the search that needed it.
var ErrUnresolved = errors.New("destination unresolved")

// Resolver turns destination text into a WGS-84 point.
type Resolver interface {
	Resolve(ctx context.Context, text string) (model.Location, error)
}

// AirportStore is the slice of the airport repository the fast path needs.
type AirportStore interface {
	GetByCode(ctx context.Context, code string) (*model.Airport, error)
}

// CodeFirstResolver tries the airport-code fast path before delegating to
// a geocoder. "LHR" must never hit the network.
type CodeFirstResolver struct {
	airports AirportStore
	next     Resolver
}

// NewCodeFirstResolver chains the airport fast path in front of next.
func NewCodeFirstResolver(airports AirportStore, next Resolver) *CodeFirstResolver {
	return &CodeFirstResolver{airports: airports, next: next}
}

// Resolve implements Resolver.
func (r *CodeFirstResolver) Resolve(ctx context.Context, text string) (model.Location, error) {
	trimmed := strings.TrimSpace(text)
	if looksLikeAirportCode(trimmed) {
		airport, err := r.airports.GetByCode(ctx, strings.ToUpper(trimmed))
		if err == nil {
			return airport.Location, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return model.Location{}, err
		}
		// Unknown code: fall through to the geocoder — "AMS" might
		// still be a resolvable place name.
	}

	if r.next == nil {
		return model.Location{}, ErrUnresolved
	}
	return r.next.Resolve(ctx, trimmed)
}

func looksLikeAirportCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
