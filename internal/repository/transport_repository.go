package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mira/skylink/internal/model"
)

// TransportRepository provides read access to the ground_transport table.
type TransportRepository struct {
	pool *pgxpool.Pool
}

// NewTransportRepository creates a new repository backed by the given PG pool.
func NewTransportRepository(pool *pgxpool.Pool) *TransportRepository {
	return &TransportRepository{pool: pool}
}

const transportColumns = `
	name, transport_type, from_airport_code,
	COALESCE(to_airport_code, ''), COALESCE(to_address, ''),
	duration_minutes, cost_eur
`

// ListFrom returns every ground transport leg departing an airport.
func (r *TransportRepository) ListFrom(ctx context.Context, fromCode string) ([]model.GroundTransportLeg, error) {
	query := `
		SELECT ` + transportColumns + `
		FROM ground_transport
		WHERE from_airport_code = $1
		ORDER BY cost_eur`

	rows, err := r.pool.Query(ctx, query, fromCode)
	if err != nil {
		return nil, fmt.Errorf("list transport from %s: %w", fromCode, err)
	}
	defer rows.Close()

	return collectLegs(rows)
}

// ListToAddress returns legs from an airport to an exact street address.
func (r *TransportRepository) ListToAddress(ctx context.Context, fromCode, address string) ([]model.GroundTransportLeg, error) {
	query := `
		SELECT ` + transportColumns + `
		FROM ground_transport
		WHERE from_airport_code = $1
		  AND to_address = $2
		ORDER BY cost_eur`

	rows, err := r.pool.Query(ctx, query, fromCode, strings.TrimSpace(address))
	if err != nil {
		return nil, fmt.Errorf("list transport from %s to address: %w", fromCode, err)
	}
	defer rows.Close()

	return collectLegs(rows)
}

// ListTrains returns train legs linking two airports.
func (r *TransportRepository) ListTrains(ctx context.Context, fromCode, toCode string) ([]model.GroundTransportLeg, error) {
	query := `
		SELECT ` + transportColumns + `
		FROM ground_transport
		WHERE from_airport_code = $1
		  AND to_airport_code = $2
		  AND transport_type = 'train'
		ORDER BY duration_minutes`

	rows, err := r.pool.Query(ctx, query, fromCode, toCode)
	if err != nil {
		return nil, fmt.Errorf("list trains %s→%s: %w", fromCode, toCode, err)
	}
	defer rows.Close()

	return collectLegs(rows)
}

func collectLegs(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]model.GroundTransportLeg, error) {
	legs := make([]model.GroundTransportLeg, 0, 4)
	for rows.Next() {
		var leg model.GroundTransportLeg
		err := rows.Scan(
			&leg.Name, &leg.Type, &leg.FromAirportCode,
			&leg.ToAirportCode, &leg.ToAddress,
			&leg.DurationMinutes, &leg.CostEUR,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transport leg: %w", err)
		}
		legs = append(legs, leg)
	}
	return legs, rows.Err()
}
