// Package repository provides database access for the journey planning
// engine. Airports, flights, ground transport, and delay statistics are
// reference data maintained by external loaders; everything here is read-only.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mira/skylink/internal/model"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// AirportRepository provides read access to the airports table.
type AirportRepository struct {
	pool *pgxpool.Pool
}

// NewAirportRepository creates a new repository backed by the given PG pool.
func NewAirportRepository(pool *pgxpool.Pool) *AirportRepository {
	return &AirportRepository{pool: pool}
}

const airportColumns = `
	iata_code, icao_code, name, city, country,
	latitude, longitude,
	has_lounge, has_sleeping_pods, city_access_minutes, layover_quality_base
`

// List returns every airport, ordered by name.
func (r *AirportRepository) List(ctx context.Context) ([]model.Airport, error) {
	query := `SELECT ` + airportColumns + ` FROM airports ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list airports: %w", err)
	}
	defer rows.Close()

	airports := make([]model.Airport, 0, 128)
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan airport: %w", err)
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

// GetByCode fetches one airport by its 3-letter IATA code.
// Returns ErrNotFound when the code is unknown.
func (r *AirportRepository) GetByCode(ctx context.Context, code string) (*model.Airport, error) {
	query := `SELECT ` + airportColumns + ` FROM airports WHERE iata_code = $1`

	row := r.pool.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code)))
	a, err := scanAirport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get airport %q: %w", code, err)
	}
	return &a, nil
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAirport(row rowScanner) (model.Airport, error) {
	var a model.Airport
	err := row.Scan(
		&a.Code, &a.ICAOCode, &a.Name, &a.City, &a.Country,
		&a.Location.Lat, &a.Location.Lon,
		&a.HasLounge, &a.HasSleepingPods, &a.CityAccessMinutes, &a.LayoverQualityBase,
	)
	return a, err
}
