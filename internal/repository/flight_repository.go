package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mira/skylink/internal/model"
)

// FlightRepository provides read access to the flights table.
type FlightRepository struct {
	pool *pgxpool.Pool
}

// NewFlightRepository creates a new repository backed by the given PG pool.
func NewFlightRepository(pool *pgxpool.Pool) *FlightRepository {
	return &FlightRepository{pool: pool}
}

const flightColumns = `
	id, flight_number, airline, origin_code, destination_code,
	departure_time, arrival_time, price_eur, duration_minutes,
	historical_delay_probability, avg_delay_minutes
`

// ListByRoute returns flights for a route departing on the given calendar
// date, ordered by departure time.
func (r *FlightRepository) ListByRoute(ctx context.Context, originCode, destCode string, date time.Time) ([]model.Flight, error) {
	query := `
		SELECT ` + flightColumns + `
		FROM flights
		WHERE origin_code = $1
		  AND destination_code = $2
		  AND departure_time::date = $3::date
		ORDER BY departure_time`

	rows, err := r.pool.Query(ctx, query, originCode, destCode, date)
	if err != nil {
		return nil, fmt.Errorf("list flights %s→%s: %w", originCode, destCode, err)
	}
	defer rows.Close()

	return collectFlights(rows)
}

// ListDepartingAfter returns flights for a route departing at or after the
// given instant, ordered by departure time. Used for second legs, where the
// constraint is "no earlier than arrival plus the connection buffer" rather
// than a calendar date — a second leg may depart after midnight.
func (r *FlightRepository) ListDepartingAfter(ctx context.Context, originCode, destCode string, after time.Time) ([]model.Flight, error) {
	query := `
		SELECT ` + flightColumns + `
		FROM flights
		WHERE origin_code = $1
		  AND destination_code = $2
		  AND departure_time >= $3
		ORDER BY departure_time`

	rows, err := r.pool.Query(ctx, query, originCode, destCode, after)
	if err != nil {
		return nil, fmt.Errorf("list flights %s→%s after %s: %w",
			originCode, destCode, after.Format(time.RFC3339), err)
	}
	defer rows.Close()

	return collectFlights(rows)
}

func collectFlights(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]model.Flight, error) {
	flights := make([]model.Flight, 0, 8)
	for rows.Next() {
		var f model.Flight
		err := rows.Scan(
			&f.ID, &f.FlightNumber, &f.Airline, &f.OriginCode, &f.DestinationCode,
			&f.DepartureTime, &f.ArrivalTime, &f.PriceEUR, &f.DurationMinutes,
			&f.DelayProbability, &f.AvgDelayMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}
