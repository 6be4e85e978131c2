// Package model contains domain models for the journey planning engine.
// Airports, flights, and ground transport are read-only reference data
// loaded by external collaborators; the engine never mutates them.
package model

import (
	"fmt"
	"time"
)

// ─── Enums ──────────────────────────────────────────────────

// TransportType classifies a ground transport leg.
type TransportType string

const (
	TransportTrain   TransportType = "train"
	TransportBus     TransportType = "bus"
	TransportTaxi    TransportType = "taxi"
	TransportShuttle TransportType = "shuttle"
	TransportRental  TransportType = "rental"
)

// ItineraryKind tags the variants of ItineraryCandidate. Every consumer
// switches exhaustively on it; adding a kind must touch all switches.
type ItineraryKind string

const (
	KindDirect     ItineraryKind = "direct"
	KindConnection ItineraryKind = "connection"
	KindTrainLink  ItineraryKind = "train_link"
)

// Risk recommendation bands for self-transfer connections.
const (
	RecommendationSafe      = "Safe"
	RecommendationRisky     = "Risky"
	RecommendationVeryRisky = "Very Risky"
)

// ─── Location ───────────────────────────────────────────────

// Location represents a WGS-84 geographic point (EPSG:4326).
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point is within WGS-84 bounds.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// ─── Reference Data ─────────────────────────────────────────

// Airport maps to the `airports` table. Immutable reference data.
type Airport struct {
	Code               string   `json:"iata_code"` // 3-letter IATA code, unique.
	ICAOCode           string   `json:"icao_code"`
	Name               string   `json:"name"`
	City               string   `json:"city"`
	Country            string   `json:"country"`
	Location           Location `json:"location"`
	HasLounge          bool     `json:"has_lounge"`
	HasSleepingPods    bool     `json:"has_sleeping_pods"`
	CityAccessMinutes  int      `json:"city_access_minutes"`
	LayoverQualityBase float64  `json:"layover_quality_base"` // 0–10.
}

// Flight is a candidate fact: either a persisted row or a live offer
// mapped into the same shape. The engine treats both identically.
type Flight struct {
	ID               string    `json:"id"`
	FlightNumber     string    `json:"flight_number"`
	Airline          string    `json:"airline"`
	OriginCode       string    `json:"origin_code"`
	DestinationCode  string    `json:"destination_code"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	PriceEUR         float64   `json:"price_eur"`
	DurationMinutes  int       `json:"duration_minutes"`
	DelayProbability float64   `json:"delay_probability"` // Historical, 0–100.
	AvgDelayMinutes  int       `json:"avg_delay_minutes"`
}

// Route returns the "AAA-BBB" route key used by delay statistics.
func (f Flight) Route() string {
	return fmt.Sprintf("%s-%s", f.OriginCode, f.DestinationCode)
}

// GroundTransportLeg maps to the `ground_transport` table or a live
// journey result. Exactly one of ToAirportCode / ToAddress is meaningful.
type GroundTransportLeg struct {
	Name            string        `json:"name"`
	Type            TransportType `json:"type"`
	FromAirportCode string        `json:"from_airport_code"`
	ToAirportCode   string        `json:"to_airport_code,omitempty"`
	ToAddress       string        `json:"to_address,omitempty"`
	DurationMinutes int           `json:"duration_minutes"`
	CostEUR         float64       `json:"cost_eur"`
}

// ─── Itineraries ────────────────────────────────────────────

// ItineraryCandidate is the tagged sum type produced by the connection
// builder. Kind selects the variant:
//
//	direct      → Flight
//	connection  → Flight1, Flight2, ViaCode, LayoverMinutes
//	train_link  → Flight1, Flight2, Train, ViaCode, LayoverMinutes
type ItineraryCandidate struct {
	Kind ItineraryKind `json:"type"`

	Flight  *Flight             `json:"flight,omitempty"`
	Flight1 *Flight             `json:"flight1,omitempty"`
	Flight2 *Flight             `json:"flight2,omitempty"`
	Train   *GroundTransportLeg `json:"train,omitempty"`

	ViaCode        string `json:"via_airport_code,omitempty"`
	LayoverMinutes int    `json:"layover_minutes,omitempty"`

	// Derived totals, filled by the builder.
	TotalCostEUR float64 `json:"total_cost_eur"`
	TotalMinutes int     `json:"total_time_minutes"`
	QualityScore float64 `json:"connection_quality_score"` // 0–10.

	// Self-transfer fields. IsSelfTransfer is an opaque business fact
	// supplied by the caller, never derived from ticketing data here.
	IsSelfTransfer   bool    `json:"is_self_transfer,omitempty"`
	SelfTransferRisk float64 `json:"self_transfer_risk,omitempty"` // 0–100.
}

// FirstLeg returns the opening flight leg of any variant.
func (c *ItineraryCandidate) FirstLeg() *Flight {
	if c.Kind == KindDirect {
		return c.Flight
	}
	return c.Flight1
}

// SecondLeg returns the second flight leg, or nil for direct itineraries.
func (c *ItineraryCandidate) SecondLeg() *Flight {
	if c.Kind == KindDirect {
		return nil
	}
	return c.Flight2
}

// RankedResult is one nearest-alternate search hit: a flight into an
// alternate airport plus the ground leg onward to the final destination.
// Created per search, never persisted.
type RankedResult struct {
	Flight          Flight              `json:"flight"`
	GroundTransport *GroundTransportLeg `json:"ground_transport,omitempty"`
	Airport         Airport             `json:"airport"`
	DistanceKm      float64             `json:"distance_to_destination_km"`
	TotalCostEUR    float64             `json:"total_trip_cost_eur"`
	TotalMinutes    int                 `json:"total_trip_time_minutes"`
	FlightCostEUR   float64             `json:"flight_cost_eur"`
	GroundCostEUR   float64             `json:"ground_cost_eur"`
	Rank            int                 `json:"rank"`
}

// ─── Delay Statistics ───────────────────────────────────────

// DelayPrediction maps to the `delay_predictions` table: historical delay
// statistics keyed by (route, airline, day-of-week). DayOfWeek uses the
// data set's encoding, Monday=0 … Sunday=6.
type DelayPrediction struct {
	Route           string  `json:"route"` // e.g. "LHR-JFK"
	Airline         string  `json:"airline"`
	DayOfWeek       int     `json:"day_of_week"`
	Probability     float64 `json:"delay_probability"` // 0–100.
	AvgDelayMinutes int     `json:"avg_delay_minutes"`
	SampleSize      int     `json:"sample_size"` // 0 marks the default, not a measurement.
}

// DefaultDelayPrediction is returned when no historical row exists for a
// route/airline/day triple. SampleSize 0 lets callers tell a measured 15%
// apart from this default.
func DefaultDelayPrediction(route, airline string, dayOfWeek int) DelayPrediction {
	return DelayPrediction{
		Route:           route,
		Airline:         airline,
		DayOfWeek:       dayOfWeek,
		Probability:     15.0,
		AvgDelayMinutes: 30,
		SampleSize:      0,
	}
}

// DataDayOfWeek converts a time.Time to the delay data set's Monday=0
// encoding (time.Weekday is Sunday=0).
func DataDayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ─── Risk Assessment ────────────────────────────────────────

// RiskAssessment is the answer to a self-transfer safety check.
type RiskAssessment struct {
	IsSafe         bool    `json:"is_safe"`
	RiskPercentage float64 `json:"risk_percentage"` // 0–100.
	Recommendation string  `json:"recommendation"`
}
