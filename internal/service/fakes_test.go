package service

import (
	"context"
	"time"

	"github.com/mira/skylink/config"
	"github.com/mira/skylink/internal/geocode"
	"github.com/mira/skylink/internal/model"
	"github.com/mira/skylink/internal/repository"
)

// ─── Test fixtures ──────────────────────────────────────────

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		DefaultRadiusKm:            100,
		MaxIntermediates:           20,
		MinConnectionBufferMinutes: 60,
		MaxLayoverHours:            6,
		Workers:                    4,
		TopPreferenceResults:       3,
	}
}

func testAirports() []model.Airport {
	return []model.Airport{
		{Code: "LHR", Name: "London Heathrow", City: "London", Country: "UK",
			Location:  model.Location{Lat: 51.4700, Lon: -0.4543},
			HasLounge: true, HasSleepingPods: true, CityAccessMinutes: 15, LayoverQualityBase: 8.0},
		{Code: "STN", Name: "London Stansted", City: "London", Country: "UK",
			Location:           model.Location{Lat: 51.8850, Lon: 0.2350},
			CityAccessMinutes:  50,
			LayoverQualityBase: 5.0},
		{Code: "BRU", Name: "Brussels Airport", City: "Brussels", Country: "Belgium",
			Location:  model.Location{Lat: 50.9010, Lon: 4.4844},
			HasLounge: true, CityAccessMinutes: 20, LayoverQualityBase: 7.0},
		{Code: "AMS", Name: "Amsterdam Schiphol", City: "Amsterdam", Country: "Netherlands",
			Location:  model.Location{Lat: 52.3105, Lon: 4.7683},
			HasLounge: true, HasSleepingPods: true, CityAccessMinutes: 17, LayoverQualityBase: 9.0},
		{Code: "CDG", Name: "Paris Charles de Gaulle", City: "Paris", Country: "France",
			Location:  model.Location{Lat: 49.0097, Lon: 2.5479},
			HasLounge: true, CityAccessMinutes: 35, LayoverQualityBase: 6.0},
		{Code: "MXP", Name: "Milan Malpensa", City: "Milan", Country: "Italy",
			Location:           model.Location{Lat: 45.6306, Lon: 8.7281},
			CityAccessMinutes:  50,
			LayoverQualityBase: 6.0},
	}
}

func testDate() time.Time {
	// A Wednesday.
	return time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
}

func flightAt(origin, dest string, dep time.Time, durationMinutes int, price float64) model.Flight {
	return model.Flight{
		ID:              origin + "-" + dest + "-" + dep.Format("1504"),
		FlightNumber:    "SK" + dep.Format("1504"),
		Airline:         "SK",
		OriginCode:      origin,
		DestinationCode: dest,
		DepartureTime:   dep,
		ArrivalTime:     dep.Add(time.Duration(durationMinutes) * time.Minute),
		PriceEUR:        price,
		DurationMinutes: durationMinutes,
	}
}

// ─── Fakes ──────────────────────────────────────────────────

// fakeAirports is an in-memory AirportSource.
type fakeAirports struct {
	airports []model.Airport
}

func (f *fakeAirports) List(ctx context.Context) ([]model.Airport, error) {
	return f.airports, nil
}

func (f *fakeAirports) GetByCode(ctx context.Context, code string) (*model.Airport, error) {
	for i := range f.airports {
		if f.airports[i].Code == code {
			a := f.airports[i]
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeProvider is an in-memory CandidateProvider keyed by route and
// departure airport.
type fakeProvider struct {
	name       string
	configured bool
	flights    map[string][]model.Flight             // "LHR>BRU"
	transport  map[string][]model.GroundTransportLeg // departure airport
	flightErr  error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		name:       "fake",
		configured: true,
		flights:    map[string][]model.Flight{},
		transport:  map[string][]model.GroundTransportLeg{},
	}
}

func (f *fakeProvider) addFlight(fl model.Flight) {
	key := fl.OriginCode + ">" + fl.DestinationCode
	f.flights[key] = append(f.flights[key], fl)
}

func (f *fakeProvider) addTransport(leg model.GroundTransportLeg) {
	f.transport[leg.FromAirportCode] = append(f.transport[leg.FromAirportCode], leg)
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) ListFlights(ctx context.Context, originCode, destinationCode string, date time.Time) ([]model.Flight, error) {
	if f.flightErr != nil {
		return nil, f.flightErr
	}
	var out []model.Flight
	for _, fl := range f.flights[originCode+">"+destinationCode] {
		if fl.DepartureTime.Format("2006-01-02") == date.Format("2006-01-02") {
			out = append(out, fl)
		}
	}
	return out, nil
}

func (f *fakeProvider) ListFlightsAfter(ctx context.Context, originCode, destinationCode string, notBefore time.Time) ([]model.Flight, error) {
	if f.flightErr != nil {
		return nil, f.flightErr
	}
	var out []model.Flight
	for _, fl := range f.flights[originCode+">"+destinationCode] {
		if !fl.DepartureTime.Before(notBefore) {
			out = append(out, fl)
		}
	}
	return out, nil
}

func (f *fakeProvider) ListGroundTransport(ctx context.Context, fromAirportCode, toAirportCode, toAddress string) ([]model.GroundTransportLeg, error) {
	var out []model.GroundTransportLeg
	for _, leg := range f.transport[fromAirportCode] {
		if toAirportCode != "" && leg.ToAirportCode != toAirportCode {
			continue
		}
		if toAddress != "" && leg.ToAddress != toAddress {
			continue
		}
		out = append(out, leg)
	}
	return out, nil
}

// fakeResolver resolves fixed strings to fixed points.
type fakeResolver struct {
	points map[string]model.Location
	err    error
}

func (f *fakeResolver) Resolve(ctx context.Context, text string) (model.Location, error) {
	if f.err != nil {
		return model.Location{}, f.err
	}
	if p, ok := f.points[text]; ok {
		return p, nil
	}
	return model.Location{}, geocode.ErrUnresolved
}

// fakeDelayStore returns canned delay statistics.
type fakeDelayStore struct {
	rows map[string]*model.DelayPrediction // "LHR-JFK/BA/0"
	err  error
}

func delayKey(route, airline string, day int) string {
	return route + "/" + airline + "/" + string(rune('0'+day))
}

func (f *fakeDelayStore) Get(ctx context.Context, route, airline string, dayOfWeek int) (*model.DelayPrediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[delayKey(route, airline, dayOfWeek)], nil
}
