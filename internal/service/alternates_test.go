package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mira/skylink/internal/model"
)

// alternatesFixture wires a Milan→London search where Stansted beats
// Heathrow on total trip cost despite the longer ride into town.
func alternatesFixture() (*AlternatesService, *fakeProvider) {
	date := testDate()
	p := newFakeProvider()

	p.addFlight(flightAt("MXP", "STN", date.Add(7*time.Hour), 110, 120))
	p.addFlight(flightAt("MXP", "LHR", date.Add(8*time.Hour), 110, 350))

	p.addTransport(model.GroundTransportLeg{
		Name: "Stansted Express", Type: model.TransportTrain,
		FromAirportCode: "STN", ToAddress: "London",
		DurationMinutes: 45, CostEUR: 25,
	})
	p.addTransport(model.GroundTransportLeg{
		Name: "Heathrow Express", Type: model.TransportTrain,
		FromAirportCode: "LHR", ToAddress: "London",
		DurationMinutes: 20, CostEUR: 30,
	})

	resolver := &fakeResolver{points: map[string]model.Location{
		"London": {Lat: 51.5074, Lon: -0.1278},
		"Sydney": {Lat: -33.8688, Lon: 151.2093},
	}}
	airports := &fakeAirports{airports: testAirports()}
	return NewAlternatesService(airports, p, resolver, testEngineConfig()), p
}

func TestFindAlternates(t *testing.T) {
	svc, _ := alternatesFixture()

	resp, err := svc.FindAlternates(context.Background(), "MXP", "London", testDate(), 100)
	if err != nil {
		t.Fatalf("FindAlternates: %v", err)
	}
	if resp.Hint != "" {
		t.Errorf("unexpected hint %q on a populated result", resp.Hint)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(resp.Results), resp.Results)
	}

	// Cheaper flight into the farther airport wins on total cost.
	first := resp.Results[0]
	if first.Airport.Code != "STN" || first.TotalCostEUR != 145 {
		t.Errorf("rank 1 = %s €%.0f, want STN €145", first.Airport.Code, first.TotalCostEUR)
	}
	if first.TotalMinutes != 110+45 {
		t.Errorf("rank 1 total minutes = %d, want 155", first.TotalMinutes)
	}
	if first.GroundTransport == nil || first.GroundTransport.Name != "Stansted Express" {
		t.Errorf("rank 1 ground leg = %+v, want Stansted Express", first.GroundTransport)
	}
	if first.Rank != 1 {
		t.Errorf("rank field = %d, want 1", first.Rank)
	}

	second := resp.Results[1]
	if second.Airport.Code != "LHR" || second.TotalCostEUR != 380 {
		t.Errorf("rank 2 = %s €%.0f, want LHR €380", second.Airport.Code, second.TotalCostEUR)
	}
	if second.Rank != 2 {
		t.Errorf("rank field = %d, want 2", second.Rank)
	}
	if first.FlightCostEUR != 120 || first.GroundCostEUR != 25 {
		t.Errorf("cost breakdown = €%.0f + €%.0f, want 120 + 25", first.FlightCostEUR, first.GroundCostEUR)
	}
}

func TestFindAlternatesBreaksCostTiesOnTime(t *testing.T) {
	svc, p := alternatesFixture()

	// A second Stansted flight: same total cost, slower.
	slow := flightAt("MXP", "STN", testDate().Add(12*time.Hour), 150, 120)
	p.addFlight(slow)

	resp, err := svc.FindAlternates(context.Background(), "MXP", "London", testDate(), 100)
	if err != nil {
		t.Fatalf("FindAlternates: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}
	if resp.Results[0].TotalMinutes != 155 || resp.Results[1].TotalMinutes != 195 {
		t.Errorf("equal-cost results out of time order: %d then %d",
			resp.Results[0].TotalMinutes, resp.Results[1].TotalMinutes)
	}
}

func TestFindAlternatesWithoutGroundTransport(t *testing.T) {
	date := testDate()
	p := newFakeProvider()
	p.addFlight(flightAt("MXP", "STN", date.Add(7*time.Hour), 110, 120))

	resolver := &fakeResolver{points: map[string]model.Location{
		"London": {Lat: 51.5074, Lon: -0.1278},
	}}
	svc := NewAlternatesService(&fakeAirports{airports: testAirports()}, p, resolver, testEngineConfig())

	resp, err := svc.FindAlternates(context.Background(), "MXP", "London", date, 100)
	if err != nil {
		t.Fatalf("FindAlternates: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	got := resp.Results[0]
	if got.GroundTransport != nil {
		t.Errorf("expected no ground leg, got %+v", got.GroundTransport)
	}
	if got.TotalCostEUR != 120 || got.TotalMinutes != 110 {
		t.Errorf("flight-only totals = €%.0f / %d min, want 120 / 110", got.TotalCostEUR, got.TotalMinutes)
	}
}

func TestFindAlternatesUnknownOrigin(t *testing.T) {
	svc, _ := alternatesFixture()

	_, err := svc.FindAlternates(context.Background(), "XXX", "London", testDate(), 100)
	if !errors.Is(err, ErrOriginNotFound) {
		t.Errorf("err = %v, want ErrOriginNotFound", err)
	}
}

func TestFindAlternatesUnresolvedDestination(t *testing.T) {
	svc, _ := alternatesFixture()

	_, err := svc.FindAlternates(context.Background(), "MXP", "Atlantis-on-Sea", testDate(), 100)
	if !errors.Is(err, ErrDestinationUnresolved) {
		t.Errorf("err = %v, want ErrDestinationUnresolved", err)
	}
}

func TestFindAlternatesEmptyRadius(t *testing.T) {
	svc, _ := alternatesFixture()

	resp, err := svc.FindAlternates(context.Background(), "MXP", "Sydney", testDate(), 100)
	if err != nil {
		t.Fatalf("FindAlternates: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("expected no results near Sydney, got %d", len(resp.Results))
	}
	if resp.Hint != HintNoAirportsInRadius {
		t.Errorf("hint = %q, want %q", resp.Hint, HintNoAirportsInRadius)
	}
}

func TestFindAlternatesNoFlightsHint(t *testing.T) {
	date := testDate()
	p := newFakeProvider() // airports in range, zero flights
	resolver := &fakeResolver{points: map[string]model.Location{
		"London": {Lat: 51.5074, Lon: -0.1278},
	}}
	svc := NewAlternatesService(&fakeAirports{airports: testAirports()}, p, resolver, testEngineConfig())

	resp, err := svc.FindAlternates(context.Background(), "MXP", "London", date, 100)
	if err != nil {
		t.Fatalf("FindAlternates: %v", err)
	}
	if resp.Hint != HintNoFlights {
		t.Errorf("hint = %q, want %q", resp.Hint, HintNoFlights)
	}

	p.configured = false
	resp, err = svc.FindAlternates(context.Background(), "MXP", "London", date, 100)
	if err != nil {
		t.Fatalf("FindAlternates: %v", err)
	}
	if resp.Hint != HintLiveNotConfigured {
		t.Errorf("hint = %q, want %q", resp.Hint, HintLiveNotConfigured)
	}
}

func TestFindAlternatesDefaultRadius(t *testing.T) {
	svc, _ := alternatesFixture()

	// Radius 0 falls back to the configured default (100 km), which
	// still covers both London airports.
	resp, err := svc.FindAlternates(context.Background(), "MXP", "London", testDate(), 0)
	if err != nil {
		t.Fatalf("FindAlternates: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("default radius should find 2 results, got %d", len(resp.Results))
	}
}

func TestFindAlternatesAbsorbsSourceFailure(t *testing.T) {
	svc, p := alternatesFixture()
	p.flightErr = errors.New("upstream down")

	resp, err := svc.FindAlternates(context.Background(), "MXP", "London", testDate(), 100)
	if err != nil {
		t.Fatalf("source failure must not be fatal: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected zero results when the source is down, got %d", len(resp.Results))
	}
}

func TestFindAlternatesNormalizesOriginCode(t *testing.T) {
	svc, _ := alternatesFixture()

	resp, err := svc.FindAlternates(context.Background(), " mxp ", "London", testDate(), 100)
	if err != nil {
		t.Fatalf("FindAlternates: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("lowercase origin should normalize, got %d results", len(resp.Results))
	}
}
