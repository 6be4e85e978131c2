package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mira/skylink/internal/model"
)

func TestLayoverQualityTimeBuckets(t *testing.T) {
	airport := model.Airport{Code: "TST", LayoverQualityBase: 5.0}

	cases := []struct {
		name    string
		layover int
		want    float64
	}{
		{"too short", 44, 2.0},
		{"exactly 45 escapes the penalty", 45, 5.0},
		{"below good window", 59, 5.0},
		{"good window start", 60, 7.0},
		{"good window end", 180, 7.0},
		{"just past good window", 181, 5.0},
		{"long but tolerable", 360, 5.0},
		{"too long", 361, 4.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LayoverQuality(airport, tc.layover); got != tc.want {
				t.Errorf("LayoverQuality(%d) = %v, want %v", tc.layover, got, tc.want)
			}
		})
	}
}

func TestLayoverQualityAmenities(t *testing.T) {
	base := model.Airport{Code: "TST", LayoverQualityBase: 4.0}
	plain := LayoverQuality(base, 120)

	lounge := base
	lounge.HasLounge = true
	if got := LayoverQuality(lounge, 120); got != plain+1.5 {
		t.Errorf("lounge bonus: got %v, want %v", got, plain+1.5)
	}

	pods := base
	pods.HasSleepingPods = true
	if got := LayoverQuality(pods, 120); got != plain+1.0 {
		t.Errorf("sleeping pods bonus: got %v, want %v", got, plain+1.0)
	}

	city := base
	city.CityAccessMinutes = 20
	if got := LayoverQuality(city, 120); got != plain {
		t.Errorf("city bonus must not apply at 120 min: got %v, want %v", got, plain)
	}
	// 200 min leaves the good window but unlocks the city visit.
	if got := LayoverQuality(city, 200); got != 5.0 {
		t.Errorf("city bonus at 200 min: got %v, want 5.0", got)
	}
}

func TestLayoverQualityClamped(t *testing.T) {
	loaded := model.Airport{
		Code: "AMS", LayoverQualityBase: 9.0,
		HasLounge: true, HasSleepingPods: true, CityAccessMinutes: 17,
	}
	if got := LayoverQuality(loaded, 120); got != 10.0 {
		t.Errorf("quality ceiling: got %v, want 10.0", got)
	}

	grim := model.Airport{Code: "GRM", LayoverQualityBase: 1.0}
	if got := LayoverQuality(grim, 30); got != 0.0 {
		t.Errorf("quality floor: got %v, want 0.0", got)
	}
}

func TestPredictDelayDefaults(t *testing.T) {
	dep := time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC) // Wednesday
	flight := flightAt("LHR", "JFK", dep, 480, 500)

	// No store wired at all.
	svc := NewRiskService(nil)
	got := svc.PredictDelay(context.Background(), &flight)
	if got.Probability != 15.0 || got.AvgDelayMinutes != 30 || got.SampleSize != 0 {
		t.Errorf("nil store default = %+v, want 15%%/30min/0 samples", got)
	}
	if got.DayOfWeek != 2 {
		t.Errorf("Wednesday should encode as day 2, got %d", got.DayOfWeek)
	}

	// Store errors degrade to the default too.
	svc = NewRiskService(&fakeDelayStore{err: errors.New("redis down")})
	got = svc.PredictDelay(context.Background(), &flight)
	if got.SampleSize != 0 || got.Probability != 15.0 {
		t.Errorf("store error default = %+v, want default prediction", got)
	}
}

func TestPredictDelayUsesStoredRow(t *testing.T) {
	dep := time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)
	flight := flightAt("LHR", "JFK", dep, 480, 500)

	store := &fakeDelayStore{rows: map[string]*model.DelayPrediction{
		delayKey("LHR-JFK", "SK", 2): {
			Route: "LHR-JFK", Airline: "SK", DayOfWeek: 2,
			Probability: 42.0, AvgDelayMinutes: 55, SampleSize: 120,
		},
	}}
	svc := NewRiskService(store)

	got := svc.PredictDelay(context.Background(), &flight)
	if got.Probability != 42.0 || got.AvgDelayMinutes != 55 || got.SampleSize != 120 {
		t.Errorf("stored row not used: got %+v", got)
	}
}

func selfTransferCandidate(layoverMinutes int) model.ItineraryCandidate {
	dep1 := time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC)
	f1 := flightAt("LHR", "BRU", dep1, 70, 90)
	f2 := flightAt("BRU", "CDG", f1.ArrivalTime.Add(time.Duration(layoverMinutes)*time.Minute), 60, 80)
	return model.ItineraryCandidate{
		Kind:           model.KindConnection,
		Flight1:        &f1,
		Flight2:        &f2,
		ViaCode:        "BRU",
		LayoverMinutes: layoverMinutes,
		IsSelfTransfer: true,
	}
}

func TestSelfTransferRiskZeroUnlessFlagged(t *testing.T) {
	svc := NewRiskService(nil)
	c := selfTransferCandidate(70)
	c.IsSelfTransfer = false
	if got := svc.SelfTransferRisk(context.Background(), &c); got != 0 {
		t.Errorf("unflagged connection must score 0, got %v", got)
	}
}

func TestSelfTransferRiskBuckets(t *testing.T) {
	// Default prediction everywhere: 15% probability, 30 min avg delay.
	// Leg weights contribute 15*0.5 + 15*0.3 = 12 in every case.
	svc := NewRiskService(nil)

	cases := []struct {
		name    string
		layover int
		want    float64
	}{
		// 40 (under 90) + 20 (avg 30 > 50/2) + 12
		{"tight", 50, 72.0},
		// 40 (under 90) + 12; avg 30 <= 80/2 so no extra penalty
		{"under 90", 80, 52.0},
		{"under 120", 100, 32.0},
		{"under 180", 150, 22.0},
		{"comfortable", 200, 12.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := selfTransferCandidate(tc.layover)
			if got := svc.SelfTransferRisk(context.Background(), &c); got != tc.want {
				t.Errorf("risk(layover=%d) = %v, want %v", tc.layover, got, tc.want)
			}
		})
	}
}

func TestSelfTransferRiskClampedAt100(t *testing.T) {
	store := &fakeDelayStore{rows: map[string]*model.DelayPrediction{
		delayKey("LHR-BRU", "SK", 2): {Probability: 100, AvgDelayMinutes: 90, SampleSize: 50},
		delayKey("BRU-CDG", "SK", 2): {Probability: 100, AvgDelayMinutes: 90, SampleSize: 50},
	}}
	svc := NewRiskService(store)

	c := selfTransferCandidate(50)
	if got := svc.SelfTransferRisk(context.Background(), &c); got != 100 {
		t.Errorf("risk must clamp at 100, got %v", got)
	}
}

func TestCheckSelfTransferBands(t *testing.T) {
	svc := NewRiskService(nil)

	cases := []struct {
		name     string
		layover  int
		wantRec  string
		wantSafe bool
	}{
		{"safe", 200, model.RecommendationSafe, true},
		{"risky", 100, model.RecommendationRisky, false},
		{"very risky", 50, model.RecommendationVeryRisky, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := selfTransferCandidate(tc.layover)
			got := svc.CheckSelfTransfer(context.Background(), &c)
			if got.Recommendation != tc.wantRec {
				t.Errorf("recommendation = %q, want %q", got.Recommendation, tc.wantRec)
			}
			if got.IsSafe != tc.wantSafe {
				t.Errorf("IsSafe = %v, want %v", got.IsSafe, tc.wantSafe)
			}
			if c.SelfTransferRisk != got.RiskPercentage {
				t.Errorf("candidate risk %v not synced with assessment %v", c.SelfTransferRisk, got.RiskPercentage)
			}
		})
	}
}
