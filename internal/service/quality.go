// Package service contains the core journey planning engine: alternate
// airport search, multi-modal connection building, layover quality and
// self-transfer risk scoring, and result ranking.
package service

import (
	"context"
	"log"

	"github.com/mira/skylink/internal/model"
)

// ─── Layover Quality ────────────────────────────────────────

// Layover quality adjustments. The time adjustments are mutually
// exclusive buckets; amenity bonuses stack.
const (
	goodWindowBonus   = 2.0 // layover in [60, 180] minutes
	tooShortPenalty   = 3.0 // layover strictly below 45 minutes
	tooLongPenalty    = 1.0 // layover above 360 minutes
	loungeBonus       = 1.5
	sleepingPodsBonus = 1.0
	cityVisitBonus    = 1.0 // reachable city and >180 minutes to spend
)

// LayoverQuality scores how pleasant a layover of the given length is at
// an airport, on a 0–10 scale. Starts from the airport's base score, then
// applies the time bucket and amenity bonuses.
func LayoverQuality(airport model.Airport, layoverMinutes int) float64 {
	score := airport.LayoverQualityBase

	switch {
	case layoverMinutes >= 60 && layoverMinutes <= 180:
		score += goodWindowBonus
	case layoverMinutes < 45:
		score -= tooShortPenalty
	case layoverMinutes > 360:
		score -= tooLongPenalty
	}

	if airport.HasLounge {
		score += loungeBonus
	}
	if airport.HasSleepingPods {
		score += sleepingPodsBonus
	}
	if airport.CityAccessMinutes > 0 && layoverMinutes > 180 {
		score += cityVisitBonus
	}

	return clamp(score, 0, 10)
}

// ─── Self-Transfer Risk ─────────────────────────────────────

// Risk contributions by layover bucket, in percentage points.
const (
	riskLayoverUnder90  = 40.0
	riskLayoverUnder120 = 20.0
	riskLayoverUnder180 = 10.0

	riskFirstLegWeight  = 0.5
	riskSecondLegWeight = 0.3
	riskAvgDelayPenalty = 20.0 // first leg's avg delay exceeds half the layover
)

// Recommendation band thresholds.
const (
	riskSafeBelow  = 30.0
	riskRiskyBelow = 60.0
)

// DelayStore provides historical delay statistics. Nil result means no
// record exists for the triple; the scorer applies the documented default.
type DelayStore interface {
	Get(ctx context.Context, route, airline string, dayOfWeek int) (*model.DelayPrediction, error)
}

// RiskService estimates the risk of missing a self-arranged transfer.
type RiskService struct {
	delays DelayStore
}

// NewRiskService creates a risk scorer backed by the given delay store.
func NewRiskService(delays DelayStore) *RiskService {
	return &RiskService{delays: delays}
}

// PredictDelay returns the delay statistics for a flight's route, airline,
// and day of week. Missing records and store failures both degrade to the
// default prediction (15% / 30 min / sample size 0) — the zero sample size
// tells callers apart from a measured 15%.
func (s *RiskService) PredictDelay(ctx context.Context, f *model.Flight) model.DelayPrediction {
	route := f.Route()
	day := model.DataDayOfWeek(f.DepartureTime)

	if s.delays != nil {
		p, err := s.delays.Get(ctx, route, f.Airline, day)
		if err != nil {
			log.Printf("[risk] delay lookup %s/%s failed: %v — using default", route, f.Airline, err)
		} else if p != nil {
			return *p
		}
	}
	return model.DefaultDelayPrediction(route, f.Airline, day)
}

// SelfTransferRisk returns the risk percentage (0–100) of missing a
// self-arranged transfer. Zero for anything the caller has not flagged as
// a self-transfer: that flag is an opaque business fact about ticketing,
// never derived here.
func (s *RiskService) SelfTransferRisk(ctx context.Context, c *model.ItineraryCandidate) float64 {
	if !c.IsSelfTransfer {
		return 0
	}

	layover := c.LayoverMinutes
	risk := 0.0

	switch {
	case layover < 90:
		risk += riskLayoverUnder90
	case layover < 120:
		risk += riskLayoverUnder120
	case layover < 180:
		risk += riskLayoverUnder180
	}

	first := c.FirstLeg()
	if first != nil {
		delay := s.PredictDelay(ctx, first)
		risk += delay.Probability * riskFirstLegWeight
		if float64(delay.AvgDelayMinutes) > float64(layover)*0.5 {
			risk += riskAvgDelayPenalty
		}
	}

	if second := c.SecondLeg(); second != nil {
		delay := s.PredictDelay(ctx, second)
		risk += delay.Probability * riskSecondLegWeight
	}

	return clamp(risk, 0, 100)
}

// CheckSelfTransfer scores a connection and maps the risk into a
// recommendation band.
func (s *RiskService) CheckSelfTransfer(ctx context.Context, c *model.ItineraryCandidate) model.RiskAssessment {
	risk := s.SelfTransferRisk(ctx, c)
	c.SelfTransferRisk = risk

	recommendation := model.RecommendationVeryRisky
	switch {
	case risk < riskSafeBelow:
		recommendation = model.RecommendationSafe
	case risk < riskRiskyBelow:
		recommendation = model.RecommendationRisky
	}

	return model.RiskAssessment{
		IsSafe:         risk < riskSafeBelow,
		RiskPercentage: risk,
		Recommendation: recommendation,
	}
}

// ─── Helpers ────────────────────────────────────────────────

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
