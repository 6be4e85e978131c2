package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mira/skylink/config"
	"github.com/mira/skylink/internal/model"
	"github.com/mira/skylink/internal/provider"
)

// ─── Match score weights ────────────────────────────────────

const (
	matchBase           = 100.0
	overBudgetPenalty   = 50.0
	underBudgetBonus    = 20.0
	overDurationPenalty = 30.0
	underDurationBonus  = 10.0
	matchScoreFloor     = 0.0
	matchScoreCeiling   = 100.0
)

// Preferences are the traveller's soft constraints. Zero values mean the
// constraint is not set and neither penalizes nor rewards.
type Preferences struct {
	MaxPriceEUR      float64 `json:"max_price_eur"`
	MaxDurationHours float64 `json:"max_duration_hours"`
}

// ScoredFlight is a flight annotated with how well it matches the
// traveller's preferences.
type ScoredFlight struct {
	Flight     model.Flight `json:"flight"`
	MatchScore float64      `json:"match_score"`
	Rank       int          `json:"rank"`
}

// MatchScore rates a flight against preferences on a 0-100 scale.
// Starting from 100, a flight over budget loses 50 points; under budget
// it gains up to 20 in proportion to the headroom. Duration works the
// same way with 30 and 10 point weights.
func MatchScore(f model.Flight, prefs Preferences) float64 {
	score := matchBase

	if prefs.MaxPriceEUR > 0 {
		if f.PriceEUR > prefs.MaxPriceEUR {
			score -= overBudgetPenalty
		} else {
			score += underBudgetBonus * (1 - f.PriceEUR/prefs.MaxPriceEUR)
		}
	}

	if prefs.MaxDurationHours > 0 {
		hours := float64(f.DurationMinutes) / 60.0
		if hours > prefs.MaxDurationHours {
			score -= overDurationPenalty
		} else {
			score += underDurationBonus * (1 - hours/prefs.MaxDurationHours)
		}
	}

	return clamp(score, matchScoreFloor, matchScoreCeiling)
}

// ─── PreferenceService ──────────────────────────────────────

// PreferenceService searches a route and returns the flights that best
// match the traveller's stated preferences, top-N by match score.
type PreferenceService struct {
	source provider.CandidateProvider
	cfg    config.EngineConfig
}

// NewPreferenceService wires the preference-driven search.
func NewPreferenceService(source provider.CandidateProvider, cfg config.EngineConfig) *PreferenceService {
	return &PreferenceService{source: source, cfg: cfg}
}

// SearchByPreferences scores every flight on the route for the date and
// returns the top results ranked by match score descending. Flights over
// both hard limits are still scored, never filtered: a poor match beats
// no answer.
func (s *PreferenceService) SearchByPreferences(ctx context.Context, originCode, destinationCode string, date time.Time, prefs Preferences) ([]ScoredFlight, error) {
	originCode = strings.ToUpper(strings.TrimSpace(originCode))
	destinationCode = strings.ToUpper(strings.TrimSpace(destinationCode))

	flights, err := s.source.ListFlights(ctx, originCode, destinationCode, date)
	if err != nil {
		log.Printf("[preferences] %s: flights %s→%s unavailable: %v",
			s.source.Name(), originCode, destinationCode, err)
		return []ScoredFlight{}, nil
	}

	scored := make([]ScoredFlight, 0, len(flights))
	for _, f := range flights {
		scored = append(scored, ScoredFlight{
			Flight:     f,
			MatchScore: MatchScore(f, prefs),
		})
	}

	RankByMatchScore(scored)

	limit := s.cfg.TopPreferenceResults
	if limit <= 0 {
		limit = 3
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
