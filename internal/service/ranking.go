package service

import (
	"sort"

	"github.com/mira/skylink/internal/model"
)

// All sorts here are stable: equal keys preserve discovery order from the
// builders, so identical searches over unchanged data produce identical
// ordered result lists.

// RankAlternates orders nearest-alternate results ascending by
// (total cost, total time) lexicographically and assigns 1-based ranks.
func RankAlternates(results []model.RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].TotalCostEUR != results[j].TotalCostEUR {
			return results[i].TotalCostEUR < results[j].TotalCostEUR
		}
		return results[i].TotalMinutes < results[j].TotalMinutes
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

// RankConnections orders multi-modal itineraries ascending by total cost,
// with higher connection quality breaking ties.
func RankConnections(candidates []model.ItineraryCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TotalCostEUR != candidates[j].TotalCostEUR {
			return candidates[i].TotalCostEUR < candidates[j].TotalCostEUR
		}
		return candidates[i].QualityScore > candidates[j].QualityScore
	})
}

// RankByMatchScore orders preference-scored flights descending by match
// score and assigns 1-based ranks.
func RankByMatchScore(flights []ScoredFlight) {
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].MatchScore > flights[j].MatchScore
	})
	for i := range flights {
		flights[i].Rank = i + 1
	}
}
