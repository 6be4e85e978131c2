package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/mira/skylink/internal/model"
)

func TestRankAlternatesStable(t *testing.T) {
	results := []model.RankedResult{
		{Airport: model.Airport{Code: "AAA"}, TotalCostEUR: 100, TotalMinutes: 120},
		{Airport: model.Airport{Code: "BBB"}, TotalCostEUR: 100, TotalMinutes: 120},
		{Airport: model.Airport{Code: "CCC"}, TotalCostEUR: 100, TotalMinutes: 90},
		{Airport: model.Airport{Code: "DDD"}, TotalCostEUR: 80, TotalMinutes: 200},
	}

	RankAlternates(results)

	wantOrder := []string{"DDD", "CCC", "AAA", "BBB"}
	for i, want := range wantOrder {
		if results[i].Airport.Code != want {
			t.Errorf("position %d = %s, want %s", i, results[i].Airport.Code, want)
		}
		if results[i].Rank != i+1 {
			t.Errorf("rank at %d = %d, want %d", i, results[i].Rank, i+1)
		}
	}
}

func TestRankConnectionsQualityBreaksTies(t *testing.T) {
	candidates := []model.ItineraryCandidate{
		{Kind: model.KindDirect, TotalCostEUR: 150, QualityScore: 10},
		{Kind: model.KindConnection, ViaCode: "BRU", TotalCostEUR: 120, QualityScore: 4},
		{Kind: model.KindConnection, ViaCode: "AMS", TotalCostEUR: 120, QualityScore: 9},
	}

	RankConnections(candidates)

	if candidates[0].ViaCode != "AMS" {
		t.Errorf("equal-cost tie must go to higher quality, got %s first", candidates[0].ViaCode)
	}
	if candidates[1].ViaCode != "BRU" {
		t.Errorf("position 2 = %s, want BRU", candidates[1].ViaCode)
	}
	if candidates[2].Kind != model.KindDirect {
		t.Errorf("most expensive candidate must rank last, got %s", candidates[2].Kind)
	}
}

func TestRunIndexedCoversAllSlots(t *testing.T) {
	const n = 37
	slots := make([]int32, n)
	var calls int32

	runIndexed(context.Background(), n, 4, func(ctx context.Context, i int) {
		atomic.AddInt32(&slots[i], 1)
		atomic.AddInt32(&calls, 1)
	})

	if calls != n {
		t.Fatalf("calls = %d, want %d", calls, n)
	}
	for i, c := range slots {
		if c != 1 {
			t.Errorf("slot %d visited %d times, want exactly once", i, c)
		}
	}
}

func TestRunIndexedDegenerateInputs(t *testing.T) {
	ran := false
	runIndexed(context.Background(), 0, 4, func(ctx context.Context, i int) { ran = true })
	if ran {
		t.Error("n=0 must not invoke fn")
	}

	var calls int32
	runIndexed(context.Background(), 3, 0, func(ctx context.Context, i int) {
		atomic.AddInt32(&calls, 1)
	})
	if calls != 3 {
		t.Errorf("workers=0 must clamp to 1 and still run all jobs, got %d", calls)
	}
}
