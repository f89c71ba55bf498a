package models

import "testing"

func TestGameID(t *testing.T) {
	g := &GameInfo{Home: "IND", Away: "SAC", GameDate: "2025-12-07"}
	if got := g.GameID(); got != "2025-12-07_IND_SAC" {
		t.Errorf("GameID = %q, want 2025-12-07_IND_SAC", got)
	}
}

func TestGameIDUniqueWithinDay(t *testing.T) {
	a := &GameInfo{Home: "IND", Away: "SAC", GameDate: "2025-12-07"}
	b := &GameInfo{Home: "SAC", Away: "IND", GameDate: "2025-12-07"}
	c := &GameInfo{Home: "IND", Away: "SAC", GameDate: "2025-12-08"}

	if a.GameID() == b.GameID() {
		t.Error("swapped home/away must produce distinct game IDs")
	}
	if a.GameID() == c.GameID() {
		t.Error("same matchup on different dates must produce distinct game IDs")
	}
}

func TestRunSummaryCounters(t *testing.T) {
	var s RunSummary
	s.Add(GameResult{Outcome: OutcomeProcessed})
	s.Add(GameResult{Outcome: OutcomeSkipped, Reason: "no-moneyline"})
	s.Add(GameResult{Outcome: OutcomeSkipped, Reason: "price-parse"})
	s.Add(GameResult{Outcome: OutcomeFailed, Reason: "chart never rendered"})

	if s.Processed != 1 || s.Skipped != 2 || s.Failed != 1 {
		t.Errorf("counters = %d/%d/%d, want 1/2/1", s.Processed, s.Skipped, s.Failed)
	}
	if len(s.Results) != 4 {
		t.Errorf("results len = %d, want 4", len(s.Results))
	}
}
