package stats

import (
	"path/filepath"
	"testing"
	"time"
)

func testMatch(end time.Time) MatchResult {
	return MatchResult{
		StartedAt:  end.Add(-time.Minute),
		EndedAt:    end,
		SurvivorID: "a",
		Players: []PlayerResult{
			{PlayerID: "a", Name: "Alpha", SecondsSurvived: 60, LaserHits: 2, LivesLost: 1, LastSurvivor: true, Score: Score(60, 2, 1, true)},
			{PlayerID: "b", Name: "Beta", SecondsSurvived: 30, LaserHits: 0, LivesLost: 5, Score: Score(30, 0, 5, false)},
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadMatch(t *testing.T) {
	store := openTestStore(t)
	end := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	matchID, err := store.SaveMatch(testMatch(end))
	if err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	players, err := store.MatchPlayers(matchID)
	if err != nil {
		t.Fatalf("MatchPlayers: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("players = %d, want 2", len(players))
	}
	// Ordered best score first.
	if players[0].PlayerID != "a" || !players[0].LastSurvivor {
		t.Errorf("top row = %+v, want the survivor", players[0])
	}
	if players[1].LivesLost != 5 {
		t.Errorf("beta lives lost = %d, want 5", players[1].LivesLost)
	}
}

func TestLeaderboardAggregation(t *testing.T) {
	store := openTestStore(t)
	end := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := store.SaveMatch(testMatch(end.Add(time.Duration(i) * time.Hour))); err != nil {
			t.Fatalf("SaveMatch %d: %v", i, err)
		}
	}

	rows, err := store.Leaderboard(10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	top := rows[0]
	if top.Name != "Alpha" || top.Matches != 3 || top.Wins != 3 {
		t.Errorf("top = %+v, want Alpha with 3 matches and 3 wins", top)
	}
	if top.TotalScore <= rows[1].TotalScore {
		t.Error("leaderboard not sorted by total score")
	}
}
