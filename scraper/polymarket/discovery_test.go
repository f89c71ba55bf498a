package polymarket

import (
	"testing"
	"time"

	"github.com/gca01/pm-price-ss/utils"
)

func easternLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(utils.ReferenceTimezone)
	if err != nil {
		t.Fatalf("load reference timezone: %v", err)
	}
	return loc
}

func TestParseListingDate(t *testing.T) {
	loc := easternLocation(t)
	now := time.Date(2025, 12, 7, 15, 0, 0, 0, loc)

	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Today", "2025-12-07", false},
		{"", "2025-12-07", false},
		{"Tomorrow", "2025-12-08", false},
		{"Sun, December 7", "2025-12-07", false},
		{"Mon, December 8", "2025-12-08", false},
		{"what even is this", "", true},
	}

	for _, tt := range tests {
		got, err := parseListingDate(tt.header, now)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseListingDate(%q) expected error, got %v", tt.header, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseListingDate(%q) unexpected error: %v", tt.header, err)
			continue
		}
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("parseListingDate(%q) = %s, want %s", tt.header, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestParseListingDateYearRollover(t *testing.T) {
	loc := easternLocation(t)

	// Late December looking at an early-January header.
	now := time.Date(2025, 12, 30, 12, 0, 0, 0, loc)
	got, err := parseListingDate("Fri, January 2", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2026 {
		t.Errorf("January header seen from December resolved to year %d, want 2026", got.Year())
	}

	// Early January looking at a late-December header.
	now = time.Date(2026, 1, 2, 12, 0, 0, 0, loc)
	got, err = parseListingDate("Tue, December 30", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 {
		t.Errorf("December header seen from January resolved to year %d, want 2025", got.Year())
	}
}

func TestBuildGameInfo(t *testing.T) {
	loc := easternLocation(t)
	now := time.Date(2025, 12, 7, 15, 0, 0, 0, loc)

	row := listingRow{
		Away:     "SAC",
		Home:     "IND",
		TimeText: "7:30 PM",
		DateText: "Sun, December 7",
		Href:     "https://polymarket.com/event/nba-sac-ind",
	}

	game, err := buildGameInfo(row, now)
	if err != nil {
		t.Fatalf("buildGameInfo: %v", err)
	}
	if game.GameDate != "2025-12-07" {
		t.Errorf("GameDate = %q, want 2025-12-07", game.GameDate)
	}
	if game.GameID() != "2025-12-07_IND_SAC" {
		t.Errorf("GameID = %q, want 2025-12-07_IND_SAC", game.GameID())
	}
	want := time.Date(2025, 12, 7, 19, 30, 0, 0, loc)
	if !game.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want %v", game.StartTime, want)
	}
	if game.DetailURL != row.Href {
		t.Errorf("DetailURL = %q, want %q", game.DetailURL, row.Href)
	}
}

func TestBuildGameInfoRejectsMissingTokens(t *testing.T) {
	loc := easternLocation(t)
	now := time.Date(2025, 12, 7, 15, 0, 0, 0, loc)

	if _, err := buildGameInfo(listingRow{Home: "IND"}, now); err == nil {
		t.Error("expected error for missing away token")
	}
}

func TestResolveGamesFiltersToTodayAndDeduplicates(t *testing.T) {
	loc := easternLocation(t)
	now := time.Date(2025, 12, 7, 15, 0, 0, 0, loc)
	s := &Scraper{
		logger: utils.NewLogger(),
		clock:  utils.NewFrozenClock(now, loc),
	}

	rows := []listingRow{
		{Away: "SAC", Home: "IND", TimeText: "7:30 PM", DateText: "Today", Href: "u1"},
		{Away: "SAC", Home: "IND", TimeText: "7:30 PM", DateText: "Today", Href: "u1"},   // duplicate
		{Away: "BOS", Home: "NY", TimeText: "1:00 PM", DateText: "Mon, December 8"},      // tomorrow
		{Away: "LAL", Home: "DEN", TimeText: "11:30 PM", DateText: "Sun, December 7"},    // late tip, still today
		{Away: "", Home: "MIA", TimeText: "6:00 PM", DateText: "Today"},                  // unparseable
	}

	games := s.resolveGames(rows)
	if len(games) != 2 {
		t.Fatalf("resolveGames returned %d games, want 2", len(games))
	}
	if games[0].GameID() != "2025-12-07_IND_SAC" {
		t.Errorf("first game = %s", games[0].GameID())
	}
	if games[1].GameID() != "2025-12-07_DEN_LAL" {
		t.Errorf("second game = %s", games[1].GameID())
	}
}
