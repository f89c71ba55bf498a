package models

import (
	"fmt"
	"time"
)

// GameInfo is the identity of a game discovered on the listing page. It is
// created once per run by discovery, never mutated, and not persisted as an
// entity — only its derived fields end up in PriceRecord rows.
type GameInfo struct {
	Home      string    // home team token as displayed, e.g. "IND"
	Away      string    // away team token, e.g. "SAC"
	StartTime time.Time // game start, reference timezone
	GameDate  string    // YYYY-MM-DD in the reference timezone
	DetailURL string    // locator for the game's detail view
}

// GameID is unique within one calendar day: "{gameDate}_{home}_{away}".
func (g *GameInfo) GameID() string {
	return fmt.Sprintf("%s_%s_%s", g.GameDate, g.Home, g.Away)
}

func (g *GameInfo) String() string {
	return fmt.Sprintf("%s @ %s (%s)", g.Away, g.Home, g.GameDate)
}

// PriceSample holds both teams' moneyline prices for one observation. Prices
// are implied probabilities in [0,1], matched to teams by token identity, not
// by on-screen position.
type PriceSample struct {
	Home      string
	Away      string
	HomePrice float64
	AwayPrice float64
}

// ScreenshotArtifact points at a captured chart image. Paths are deterministic
// given (away, home, capture instant) and are never overwritten.
type ScreenshotArtifact struct {
	Path       string
	CapturedAt time.Time
}

// PriceRecord is one persisted row of the tabular log. Rows are append-only:
// never mutated, reordered, or deduplicated.
type PriceRecord struct {
	Timestamp      string // ISO-8601, reference timezone
	GameID         string
	Home           string
	Away           string
	HomePrice      float64
	AwayPrice      float64
	GameStart      string // displayed start time, reference timezone
	ScreenshotPath string
}
