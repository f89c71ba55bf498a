package models

// NavigationState tracks one game's progress through the detail-page UI
// pipeline. It is owned exclusively by the navigator processing that game and
// is never shared across games.
type NavigationState int

const (
	StateLoaded NavigationState = iota
	StateMoneylineSelected
	StateGraphSelected
	StateTimeframeSelected
	StateRendered
	StateCaptured
)

func (s NavigationState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateMoneylineSelected:
		return "moneyline-selected"
	case StateGraphSelected:
		return "graph-selected"
	case StateTimeframeSelected:
		return "timeframe-selected"
	case StateRendered:
		return "rendered"
	case StateCaptured:
		return "captured"
	default:
		return "unknown"
	}
}

// Outcome classifies how processing one game ended.
type Outcome int

const (
	// OutcomeProcessed means the full pipeline succeeded and a row was appended.
	OutcomeProcessed Outcome = iota
	// OutcomeSkipped covers expected absences (no moneyline market) and
	// unparseable price text. Skips never count against failures.
	OutcomeSkipped
	// OutcomeFailed means a transient UI condition survived all retries.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// GameResult is the per-game outcome reported in the run summary.
type GameResult struct {
	Game           *GameInfo
	Outcome        Outcome
	Reason         string // populated for skips and failures
	Sample         *PriceSample
	ScreenshotPath string
}

// RunSummary aggregates one full run. Per-game errors are isolated into
// Results; only discovery and persistence errors land in Fatal.
type RunSummary struct {
	Processed int
	Skipped   int
	Failed    int
	Results   []GameResult
	Fatal     []error
}

// Add records a per-game result and bumps the matching counter.
func (s *RunSummary) Add(r GameResult) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeProcessed:
		s.Processed++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}
