package polymarket

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/gca01/pm-price-ss/config"
	"github.com/gca01/pm-price-ss/models"
	"github.com/gca01/pm-price-ss/services"
	"github.com/gca01/pm-price-ss/storage"
	"github.com/gca01/pm-price-ss/utils"
)

// Scraper owns the single browser session for a run and sequences
// discovery → per-game navigation/capture/parse → persistence. Games are
// processed strictly one at a time: the session is shared and the site is
// rate-limited on purpose.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	clock  *utils.Clock
	parser *services.PriceParser
	shots  *storage.ScreenshotStore
	writer storage.RecordWriter
	retry  *utils.RetryConfig

	dryRun   bool
	maxGames int

	stopRequested atomic.Bool

	// process runs the full per-game pipeline; swapped out in tests so the
	// orchestration loop can run without a browser.
	process func(ctx context.Context, game *models.GameInfo) models.GameResult
}

// Options are the run-scoped toggles from the CLI.
type Options struct {
	// DryRun validates the full pipeline but writes neither rows nor images.
	DryRun bool
	// MaxGames caps how many discovered games are processed; 0 means all.
	MaxGames int
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger, clock *utils.Clock,
	writer storage.RecordWriter, opts Options) *Scraper {

	s := &Scraper{
		cfg:    cfg,
		logger: logger,
		clock:  clock,
		parser: services.NewPriceParser(logger),
		shots:  storage.NewScreenshotStore(cfg.ScreenshotsDir),
		writer: writer,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   cfg.RetryDelay,
			Logger:      logger,
		},
		dryRun:   opts.DryRun,
		maxGames: opts.MaxGames,
	}
	s.process = s.processGame
	return s
}

// RequestStop asks the run to finish the in-flight game and stop before
// starting the next one. Already-appended rows are left intact.
func (s *Scraper) RequestStop() {
	s.stopRequested.Store(true)
}

// Run executes one full scrape. Per-game errors are isolated into the
// summary; only discovery, browser-init, and persistence errors are fatal.
func (s *Scraper) Run(ctx context.Context) *models.RunSummary {
	summary := &models.RunSummary{}

	browserCtx, cleanup := newBrowserContext(ctx, s.cfg)
	defer cleanup()

	// Boots the browser and turns on the network event stream the readiness
	// detector listens to.
	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		summary.Fatal = append(summary.Fatal, fmt.Errorf("browser init: %w", err))
		return summary
	}

	if !s.dryRun {
		if err := s.shots.EnsureDir(s.clock.Now()); err != nil {
			summary.Fatal = append(summary.Fatal, err)
			return summary
		}
	}

	var games []*models.GameInfo
	err := s.retry.Do("discover-games", func() error {
		found, err := s.discoverToday(browserCtx)
		if err != nil {
			return err
		}
		games = found
		return nil
	})
	if err != nil {
		summary.Fatal = append(summary.Fatal, err)
		return summary
	}

	if len(games) == 0 {
		s.logger.Info("No games scheduled for today — nothing to do")
		return summary
	}

	if s.maxGames > 0 && len(games) > s.maxGames {
		s.logger.Info("Limiting run to the first %d of %d games", s.maxGames, len(games))
		games = games[:s.maxGames]
	}

	s.processAll(browserCtx, games, summary)
	return summary
}

// processAll iterates the game list sequentially. A game's failure or skip
// never propagates to its siblings; a persistence failure aborts the rest of
// the run because captured data would otherwise be lost silently.
func (s *Scraper) processAll(ctx context.Context, games []*models.GameInfo, summary *models.RunSummary) {
	for i, game := range games {
		if s.stopRequested.Load() {
			s.logger.Warn("Stop requested — %d of %d games left unprocessed", len(games)-i, len(games))
			return
		}

		s.logger.Info("--- Processing game %d/%d: %s ---", i+1, len(games), game)
		result := s.process(ctx, game)
		summary.Add(result)

		switch result.Outcome {
		case models.OutcomeProcessed:
			record := s.buildRecord(&result)
			if err := s.writer.Append(record); err != nil {
				summary.Fatal = append(summary.Fatal,
					fmt.Errorf("persist record for %s: %w", record.GameID, err))
				s.logger.Error("Persistence failed for %s — aborting run: %v", record.GameID, err)
				return
			}
			s.logger.Success("%s: %s=%.2f %s=%.2f",
				game, game.Home, result.Sample.HomePrice, game.Away, result.Sample.AwayPrice)
		case models.OutcomeSkipped:
			s.logger.Warn("%s skipped: %s", game, result.Reason)
		case models.OutcomeFailed:
			s.logger.Error("%s failed: %s", game, result.Reason)
		}

		if i < len(games)-1 {
			s.logger.Debug("Waiting %v before next game", s.cfg.RequestDelay)
			time.Sleep(s.cfg.RequestDelay)
		}
	}
}

// processGame runs the per-game pipeline: navigate to a rendered chart, read
// prices, capture the chart region.
func (s *Scraper) processGame(ctx context.Context, game *models.GameInfo) models.GameResult {
	result := models.GameResult{Game: game}

	state, err := s.navigate(ctx, game)
	if err != nil {
		if errors.Is(err, ErrNoMoneyline) {
			result.Outcome = models.OutcomeSkipped
			result.Reason = "no-moneyline"
		} else {
			result.Outcome = models.OutcomeFailed
			result.Reason = fmt.Sprintf("at %s: %v", state, err)
		}
		return result
	}

	texts, err := s.collectPriceTexts(ctx)
	if err != nil {
		result.Outcome = models.OutcomeFailed
		result.Reason = err.Error()
		return result
	}

	sample, err := s.parser.Sample(texts, game.Home, game.Away)
	if err != nil {
		// Unparseable prices are a skip: the market exists but its text did
		// not resolve to this game's teams.
		result.Outcome = models.OutcomeSkipped
		result.Reason = err.Error()
		return result
	}
	result.Sample = sample

	artifact, err := s.captureChart(ctx, game)
	if err != nil {
		result.Outcome = models.OutcomeFailed
		result.Reason = err.Error()
		return result
	}

	result.ScreenshotPath = artifact.Path
	result.Outcome = models.OutcomeProcessed
	return result
}

// buildRecord assembles the persisted row for a successfully processed game.
func (s *Scraper) buildRecord(result *models.GameResult) *models.PriceRecord {
	game := result.Game
	return &models.PriceRecord{
		Timestamp:      s.clock.ISO(),
		GameID:         game.GameID(),
		Home:           game.Home,
		Away:           game.Away,
		HomePrice:      result.Sample.HomePrice,
		AwayPrice:      result.Sample.AwayPrice,
		GameStart:      game.StartTime.Format("3:04 PM"),
		ScreenshotPath: result.ScreenshotPath,
	}
}
