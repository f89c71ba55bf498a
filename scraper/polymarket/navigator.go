package polymarket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/gca01/pm-price-ss/models"
	"github.com/gca01/pm-price-ss/utils"
)

// ErrNoMoneyline reports that a game has no moneyline market. This is an
// expected absence — markets are not guaranteed for every game — so it yields
// a skip, never a failure, and consumes no retry attempts.
var ErrNoMoneyline = errors.New("no moneyline market")

// hasMoneylineJS checks for a tab with exact text "Moneyline" without waiting:
// absence is an answer here, not a condition to poll for.
const hasMoneylineJS = `
	(function() {
		var walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT, null, false);
		while (walker.nextNode()) {
			if (walker.currentNode.textContent.trim() === 'Moneyline') return true;
		}
		return false;
	})()
`

// navigate drives one game's detail page through the UI pipeline:
//
//	Loaded → MoneylineSelected → GraphSelected → TimeframeSelected → Rendered
//
// Each transition is a bounded wait, retried on timeout up to the configured
// attempt count. The returned state is how far the pipeline got; on a nil
// error it is always StateRendered.
func (s *Scraper) navigate(ctx context.Context, game *models.GameInfo) (models.NavigationState, error) {
	state := models.StateLoaded

	if err := s.retry.Do("load-game-page", func() error {
		return s.openDetailPage(ctx, game)
	}); err != nil {
		return state, fmt.Errorf("load %s: %w", game.DetailURL, err)
	}
	s.logger.Debug("[navigator] %s: %s", game, state)

	// Moneyline absence is a first-class outcome, checked once without
	// retries. Everything after this point is a transient-UI failure when it
	// times out.
	if err := s.retry.Do("select-moneyline", func() error {
		var present bool
		evalCtx, cancel := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
		defer cancel()
		if err := chromedp.Run(evalCtx, chromedp.Evaluate(hasMoneylineJS, &present)); err != nil {
			return err
		}
		if !present {
			return utils.Permanent(ErrNoMoneyline)
		}
		return s.clickText(ctx, xpMoneylineTab)
	}); err != nil {
		return state, err
	}
	state = models.StateMoneylineSelected
	s.logger.Debug("[navigator] %s: %s", game, state)

	if err := s.retry.Do("select-graph", func() error {
		return s.clickText(ctx, xpGraphTab)
	}); err != nil {
		return state, err
	}
	state = models.StateGraphSelected
	s.logger.Debug("[navigator] %s: %s", game, state)

	if err := s.retry.Do("select-6h-timeframe", func() error {
		return s.clickText(ctx, xpTimeframe6H)
	}); err != nil {
		return state, err
	}
	state = models.StateTimeframeSelected
	s.logger.Debug("[navigator] %s: %s", game, state)

	if err := s.retry.Do("await-chart-render", func() error {
		return s.awaitRendered(ctx)
	}); err != nil {
		return state, err
	}
	state = models.StateRendered
	s.logger.Success("[navigator] %s: chart rendered", game)

	return state, nil
}

// openDetailPage navigates to the game's detail view and waits for page
// readiness plus network quiescence.
func (s *Scraper) openDetailPage(ctx context.Context, game *models.GameInfo) error {
	if game.DetailURL == "" {
		return utils.Permanent(errors.New("game has no detail URL"))
	}

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
	defer cancel()

	if err := chromedp.Run(navCtx,
		chromedp.Navigate(game.DetailURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}

	if err := waitNetworkIdle(ctx, s.cfg.NetworkQuiet, s.cfg.NetworkIdleWait); err != nil {
		return err
	}

	// Client-side routing keeps painting after the network settles.
	time.Sleep(tabActivationPause)
	return nil
}

// tabActivationPause absorbs tab-switch animations after a click lands.
const tabActivationPause = time.Second

// clickText clicks the first element matching a text-based XPath locator and
// gives the tab a moment to activate.
func (s *Scraper) clickText(ctx context.Context, xpath string) error {
	clickCtx, cancel := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
	defer cancel()

	if err := chromedp.Run(clickCtx,
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.Click(xpath, chromedp.BySearch),
	); err != nil {
		return fmt.Errorf("click %s: %w", xpath, err)
	}

	time.Sleep(tabActivationPause)
	return nil
}
