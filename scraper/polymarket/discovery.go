package polymarket

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/gca01/pm-price-ss/models"
)

// ErrListingNotReady reports that the games listing never reached structural
// readiness. It is fatal for the run: no games can be known without it.
var ErrListingNotReady = errors.New("games listing not ready")

// listingRow is the raw per-game data lifted out of the listing page.
type listingRow struct {
	Away     string `json:"away"`
	Home     string `json:"home"`
	TimeText string `json:"timeText"` // e.g. "7:30 PM"
	DateText string `json:"dateText"` // e.g. "Sun, December 7", "Today", or ""
	Href     string `json:"href"`
}

// countGameViewsJS counts rendered game rows by their "Game View" label.
const countGameViewsJS = `
	(function() {
		var count = 0;
		var walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT, null, false);
		while (walker.nextNode()) {
			if (walker.currentNode.textContent.trim() === 'Game View') count++;
		}
		return count;
	})()
`

// extractGamesJS walks every "Game View" label up to its game-row container —
// recognized by holding exactly two moneyline price buttons — and lifts out
// team tokens, the displayed start time, the nearest preceding date header,
// and the row's detail link. Row containers carry generated class names, so
// everything here keys off visible text.
const extractGamesJS = `
	(function() {
		var rows = [];

		var dateRe = /^(Today|Tomorrow|[A-Za-z]{3},\s+[A-Za-z]+\s+\d{1,2})$/;
		var headers = [];
		var candidates = document.querySelectorAll('p, h2, h3');
		for (var i = 0; i < candidates.length; i++) {
			var t = (candidates[i].innerText || '').trim();
			if (dateRe.test(t)) headers.push(candidates[i]);
		}
		function dateFor(el) {
			var best = '';
			for (var i = 0; i < headers.length; i++) {
				var pos = headers[i].compareDocumentPosition(el);
				if (pos & Node.DOCUMENT_POSITION_FOLLOWING) {
					best = headers[i].innerText.trim();
				}
			}
			return best;
		}

		var gameViews = [];
		var walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT, null, false);
		while (walker.nextNode()) {
			if (walker.currentNode.textContent.trim() === 'Game View') {
				gameViews.push(walker.currentNode.parentElement);
			}
		}

		for (var g = 0; g < gameViews.length; g++) {
			var container = gameViews[g];
			for (var depth = 0; depth < 20 && container; depth++) {
				container = container.parentElement;
				if (!container) break;

				// Moneyline buttons read like "SAC39¢"; spread buttons carry
				// +/- and do not match. A real game row has exactly two.
				var buttons = container.querySelectorAll('button');
				var tokens = [];
				for (var b = 0; b < buttons.length; b++) {
					var text = (buttons[b].innerText || '').replace(/\s+/g, '');
					var m = text.match(/^([A-Z]{2,3})(\d+)¢$/);
					if (m) tokens.push(m[1]);
				}
				if (tokens.length !== 2) continue;

				var timeMatch = container.innerText.match(/(\d{1,2}:\d{2}\s*(?:AM|PM))/i);
				var link = container.querySelector('a[href*="/event/"]') ||
				           container.closest('a') ||
				           container.querySelector('a[href]');

				// First token in the row is the away side.
				rows.push({
					away: tokens[0],
					home: tokens[1],
					timeText: timeMatch ? timeMatch[1] : '',
					dateText: dateFor(container),
					href: link ? link.href : ''
				});
				break;
			}
		}

		return rows;
	})()
`

// discoverToday loads the listing page and returns today's games in page
// order. An empty result is a graceful no-op, never an error.
func (s *Scraper) discoverToday(ctx context.Context) ([]*models.GameInfo, error) {
	s.logger.Info("[discovery] Navigating to %s", s.cfg.GamesURL)

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
	defer cancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(s.cfg.GamesURL)); err != nil {
		return nil, fmt.Errorf("%w: navigate: %v", ErrListingNotReady, err)
	}

	if err := s.awaitListingReady(ctx); err != nil {
		return nil, err
	}

	var rows []listingRow
	evalCtx, cancelEval := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
	defer cancelEval()
	if err := chromedp.Run(evalCtx, chromedp.Evaluate(extractGamesJS, &rows)); err != nil {
		return nil, fmt.Errorf("%w: extract rows: %v", ErrListingNotReady, err)
	}

	s.logger.Info("[discovery] Found %d game rows on the page", len(rows))
	return s.resolveGames(rows), nil
}

// resolveGames turns raw listing rows into today's unique games, in page
// order. Rows on other dates, rows that fail to parse, and duplicate game IDs
// are dropped.
func (s *Scraper) resolveGames(rows []listingRow) []*models.GameInfo {
	now := s.clock.Now()
	today := s.clock.TodayDate()
	seen := make(map[string]struct{})
	var games []*models.GameInfo

	for _, row := range rows {
		game, err := buildGameInfo(row, now)
		if err != nil {
			s.logger.Warn("[discovery] Dropping row %s @ %s: %v", row.Away, row.Home, err)
			continue
		}
		if game.GameDate != today {
			s.logger.Debug("[discovery] %s is on %s, not today — skipping", game, game.GameDate)
			continue
		}
		if _, dup := seen[game.GameID()]; dup {
			continue
		}
		seen[game.GameID()] = struct{}{}
		games = append(games, game)
		s.logger.Success("[discovery] Found game: %s", game)
	}

	return games
}

// awaitListingReady blocks until the virtualized list is structurally ready:
// the list marker is attached, the network has quiesced, and the game-row
// count is stable across two successive observations. The count check guards
// against capturing a partially populated virtualized list.
func (s *Scraper) awaitListingReady(ctx context.Context) error {
	readyCtx, cancel := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
	defer cancel()

	if err := chromedp.Run(readyCtx, chromedp.WaitReady(selVirtuosoList, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("%w: list marker: %v", ErrListingNotReady, err)
	}

	if err := waitNetworkIdle(ctx, s.cfg.NetworkQuiet, s.cfg.NetworkIdleWait); err != nil {
		return fmt.Errorf("%w: %v", ErrListingNotReady, err)
	}

	prev := -1
	for {
		var count int
		if err := chromedp.Run(readyCtx, chromedp.Evaluate(countGameViewsJS, &count)); err != nil {
			return fmt.Errorf("%w: count rows: %v", ErrListingNotReady, err)
		}
		if count == prev {
			s.logger.Debug("[discovery] Row count stable at %d", count)
			return nil
		}
		prev = count

		select {
		case <-readyCtx.Done():
			return fmt.Errorf("%w: row count never stabilized", ErrListingNotReady)
		case <-time.After(s.cfg.ListStablePoll):
		}
	}
}

// buildGameInfo resolves a raw listing row into a GameInfo with its start
// instant in the reference timezone. now anchors year inference and supplies
// the location.
func buildGameInfo(row listingRow, now time.Time) (*models.GameInfo, error) {
	if row.Away == "" || row.Home == "" {
		return nil, errors.New("missing team token")
	}

	date, err := parseListingDate(row.DateText, now)
	if err != nil {
		return nil, err
	}

	start := date
	if row.TimeText != "" {
		clock, err := time.Parse("3:04 PM", strings.ToUpper(strings.TrimSpace(row.TimeText)))
		if err != nil {
			return nil, fmt.Errorf("parse start time %q: %w", row.TimeText, err)
		}
		start = time.Date(date.Year(), date.Month(), date.Day(),
			clock.Hour(), clock.Minute(), 0, 0, now.Location())
	}

	return &models.GameInfo{
		Home:      row.Home,
		Away:      row.Away,
		StartTime: start,
		GameDate:  date.Format("2006-01-02"),
		DetailURL: row.Href,
	}, nil
}

// parseListingDate turns a listing date header into a calendar date in now's
// location. An empty header means the row sat above the first dated section,
// which the site only does for today's games.
func parseListingDate(header string, now time.Time) (time.Time, error) {
	header = strings.TrimSpace(header)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch header {
	case "", "Today":
		return today, nil
	case "Tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	// "Sun, December 7" — drop the weekday, parse month and day.
	if i := strings.Index(header, ","); i >= 0 {
		header = strings.TrimSpace(header[i+1:])
	}
	parsed, err := time.Parse("January 2", header)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date header %q: %w", header, err)
	}

	// The header has no year. Use the current one, with a rollover rule for
	// the December/January boundary.
	year := now.Year()
	if parsed.Month() == time.January && now.Month() == time.December {
		year++
	} else if parsed.Month() == time.December && now.Month() == time.January {
		year--
	}

	return time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location()), nil
}
