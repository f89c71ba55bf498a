package polymarket

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/gca01/pm-price-ss/models"
)

// extractPriceTextsJS collects the raw text of every button carrying the
// cents marker. Validation and team matching happen in the price parser.
const extractPriceTextsJS = `
	(function() {
		var texts = [];
		var buttons = document.querySelectorAll('button');
		for (var i = 0; i < buttons.length; i++) {
			var t = buttons[i].innerText || '';
			if (t.indexOf('¢') !== -1) texts.push(t);
		}
		return texts;
	})()
`

// collectPriceTexts reads the two moneyline price buttons off a rendered game
// page.
func (s *Scraper) collectPriceTexts(ctx context.Context) ([]string, error) {
	evalCtx, cancel := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
	defer cancel()

	var texts []string
	if err := chromedp.Run(evalCtx, chromedp.Evaluate(extractPriceTextsJS, &texts)); err != nil {
		return nil, fmt.Errorf("collect price texts: %w", err)
	}
	return texts, nil
}

// captureChart screenshots the chart region — only its bounding box, not the
// viewport — and writes it to the screenshot store. In dry-run mode the
// capture still happens (it validates the rendered state) but nothing is
// written; the artifact carries the path a real run would have used.
func (s *Scraper) captureChart(ctx context.Context, game *models.GameInfo) (*models.ScreenshotArtifact, error) {
	capCtx, cancel := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
	defer cancel()

	var png []byte
	if err := chromedp.Run(capCtx,
		chromedp.ScrollIntoView(selChartContainer, chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Screenshot(selChartContainer, &png, chromedp.NodeVisible, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("screenshot chart: %w", err)
	}

	at := s.clock.Now()
	if s.dryRun {
		return &models.ScreenshotArtifact{Path: s.shots.Path(game.Away, game.Home, at), CapturedAt: at}, nil
	}

	artifact, err := s.shots.Write(game.Away, game.Home, at, png)
	if err != nil {
		return nil, err
	}
	s.logger.Success("[capture] Screenshot saved: %s", artifact.Path)
	return artifact, nil
}
