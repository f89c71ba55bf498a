package polymarket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ErrNotRendered reports that the chart region never reached render readiness
// within the timeout. It is retryable.
var ErrNotRendered = errors.New("chart region not rendered")

// waitNetworkIdle blocks until background network activity has quiesced: no
// request in flight and no request event seen for the quiet window. Existence
// of the target element alone races with asynchronous chart drawing, so the
// readiness gate layers this on top of element checks.
//
// chromedp has no networkidle primitive, so this counts cdproto network events
// directly (the CDP-level equivalent of a networkidle load state).
func waitNetworkIdle(ctx context.Context, quiet, timeout time.Duration) error {
	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	inflight := make(map[network.RequestID]struct{})
	lastActivity := time.Now()

	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		mu.Lock()
		defer mu.Unlock()
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			inflight[e.RequestID] = struct{}{}
			lastActivity = time.Now()
		case *network.EventLoadingFinished:
			delete(inflight, e.RequestID)
			lastActivity = time.Now()
		case *network.EventLoadingFailed:
			delete(inflight, e.RequestID)
			lastActivity = time.Now()
		}
	})

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			mu.Lock()
			idle := len(inflight) == 0
			quietFor := time.Since(lastActivity)
			mu.Unlock()

			if idle && quietFor >= quiet {
				return nil
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("network still busy after %v", timeout)
			}
		}
	}
}

// awaitRendered is the render-readiness gate for the chart region. All three
// signals are required: the region selector resolves, the network has been
// quiet for the configured window, and the settle delay has elapsed to absorb
// animation and paint latency that outlasts network completion.
func (s *Scraper) awaitRendered(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
	defer cancel()

	err := chromedp.Run(waitCtx,
		chromedp.WaitReady(selChartContainer, chromedp.ByQuery),
		chromedp.WaitReady(selChartSVG, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotRendered, err)
	}

	if err := waitNetworkIdle(ctx, s.cfg.NetworkQuiet, s.cfg.NetworkIdleWait); err != nil {
		return fmt.Errorf("%w: %v", ErrNotRendered, err)
	}

	time.Sleep(s.cfg.GraphSettle)
	return nil
}
