package polymarket

// The site generates unstable CSS class names (e.g. "c-bDcLpV"), so selection
// prefers visible text over structure wherever both exist. Every selector
// string lives here; a site redesign should not touch any other file.
const (
	// Listing page
	selVirtuosoList = `[data-testid="virtuoso-item-list"]`
	textGameView    = "Game View"

	// Detail page tabs, matched by exact visible text
	xpMoneylineTab = `//*[normalize-space(text())="Moneyline"]`
	xpGraphTab     = `//*[normalize-space(text())="Graph"]`
	xpTimeframe6H  = `//*[normalize-space(text())="6H"]`

	// Chart region, in order of preference
	selChartContainer = `div[class*="chart"]`
	selChartSVG       = `svg.overflow-visible`
)
