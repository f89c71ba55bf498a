package services

import (
	"fmt"
	"strings"

	"github.com/gca01/pm-price-ss/models"
	"github.com/gca01/pm-price-ss/utils"
)

// ReportService prints the end-of-run summary: one line per game with its
// outcome and prices, then the counts. No per-game reason is ever suppressed.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) Print(summary *models.RunSummary) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  SCRAPE RESULTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	if len(summary.Results) == 0 {
		fmt.Printf("  No games processed\n")
	}

	for _, r := range summary.Results {
		fmt.Printf("  %-24s", truncate(r.Game.String(), 24))
		switch r.Outcome {
		case models.OutcomeProcessed:
			fmt.Printf(" %s=%.2f %s=%.2f  \033[1;32mOK\033[0m\n",
				r.Game.Home, r.Sample.HomePrice, r.Game.Away, r.Sample.AwayPrice)
		case models.OutcomeSkipped:
			fmt.Printf(" \033[1;33mskipped: %s\033[0m\n", r.Reason)
		case models.OutcomeFailed:
			fmt.Printf(" \033[1;31mfailed: %s\033[0m\n", r.Reason)
		}
	}

	fmt.Printf("\n  %s\n", thin)
	fmt.Printf("  Processed : \033[1;32m%d\033[0m\n", summary.Processed)
	fmt.Printf("  Skipped   : \033[1;33m%d\033[0m\n", summary.Skipped)
	fmt.Printf("  Failed    : \033[1;31m%d\033[0m\n", summary.Failed)

	for _, fatal := range summary.Fatal {
		fmt.Printf("  \033[1;31mFATAL: %v\033[0m\n", fatal)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
