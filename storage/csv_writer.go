package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gca01/pm-price-ss/models"
)

// Headers is the column layout of the tabular log.
var Headers = []string{
	"Timestamp", "Game ID", "Home Team", "Away Team",
	"Home Price", "Away Price", "Game Start", "Screenshot Path",
}

// CSVWriter appends price records to a CSV file. The file is opened in append
// mode and the header row is written exactly once, when the file is first
// created. Rows are intentionally not deduplicated: uniqueness comes from
// timestamp granularity and the hourly run cadence, and re-running within the
// same hour is expected to produce a second row per game.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter opens (or creates) the CSV file at the given path for
// appending. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: stat file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	// Header only on a freshly created (empty) file.
	if info.Size() == 0 {
		if err := w.Write(Headers); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: flush header: %w", err)
		}
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// Append writes one record as a new row and flushes immediately, so rows from
// an interrupted run are not lost.
func (c *CSVWriter) Append(record *models.PriceRecord) error {
	row := []string{
		record.Timestamp,
		record.GameID,
		record.Home,
		record.Away,
		formatPrice(record.HomePrice),
		formatPrice(record.AwayPrice),
		record.GameStart,
		record.ScreenshotPath,
	}
	if err := c.writer.Write(row); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
