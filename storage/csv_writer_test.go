package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/gca01/pm-price-ss/models"
)

func testRecord(ts string) *models.PriceRecord {
	return &models.PriceRecord{
		Timestamp:      ts,
		GameID:         "2025-12-07_IND_SAC",
		Home:           "IND",
		Away:           "SAC",
		HomePrice:      0.62,
		AwayPrice:      0.39,
		GameStart:      "7:30 PM",
		ScreenshotPath: "screenshots/2025-12-07/SAC_IND_20251207_180000.png",
	}
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestCSVWriterCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "prices.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.Append(testRecord("2025-12-07T18:00:00-05:00")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readAll(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "Timestamp" || rows[0][7] != "Screenshot Path" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][4] != "0.62" || rows[1][5] != "0.39" {
		t.Errorf("unexpected prices in row: %v", rows[1])
	}
}

func TestCSVWriterAppendsAcrossRunsWithoutDuplicatingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")

	// Two separate runs against the same store.
	for i, ts := range []string{"2025-12-07T18:00:00-05:00", "2025-12-07T19:00:00-05:00"} {
		w, err := NewCSVWriter(path)
		if err != nil {
			t.Fatalf("run %d: NewCSVWriter: %v", i, err)
		}
		if err := w.Append(testRecord(ts)); err != nil {
			t.Fatalf("run %d: Append: %v", i, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("run %d: Close: %v", i, err)
		}
	}

	rows := readAll(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(rows))
	}
	headerCount := 0
	for _, row := range rows {
		if row[0] == "Timestamp" {
			headerCount++
		}
	}
	if headerCount != 1 {
		t.Errorf("header written %d times, want once", headerCount)
	}
	if rows[1][0] == rows[2][0] {
		t.Error("the two runs should carry distinct timestamps")
	}
}
