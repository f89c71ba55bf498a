package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gca01/pm-price-ss/models"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\w\s-]`)

// ScreenshotStore lays out captured chart images under a base directory: one
// subdirectory per calendar date, one file per game-run. Paths are
// deterministic given (away, home, capture instant); second granularity makes
// collisions possible only for runs within the same second.
type ScreenshotStore struct {
	baseDir string
}

// NewScreenshotStore returns a store rooted at baseDir. Nothing is created
// until the first write.
func NewScreenshotStore(baseDir string) *ScreenshotStore {
	return &ScreenshotStore{baseDir: baseDir}
}

// Path computes the destination for a capture:
// baseDir/YYYY-MM-DD/{away}_{home}_{YYYYMMDD}_{HHMMSS}.png, using at in its
// own location (the caller passes a reference-timezone instant).
func (s *ScreenshotStore) Path(away, home string, at time.Time) string {
	filename := fmt.Sprintf("%s_%s_%s.png",
		sanitizeTeamName(away), sanitizeTeamName(home), at.Format("20060102_150405"))
	return filepath.Join(s.baseDir, at.Format("2006-01-02"), filename)
}

// EnsureDir idempotently creates the daily subdirectory for the given instant.
func (s *ScreenshotStore) EnsureDir(at time.Time) error {
	dir := filepath.Join(s.baseDir, at.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("screenshots: create dir %q: %w", dir, err)
	}
	return nil
}

// Write persists one image and returns the artifact. An existing file at the
// destination is never overwritten.
func (s *ScreenshotStore) Write(away, home string, at time.Time, png []byte) (*models.ScreenshotArtifact, error) {
	if err := s.EnsureDir(at); err != nil {
		return nil, err
	}

	path := s.Path(away, home, at)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("screenshots: create %q: %w", path, err)
	}
	if _, err := f.Write(png); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("screenshots: write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("screenshots: close %q: %w", path, err)
	}

	return &models.ScreenshotArtifact{Path: path, CapturedAt: at}, nil
}

// sanitizeTeamName strips characters unsafe for filenames and replaces spaces
// with underscores.
func sanitizeTeamName(name string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.ReplaceAll(cleaned, " ", "_")
}
