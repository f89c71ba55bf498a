package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScreenshotPathLayout(t *testing.T) {
	s := NewScreenshotStore("screenshots")
	at := time.Date(2025, 12, 7, 6, 0, 0, 0, time.UTC)

	got := s.Path("SAC", "IND", at)
	want := filepath.Join("screenshots", "2025-12-07", "SAC_IND_20251207_060000.png")
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestScreenshotPathsDistinctAcrossSeconds(t *testing.T) {
	s := NewScreenshotStore("screenshots")
	a := s.Path("SAC", "IND", time.Date(2025, 12, 7, 6, 0, 0, 0, time.UTC))
	b := s.Path("SAC", "IND", time.Date(2025, 12, 7, 6, 0, 1, 0, time.UTC))
	if a == b {
		t.Errorf("paths one second apart must differ, both %q", a)
	}
}

func TestScreenshotPathSanitizesTeamNames(t *testing.T) {
	s := NewScreenshotStore("screenshots")
	at := time.Date(2025, 12, 7, 6, 0, 0, 0, time.UTC)

	got := s.Path("S/C", "I:D", at)
	want := filepath.Join("screenshots", "2025-12-07", "SC_ID_20251207_060000.png")
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestScreenshotWriteNeverOverwrites(t *testing.T) {
	s := NewScreenshotStore(t.TempDir())
	at := time.Date(2025, 12, 7, 6, 0, 0, 0, time.UTC)

	artifact, err := s.Write("SAC", "IND", at, []byte("png-one"))
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := os.Stat(artifact.Path); err != nil {
		t.Fatalf("artifact not on disk: %v", err)
	}

	if _, err := s.Write("SAC", "IND", at, []byte("png-two")); err == nil {
		t.Error("second write to the same path must fail, not overwrite")
	}

	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "png-one" {
		t.Errorf("original file was clobbered: %q", data)
	}
}

func TestScreenshotEnsureDirIdempotent(t *testing.T) {
	s := NewScreenshotStore(t.TempDir())
	at := time.Date(2025, 12, 7, 6, 0, 0, 0, time.UTC)

	if err := s.EnsureDir(at); err != nil {
		t.Fatalf("first EnsureDir: %v", err)
	}
	if err := s.EnsureDir(at); err != nil {
		t.Fatalf("second EnsureDir: %v", err)
	}
}
