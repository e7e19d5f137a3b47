package ytdlp

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestSelectArtifact_PrefersMuxedOverNewer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now()
	// The audio-only stream is newer, but the muxed mp4 must win.
	touch(t, filepath.Join(dir, "video-abc.mp4"), now.Add(-time.Minute))
	touch(t, filepath.Join(dir, "video-abc.m4a"), now)
	touch(t, filepath.Join(dir, "video-abc.info.json"), now.Add(time.Minute))

	got, err := selectArtifact(dir, DefaultPreferredExts)
	if err != nil {
		t.Fatalf("selectArtifact: %v", err)
	}
	if filepath.Base(got) != "video-abc.mp4" {
		t.Fatalf("expected muxed mp4 selected, got %s", got)
	}
}

func TestSelectArtifact_NewestWithinRank(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(dir, "old.mp4"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "new.mp4"), now)

	got, err := selectArtifact(dir, DefaultPreferredExts)
	if err != nil {
		t.Fatalf("selectArtifact: %v", err)
	}
	if filepath.Base(got) != "new.mp4" {
		t.Fatalf("expected newest mp4, got %s", got)
	}
}

func TestSelectArtifact_FallsBackToAnyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "mystery.bin"), time.Now())

	got, err := selectArtifact(dir, DefaultPreferredExts)
	if err != nil {
		t.Fatalf("selectArtifact: %v", err)
	}
	if filepath.Base(got) != "mystery.bin" {
		t.Fatalf("expected fallback to the only file, got %s", got)
	}
}

func TestSelectArtifact_EmptyDir(t *testing.T) {
	t.Parallel()

	if _, err := selectArtifact(t.TempDir(), DefaultPreferredExts); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}
