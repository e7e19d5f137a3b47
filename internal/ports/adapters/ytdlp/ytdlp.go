// Package ytdlp fetches remote media with the yt-dlp binary.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/openshorts/openshorts/internal/ports"
)

// DefaultPreferredExts orders download artifacts by usefulness: muxed
// audio+video containers first. A downloader can drop several files in the
// destination (separate streams, thumbnails, info JSON); picking "newest
// file" alone is ambiguous, so the extension priority is consulted first
// and recency only breaks ties.
var DefaultPreferredExts = []string{".mp4", ".mkv", ".webm", ".mov", ".m4a", ".mp3"}

type Adapter struct {
	bin          string
	preferredExt []string
}

func New(binPath string, preferredExt []string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	if len(preferredExt) == 0 {
		preferredExt = DefaultPreferredExts
	}
	return &Adapter{bin: binPath, preferredExt: preferredExt}
}

func (a *Adapter) Fetch(ctx context.Context, url, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	template := filepath.Join(destDir, "%(title).80s-%(id)s.%(ext)s")
	cmd := exec.CommandContext(ctx, a.bin,
		"-f", "mp4/bestaudio/best",
		"-o", template,
		url,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", &ports.ExternalProcessError{Tool: "yt-dlp", Err: err, Output: string(b)}
	}
	return selectArtifact(destDir, a.preferredExt)
}

// selectArtifact picks the fetched media file: best extension rank first,
// newest modification time within a rank.
func selectArtifact(dir string, preferredExt []string) (string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	bestRank := len(preferredExt) + 1
	var best string
	var bestMod int64
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		rank := extRank(de.Name(), preferredExt)
		mod := info.ModTime().UnixNano()
		if rank < bestRank || (rank == bestRank && mod > bestMod) {
			bestRank = rank
			best = filepath.Join(dir, de.Name())
			bestMod = mod
		}
	}
	if best == "" {
		return "", fmt.Errorf("no downloaded file found in %s", dir)
	}
	return best, nil
}

func extRank(name string, preferredExt []string) int {
	ext := strings.ToLower(filepath.Ext(name))
	for i, p := range preferredExt {
		if ext == p {
			return i
		}
	}
	return len(preferredExt)
}
