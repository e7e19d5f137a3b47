// Package project manages the on-disk project layout:
// <root>/projects/<id>/{input,work,clips} plus the manifest.
//
// The store assumes a single writer per project at a time; that is a
// precondition on the caller, not enforced here.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/openshorts/openshorts/internal/types"
)

var (
	// ErrUnknownProject is returned for project IDs with no directory.
	ErrUnknownProject = errors.New("unknown project")
	// ErrNoInput is returned when a project has no supported media file.
	ErrNoInput = errors.New("no supported media file in project input")
)

// supportedExts are the media containers the pipeline accepts as input.
var supportedExts = []string{".mp4", ".mov", ".mkv", ".webm", ".m4a", ".mp3"}

type Store struct {
	root string
}

func NewStore(root string) *Store { return &Store{root: root} }

// Create allocates a new project ID and its input directory.
func (s *Store) Create() (string, error) {
	id := uuid.NewString()
	if err := os.MkdirAll(s.InputDir(id), 0o755); err != nil {
		return "", err
	}
	return id, nil
}

// Dir returns the project directory, or ErrUnknownProject.
func (s *Store) Dir(id string) (string, error) {
	dir := filepath.Join(s.root, "projects", id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrUnknownProject, id)
	}
	return dir, nil
}

func (s *Store) InputDir(id string) string {
	return filepath.Join(s.root, "projects", id, "input")
}

func (s *Store) WorkDir(id string) string {
	return filepath.Join(s.root, "projects", id, "work")
}

func (s *Store) ClipsDir(id string) string {
	return filepath.Join(s.root, "projects", id, "clips")
}

// FindInput returns the project's source media file: the first supported
// file in sorted name order, so repeat invocations pick the same input.
func (s *Store) FindInput(id string) (string, error) {
	if _, err := s.Dir(id); err != nil {
		return "", err
	}
	des, err := os.ReadDir(s.InputDir(id))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoInput, id)
	}

	var names []string
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		if supported(de.Name()) {
			names = append(names, de.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoInput, id)
	}
	sort.Strings(names)
	return filepath.Join(s.InputDir(id), names[0]), nil
}

// SaveManifest writes the manifest atomically next to the clip output.
func (s *Store) SaveManifest(id string, manifest []types.ManifestEntry) error {
	dir, err := s.Dir(id)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	final := filepath.Join(dir, "manifest.json")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, final)
}

// LoadManifest reads the stored manifest; a missing file yields an empty
// manifest, not an error.
func (s *Store) LoadManifest(id string) ([]types.ManifestEntry, error) {
	dir, err := s.Dir(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if errors.Is(err, os.ErrNotExist) {
		return []types.ManifestEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	var m []types.ManifestEntry
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ClipPath resolves a manifest file name inside the project's clips
// directory, rejecting path escapes.
func (s *Store) ClipPath(id, name string) (string, error) {
	if _, err := s.Dir(id); err != nil {
		return "", err
	}
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid clip name %q", name)
	}
	path := filepath.Join(s.ClipsDir(id), name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range supportedExts {
		if ext == s {
			return true
		}
	}
	return false
}
