package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chefkjd/MixSplitR/internal/model"
)

const (
	// Version is the artifact schema version this build reads and writes.
	Version = 1

	artifactName   = "mixsplitr_cache.json"
	stagingDirName = "mixsplitr_temp"
)

var (
	// ErrNoSession means no artifact exists in the working directory.
	ErrNoSession = errors.New("no session found")

	// ErrCorrupt means an artifact exists but cannot be used.
	ErrCorrupt = errors.New("session file is corrupt")
)

// Session is the persisted outcome of a preview run. ArtworkCache maps
// normalized artwork URLs to raw image bytes; encoding/json base64-encodes
// the values on disk.
type Session struct {
	Version      int                 `json:"version"`
	Tracks       []model.TrackResult `json:"tracks"`
	OutputFolder string              `json:"output_folder"`
	ArtworkCache map[string][]byte   `json:"artwork_cache,omitempty"`
}

// Store reads and writes session state rooted at a working directory.
type Store struct {
	dir string
}

// NewStore returns a store for the given working directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// ArtifactPath returns the session artifact location.
func (s *Store) ArtifactPath() string {
	return filepath.Join(s.dir, artifactName)
}

// StagingDir returns the directory staged chunks live in. Preview runs
// segment straight into it; Clear removes it.
func (s *Store) StagingDir() string {
	return filepath.Join(s.dir, stagingDirName)
}

// Exists reports whether a session artifact is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.ArtifactPath())
	return err == nil
}

// Save writes the artifact atomically (write to temp, rename over).
func (s *Store) Save(sess *Session) error {
	sess.Version = Version
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.ArtifactPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.ArtifactPath())
}

// Load reads and validates the artifact. A missing file is ErrNoSession;
// unreadable JSON or an unknown version is ErrCorrupt.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.ArtifactPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if sess.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, sess.Version)
	}
	return &sess, nil
}

// Clear removes the artifact and the staging directory. Called after a
// successful apply and by cancel; safe when nothing exists.
func (s *Store) Clear() error {
	if err := os.Remove(s.ArtifactPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.RemoveAll(s.StagingDir()); err != nil {
		return err
	}
	return nil
}
