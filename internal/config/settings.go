package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Settings holds all configuration options.
type Settings struct {
	// ACRCloud credentials (primary recognition provider)
	ACRHost        string `json:"host"`
	ACRAccessKey   string `json:"access_key"`
	ACRSecret      string `json:"access_secret"`
	TimeoutSeconds int    `json:"timeout"`

	// AcoustID fallback provider; empty disables the fallback.
	AcoustIDKey string `json:"acoustid_key,omitempty"`

	// Library output
	OutputFolderName string `json:"output_folder_name"`
	CreatePlaylist   bool   `json:"create_playlist"`

	// Concurrency and rate limiting
	IdentifyWorkers     int     `json:"identify_workers"`
	ArtworkWorkers      int     `json:"artwork_workers"`
	RateIntervalSeconds float64 `json:"rate_interval_seconds"`

	// Segmentation parameters
	MinSilenceMS          int     `json:"min_silence_ms"`
	SilenceThresholdDB    float64 `json:"silence_threshold_db"`
	KeepSilenceMS         int     `json:"keep_silence_ms"`
	SingleTrackMaxMinutes float64 `json:"single_track_max_minutes"`

	// Identification parameters
	MinTrackSeconds     int `json:"min_track_seconds"`
	SampleWindowSeconds int `json:"sample_window_seconds"`

	// Memory budgeting
	RAMFraction float64 `json:"ram_fraction"`
	MinRAMGB    float64 `json:"min_ram_gb"`

	// Cover art
	CoverArtMaxSize int `json:"cover_art_max_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		TimeoutSeconds:        10,
		OutputFolderName:      "My_Music_Library",
		CreatePlaylist:        false,
		IdentifyWorkers:       4,
		ArtworkWorkers:        3,
		RateIntervalSeconds:   1.2,
		MinSilenceMS:          2000,
		SilenceThresholdDB:    -40,
		KeepSilenceMS:         200,
		SingleTrackMaxMinutes: 8,
		MinTrackSeconds:       10,
		SampleWindowSeconds:   12,
		RAMFraction:           0.7,
		MinRAMGB:              2,
		CoverArtMaxSize:       1000,
	}
}

// Load reads settings from a JSON file. A missing file yields defaults
// without error; the caller decides whether credentials must then be
// bootstrapped.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// HasCredentials reports whether the primary provider is configured.
func (s *Settings) HasCredentials() bool {
	return s.ACRHost != "" && s.ACRAccessKey != "" && s.ACRSecret != ""
}

// EnsureCredentials prompts for ACRCloud credentials when they are absent
// and persists the updated settings to path. Prompts are written to out and
// answers read line-by-line from in.
func (s *Settings) EnsureCredentials(in io.Reader, out io.Writer, path string) error {
	if s.HasCredentials() {
		return nil
	}

	fmt.Fprintln(out, "\n--- ACRCloud API Setup ---")
	reader := bufio.NewReader(in)

	prompt := func(label string) (string, error) {
		fmt.Fprintf(out, "%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	var err error
	if s.ACRHost, err = prompt("Enter your ACR Host"); err != nil {
		return err
	}
	if s.ACRAccessKey, err = prompt("Now your Access Key"); err != nil {
		return err
	}
	if s.ACRSecret, err = prompt("Finally, your Secret Key"); err != nil {
		return err
	}

	return s.Save(path)
}
