package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.IdentifyWorkers != 4 {
		t.Errorf("IdentifyWorkers = %d, want 4", s.IdentifyWorkers)
	}
	if s.ArtworkWorkers >= s.IdentifyWorkers {
		t.Errorf("ArtworkWorkers = %d, want fewer than the %d identify workers",
			s.ArtworkWorkers, s.IdentifyWorkers)
	}
	if s.HasCredentials() {
		t.Error("defaults should not carry credentials")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	s := DefaultSettings()
	s.ACRHost = "identify-eu-west-1.acrcloud.com"
	s.ACRAccessKey = "key"
	s.ACRSecret = "secret"
	s.AcoustIDKey = "abc"

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.HasCredentials() {
		t.Error("loaded settings should carry credentials")
	}
	if loaded.AcoustIDKey != "abc" {
		t.Errorf("AcoustIDKey = %q, want %q", loaded.AcoustIDKey, "abc")
	}
}

func TestEnsureCredentials_Prompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := DefaultSettings()

	in := strings.NewReader("host.example.com\nmy-key\nmy-secret\n")
	var out bytes.Buffer

	if err := s.EnsureCredentials(in, &out, path); err != nil {
		t.Fatalf("EnsureCredentials() error = %v", err)
	}
	if s.ACRHost != "host.example.com" || s.ACRAccessKey != "my-key" || s.ACRSecret != "my-secret" {
		t.Errorf("credentials not captured: %+v", s)
	}
	if !strings.Contains(out.String(), "ACRCloud API Setup") {
		t.Error("setup banner not printed")
	}

	// Persisted for the next run.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.HasCredentials() {
		t.Error("credentials were not persisted")
	}
}

func TestEnsureCredentials_NoopWhenConfigured(t *testing.T) {
	s := DefaultSettings()
	s.ACRHost, s.ACRAccessKey, s.ACRSecret = "h", "k", "s"

	var out bytes.Buffer
	if err := s.EnsureCredentials(strings.NewReader(""), &out, "/nonexistent/config.json"); err != nil {
		t.Fatalf("EnsureCredentials() error = %v", err)
	}
	if out.Len() != 0 {
		t.Error("should not prompt when credentials exist")
	}
}
