// Package config provides configuration management for MixSplitR.
//
// Settings are stored as JSON in config.json next to the binary, matching
// the credential record the recognition provider setup creates. A missing
// file yields defaults; credentials are then collected interactively once
// via EnsureCredentials and persisted.
//
//	settings, err := config.Load(configPath)
//	if !settings.HasCredentials() {
//	    err = settings.EnsureCredentials(os.Stdin, os.Stdout, configPath)
//	}
package config
