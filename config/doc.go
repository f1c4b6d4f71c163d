// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// It selects the active observation source, enumerates the tracked lines and
// sets the refresh period (default 59s, kept under the upstream's 60 second
// staleness floor).
package config
