// Package config provides configuration management for the collector.
//
// This package handles:
//   - Default values for every search, pacing and output constant
//   - Loading and saving settings from YAML (or JSON) files
//   - Conversion to a filter.Builder for the search client
//
// # Default Settings
//
// With no config file the collector runs on the defaults:
//
//	settings := config.DefaultSettings()
//	// 50 results per day, 500ms between requests, 30s timeout
//	// writes data/vocaloid_birthday_songs.json
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// Durations are written the way time.ParseDuration reads them:
//
//	request_delay: 1s
//	limit_per_day: 100
package config
