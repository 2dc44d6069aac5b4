// Package config provides configuration management for ytmp3-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Reading the RapidAPI credential from the environment or a .env file
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ./downloads
//	// Polls up to 12 times, 5 seconds apart, when polling is enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Credentials
//
// No API key is ever built in. It comes from the -api-key flag, the
// RAPIDAPI_KEY environment variable, or a .env file loaded with LoadEnv:
//
//	_ = config.LoadEnv()
//	settings.ApplyEnv()
//	if err := settings.RequireAPIKey(); err != nil {
//	    log.Fatal(err)
//	}
package config
