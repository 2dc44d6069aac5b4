package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/tui"
)

func main() {
	var (
		apiKeyFlag = flag.String("api-key", "", "RapidAPI key for the youtube-mp36 API (default $"+config.EnvAPIKey+")")
		dirFlag    = flag.String("download-dir", "", "Directory to save downloads (overrides config)")
		configFlag = flag.String("config", "", "Path to config file")
	)
	flag.Parse()

	settings, err := config.Resolve(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *apiKeyFlag != "" {
		settings.APIKey = *apiKeyFlag
	}
	if *dirFlag != "" {
		settings.DownloadDir = *dirFlag
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	if err := settings.RequireAPIKey(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
