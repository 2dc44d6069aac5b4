package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/download"
	"github.com/handiism/ytmp3-downloader/internal/youtube"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0033"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

func main() {
	// Command line flags
	var (
		apiKeyFlag  = flag.String("api-key", "", "RapidAPI key for the youtube-mp36 API (default $"+config.EnvAPIKey+")")
		dirFlag     = flag.String("download-dir", "", "Directory to save downloads (overrides config)")
		pollFlag    = flag.Bool("poll", false, "Poll until the conversion leaves the queue")
		tagsFlag    = flag.Bool("tags", false, "Write ID3 tags and cover art to the saved file")
		configFlag  = flag.String("config", "", "Path to config file")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "YouTube to MP3 Downloader")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  ytmp3-dl [options] [video URL or ID]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Without a video argument the URL or ID is read from stdin.")
		fmt.Fprintln(os.Stderr, "For interactive mode, use: ytmp3-tui")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load config
	settings, err := config.Resolve(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *apiKeyFlag != "" {
		settings.APIKey = *apiKeyFlag
	}
	if *dirFlag != "" {
		settings.DownloadDir = *dirFlag
	}
	if *pollFlag {
		settings.Poll = true
	}
	if *tagsFlag {
		settings.ModifyTags = true
		settings.EmbedThumbnail = true
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	if err := settings.RequireAPIKey(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get video
	input := strings.TrimSpace(flag.Arg(0))
	if input == "" {
		input, err = prompt("Enter YouTube video URL or ID: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			os.Exit(1)
		}
	}
	videoID := youtube.ExtractVideoID(input)
	if videoID == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}
		fmt.Println(render(event))
	})

	fmt.Println(titleStyle.Render("▶ YouTube to MP3"))
	fmt.Println(dimStyle.Render(strings.Repeat("─", 40)))
	fmt.Println()

	_, err = manager.Download(ctx, download.Request{
		VideoID: videoID,
		APIKey:  settings.APIKey,
		Dir:     settings.DownloadDir,
		Poll:    settings.Poll,
	})
	interrupted := ctx.Err() != nil
	if interrupted {
		fmt.Println("\nDownload cancelled.")
	} else if isPrecondition(err) {
		fmt.Println(errorStyle.Render("✗ Error: " + err.Error()))
	}
	if code := exitCode(err, interrupted); code != 0 {
		os.Exit(code)
	}
}

// exitCode maps the outcome of a download to the process exit status.
// Conversion failures were already printed as error events and end the
// program normally, whatever their kind.
func exitCode(err error, interrupted bool) int {
	var de *download.Error
	switch {
	case err == nil:
		return 0
	case interrupted:
		return 130
	case errors.As(err, &de):
		return 0
	default:
		return 1
	}
}

// isPrecondition reports errors returned before any event was emitted.
func isPrecondition(err error) bool {
	return errors.Is(err, download.ErrEmptyVideoID) ||
		errors.Is(err, download.ErrEmptyDir) ||
		errors.Is(err, config.ErrMissingAPIKey)
}

// render formats a progress event for the terminal.
func render(event download.ProgressEvent) string {
	switch event.Level {
	case download.LevelError:
		return errorStyle.Render("✗ " + event.Message)
	case download.LevelWarning:
		return warningStyle.Render("! " + event.Message)
	case download.LevelSuccess:
		return successStyle.Render("✓ " + event.Message)
	case download.LevelInfo:
		return infoStyle.Render("› " + event.Message)
	default:
		return dimStyle.Render("  " + event.Message)
	}
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
