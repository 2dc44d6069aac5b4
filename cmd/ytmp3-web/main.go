package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/download"
	ioutils "github.com/handiism/ytmp3-downloader/internal/io"
	"github.com/handiism/ytmp3-downloader/internal/web"
	"golang.org/x/sync/errgroup"
)

var levelNames = map[download.ProgressLevel]string{
	download.LevelInfo:    "INFO",
	download.LevelVerbose: "DEBUG",
	download.LevelWarning: "WARN",
	download.LevelError:   "ERROR",
	download.LevelSuccess: "OK",
}

func main() {
	var (
		addrFlag    = flag.String("addr", "", "Listen address (overrides config, default 127.0.0.1:5000)")
		dirFlag     = flag.String("download-dir", "", "Directory to save downloads (overrides config)")
		apiKeyFlag  = flag.String("api-key", "", "Fallback RapidAPI key when the form leaves it empty (default $"+config.EnvAPIKey+")")
		configFlag  = flag.String("config", "", "Path to config file")
		verboseFlag = flag.Bool("verbose", false, "Log verbose download progress")
	)
	flag.Parse()

	settings, err := config.Resolve(*configFlag)
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	if *addrFlag != "" {
		settings.ListenAddr = *addrFlag
	}
	if *dirFlag != "" {
		settings.DownloadDir = *dirFlag
	}
	if *apiKeyFlag != "" {
		settings.APIKey = *apiKeyFlag
	}
	if err := settings.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}
	if settings.RequireAPIKey() != nil {
		log.Printf("No %s configured, the form must supply an API key", config.EnvAPIKey)
	}

	if err := ioutils.EnsureDir(settings.DownloadDir); err != nil {
		log.Fatal("Failed to create download directory: ", err)
	}

	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}
		log.Printf("%-5s %s", levelNames[event.Level], event.Message)
	})

	server, err := web.NewServer(settings, manager)
	if err != nil {
		log.Fatal("Failed to load templates: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:        settings.ListenAddr,
		Handler:     server.Handler(os.Stdout),
		ReadTimeout: 10 * time.Second,
		// Polling alone can take a minute before the MP3 is fetched
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("ytmp3 web running on http://%s (downloads in %s)", settings.ListenAddr, settings.DownloadDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutdown signal received, draining requests...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server error: ", err)
	}
	log.Println("Server stopped cleanly")
}
