package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"ecbpress/config"
	"ecbpress/orchestrator"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	source := flag.String("source", DefaultSourcePreset, "listing preset name or URL (use -sources to list presets)")
	mode := flag.String("mode", "", "source mode: html or rss (default from config)")
	maxReports := flag.Int("max", 0, "maximum publications to process (0 = config default)")
	outDir := flag.String("out", "", "output directory for PDFs and metadata")
	cfgPath := flag.String("config", "", "path to YAML config")
	creators := flag.Bool("creators", false, "fetch publication pages to extract speaker names")
	skipDownload := flag.Bool("skip-download", false, "emit metadata records without downloading PDFs")
	listSources := flag.Bool("sources", false, "list available source presets and exit")
	flag.Parse()

	if *listSources {
		fmt.Println("Available source presets:")
		names := make([]string, 0, len(SourcePresets))
		for name := range SourcePresets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-8s %s\n", name, SourcePresets[name])
		}
		fmt.Printf("\nDefault: %s\n", DefaultSourcePreset)
		os.Exit(0)
	}

	log := newLogger()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	cfg.Source.URL = ResolveSourceURL(*source)
	if *mode != "" {
		cfg.Source.Mode = *mode
	}
	if *source == "rss" {
		cfg.Source.Mode = config.ModeRSS
	}
	if *maxReports > 0 {
		cfg.Source.MaxReports = *maxReports
	}
	if *outDir != "" {
		cfg.Download.OutputDir = *outDir
	}
	if *creators {
		cfg.Source.FetchCreators = true
	}
	if *skipDownload {
		cfg.Download.Skip = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, err := orchestrator.RunOnce(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("harvest failed")
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}
}

// newLogger configures structured logging: JSON when LOG_FORMAT=json, level
// from LOG_LEVEL.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if config.GetEnvOrDefault("LOG_FORMAT", "") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	switch config.GetEnvOrDefault("LOG_LEVEL", "") {
	case "DEBUG":
		log.SetLevel(logrus.DebugLevel)
	case "WARN":
		log.SetLevel(logrus.WarnLevel)
	case "ERROR":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
