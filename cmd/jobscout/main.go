package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/deliver"
	"jobscout-engine/internal/fetch"
	"jobscout-engine/internal/pipeline"
	"jobscout-engine/internal/rank"
	"jobscout-engine/internal/store"
)

func main() {
	cfgPath := flag.String("config", "", "path to profile config (default: <data dir>/config.yml)")
	dryRun := flag.Bool("dry-run", false, "classify and report without persisting notification state")
	verbose := flag.Bool("verbose", false, "diagnostic detail (no effect on results)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	envCfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("env config: %v", err)
	}

	dataDir := envCfg.DataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	path := *cfgPath
	if path == "" {
		path, err = config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
		if err != nil {
			log.Fatalf("config bootstrap failed: %v", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", path, err)
	}

	cfg, validation := config.NormalizeAndValidate(cfg)
	for _, w := range validation.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !validation.OK() {
		for _, e := range validation.Errors {
			log.Printf("[config] error: %s", e)
		}
		os.Exit(1)
	}

	client := fetch.New(fetch.Options{
		Delay:      time.Duration(cfg.Scraping.RequestDelay * float64(time.Second)),
		Timeout:    time.Duration(cfg.Scraping.Timeout * float64(time.Second)),
		MaxRetries: cfg.Scraping.MaxRetries,
		UserAgent:  cfg.Scraping.UserAgent,
	})

	db, err := store.Open(filepath.Join(dataDir, "jobscout.db"))
	if err != nil {
		log.Fatalf("store open failed: %v", err)
	}
	defer db.Close()

	p := &pipeline.Pipeline{
		Cfg:     cfg,
		Sources: pipeline.BuildSources(cfg, client),
		Store:   store.NewSeenStore(db, *dryRun),
		Scorer:  rank.New(cfg),
		DryRun:  *dryRun,
		Verbose: *verbose,
	}

	ctx := context.Background()
	out, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	deliver.PrintConsole(os.Stdout, out)

	if *verbose {
		for _, j := range out.Jobs {
			log.Printf("[score] %q %s", j.Title, deliver.FormatBreakdown(j.Breakdown))
		}
	}

	if len(out.Jobs) > 0 {
		if reportPath, err := deliver.WriteHTMLReport(dataDir, out); err != nil {
			log.Printf("[report] write failed: %v", err)
		} else {
			log.Printf("[report] saved %s", reportPath)
		}
	}

	if !*dryRun && envCfg.WebhookURL != "" && len(out.Jobs) > 0 {
		if err := deliver.SendWebhook(ctx, envCfg.WebhookURL, out.Jobs); err != nil {
			log.Printf("[webhook] send failed: %v", err)
		}
	}

	if out.Summary.CommitErr != nil {
		// results above are still valid, but the next run will re-report
		// these jobs unless the operator intervenes
		os.Exit(1)
	}
}
