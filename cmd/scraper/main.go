package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-jobscout/internal/browser"
	"go-jobscout/internal/config"
	"go-jobscout/internal/dedup"
	"go-jobscout/internal/filter"
	"go-jobscout/internal/humanize"
	"go-jobscout/internal/orchestrator"
	"go-jobscout/internal/reporter"
	"go-jobscout/internal/scraper"
	"go-jobscout/internal/scraper/careerjet"
	"go-jobscout/internal/scraper/itviec"
	"go-jobscout/internal/scraper/topcv"
	"go-jobscout/internal/sink"
	"go-jobscout/internal/sites"
	"go-jobscout/internal/status"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Keywords: %v, Sites: %d", cfg.Keywords, len(cfg.Sites))

	//setup context with timeout + graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("🛑 Shutdown signal received, finishing in-flight units...")
		cancel()
	}()

	log.Println("🚀 Starting JobScout (Go version)...")

	//site profiles, read-only after this point
	registry := sites.NewRegistry(cfg.Sites)

	//human behavior policy + session continuity
	sim := humanize.New(cfg.CookiesPath)

	//init playwright manager
	pwManager, err := browser.NewManager(true)
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()

	//two pools: the fallback tier pokes anti-bot defenses harder and
	//runs at lower concurrency
	primaryPool := browser.NewContextPool(pwManager, cfg.PrimaryPoolSize)
	fallbackPool := browser.NewContextPool(pwManager, cfg.FallbackPoolSize)
	log.Printf("✅ Browser initialized (primary pool: %d, fallback pool: %d)", primaryPool.Capacity(), fallbackPool.Capacity())

	//filter pipeline with in-run + cross-run dedup
	jobCache := dedup.NewJobCache(cfg.CachePath)
	deduper := dedup.NewDeduper(jobCache)
	pipeline := filter.NewPipeline(registry, deduper, cfg.EntryLevelOnly)

	//status counters, shared with cmd/server via the status file
	tracker := status.NewTracker()

	//pick the sink: postgres when configured, JSON file otherwise
	var resultSink sink.Sink
	if cfg.DatabaseURL != "" {
		pgSink, err := sink.NewPostgresSink(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Postgres unavailable (%v), falling back to JSON file sink", err)
			resultSink = sink.NewJSONFileSink("logs")
		} else {
			resultSink = pgSink
		}
	} else {
		resultSink = sink.NewJSONFileSink("logs")
	}
	defer resultSink.Close(context.Background())

	//scrapers: one aggregator tier + site-specific fallbacks
	primary := careerjet.New(cfg, registry, sim, tracker)
	fallbacks := map[string]scraper.Scraper{
		"topcv":  topcv.New(cfg, registry, sim),
		"itviec": itviec.New(cfg, registry, sim, tracker),
	}

	orch := orchestrator.New(
		primary, fallbacks,
		primaryPool, fallbackPool,
		sim, pipeline, resultSink, tracker,
		cfg.FallbackThreshold, cfg.UnitTimeout(),
	)

	//build the work queue: one unit per (site, keyword)
	var units []*orchestrator.Unit
	for _, site := range cfg.Sites {
		if site.ID == "careerjet" {
			//the aggregator is a tier, not a target board
			continue
		}
		for _, kw := range cfg.Keywords {
			units = append(units, &orchestrator.Unit{Site: site.ID, Keyword: kw})
		}
	}
	log.Printf("📦 %d scrape units queued", len(units))

	accepted := orch.Run(ctx, units)
	log.Printf("\n📊 Run complete: %d jobs accepted", len(accepted))

	//mark accepted jobs in the cross-run cache
	urls := make([]string, 0, len(accepted))
	for _, job := range accepted {
		urls = append(urls, job.RawURL)
	}
	deduper.MarkPersisted(urls)

	//publish counters for the status server
	writeStatusFile(tracker)

	//notify via telegram when configured
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		sendReport(cfg, accepted, tracker)
	}

	log.Println("🏁 Execution finished.")
}

func sendReport(cfg *config.Config, accepted []scraper.Job, tracker *status.Tracker) {
	bot, err := reporter.NewTelegramReporter(cfg)
	if err != nil {
		log.Printf("⚠️ Failed to init Telegram reporter: %v", err)
		return
	}

	for _, job := range accepted {
		//decisions were already applied; re-annotate for the message
		level, conf := filter.ClassifyExperience(job.Title, job.Summary)
		if err := bot.SendJob(job, filter.Decision{ExperienceLevel: level, Confidence: conf, Passes: true}); err != nil {
			log.Printf("⚠️ Failed to send job to Telegram: %v", err)
		}
		//1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}

	snap := tracker.Snapshot()
	statusMsg := fmt.Sprintf("✅ Run finished: %d found, %d filtered, %d deduplicated, %d failed extractions.",
		snap.Totals.JobsFound, snap.Totals.JobsFiltered, snap.Totals.JobsDeduplicated, snap.Totals.FailedExtractions)
	if err := bot.SendStatus(statusMsg); err != nil {
		log.Printf("⚠️ Failed to send status to Telegram: %v", err)
	}
}

// writeStatusFile snapshots the counters where cmd/server picks them up.
func writeStatusFile(tracker *status.Tracker) {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}
	data, err := json.MarshalIndent(tracker.Snapshot(), "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal status snapshot: %v", err)
		return
	}
	path := filepath.Join("logs", "status.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write status file: %v", err)
		return
	}
	log.Printf("📁 Status snapshot saved to %s", path)
}
