package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"agendawire/internal/config"
	"agendawire/internal/ics"
	appLog "agendawire/internal/log"
	"agendawire/internal/model"
	"agendawire/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	verbose    bool
}

func main() {
	flags := parseFlags()

	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("agendawire starting", "version", "0.1.0-dev")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"granularity", conf.Granularity,
		"refresh", conf.RefreshCron,
		"ics_count", len(conf.ICS),
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	server := web.NewServer(conf)
	fetcher := ics.NewFetcher(conf.CacheDir)

	refresh := func() {
		items := ingest(ctx, conf, fetcher)
		server.SetSnapshot(items)
	}

	// Initial ingest so the API serves data immediately.
	refresh()

	if flags.once {
		appLog.Info("single-shot ingest complete, exiting")
		return
	}

	sched := cron.New()
	if _, err := sched.AddFunc(conf.RefreshCron, refresh); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	if err := server.Run(ctx); err != nil {
		appLog.Error("HTTP server failed", err)
		os.Exit(1)
	}

	appLog.Info("agendawire exiting")
}

// ingest fetches and parses every configured ICS source into one item
// snapshot. Per-source failures are logged and skipped so one broken
// feed cannot blank the whole agenda.
func ingest(ctx context.Context, conf *config.Config, fetcher *ics.Fetcher) []model.Item {
	sources := make([]ics.Source, 0, len(conf.ICS))
	for _, src := range conf.ICS {
		if src.URL == "" {
			continue
		}
		id := src.ID
		if id == "" {
			if src.Name != "" {
				id = src.Name
			} else {
				id = src.URL
			}
		}
		sources = append(sources, ics.Source{ID: id, URL: src.URL})
	}

	results, errs := fetcher.FetchAll(ctx, sources)
	for _, err := range errs {
		appLog.Error("ics fetch failed during ingest", err)
	}

	items := make([]model.Item, 0)
	for _, res := range results {
		parsed, err := ics.ParseICS(res.Source, res.Body)
		if err != nil {
			appLog.Error("ingest: parse failed for source", err, "id", res.Source.ID)
			continue
		}
		items = append(items, parsed...)
	}

	appLog.Info("ingest complete", "source_count", len(sources), "item_count", len(items))
	return items
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./agendawire.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one ingest cycle and exit")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
