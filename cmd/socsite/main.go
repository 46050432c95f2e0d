package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socsite/internal/build"
	"socsite/internal/capture"
	"socsite/internal/config"
	"socsite/internal/content"
	"socsite/internal/deploy"
	"socsite/internal/ics"
	appLog "socsite/internal/log"
	"socsite/internal/site"
	"socsite/internal/web"
)

const version = "0.1.0"

// flagConfig holds CLI flag values; non-empty values override the config
// file.
type flagConfig struct {
	configPath string
	listen     string
	site       string
	out        string
	bucket     string
	debug      bool
	command    string
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	flags.apply(conf)

	level := appLog.ParseLevel(conf.LogLevel)
	if flags.debug {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)

	appLog.Info("socsite starting", "version", version, "command", flags.command)
	appLog.Info("effective config",
		"site", conf.Site,
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"horizon_days", conf.HorizonDays,
		"public_dir", conf.PublicDir,
		"data_file", conf.DataFile,
		"feeds", len(conf.Feeds),
		"og_capture", conf.Capture.Enabled,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch flags.command {
	case "serve":
		err = runServe(ctx, conf)
	case "build":
		_, err = runBuild(ctx, conf)
	case "deploy":
		err = runDeploy(ctx, conf)
	default:
		err = fmt.Errorf("unknown command %q (want serve, build or deploy)", flags.command)
	}
	if err != nil {
		appLog.Error("socsite failed", err, "command", flags.command)
		os.Exit(1)
	}
	appLog.Info("socsite exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "socsite.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.site, "site", "", "Society profile: "+fmt.Sprint(content.Keys()))
	flag.StringVar(&cfg.out, "out", "", "Output directory for build/deploy")
	flag.StringVar(&cfg.bucket, "bucket", "", "S3 bucket for deploy")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [serve|build|deploy]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg.command = "serve"
	if flag.NArg() > 0 {
		cfg.command = flag.Arg(0)
	}
	return cfg
}

func (f flagConfig) apply(c *config.Config) {
	if f.listen != "" {
		c.Listen = f.listen
	}
	if f.site != "" {
		c.Site = f.site
	}
	if f.out != "" {
		c.OutputDir = f.out
	}
	if f.bucket != "" {
		c.Deploy.Bucket = f.bucket
	}
	c.Normalize()
}

// app is the wiring shared by every command.
type app struct {
	store  *content.Store
	syncer *content.Syncer
}

func newApp(conf *config.Config) (*app, error) {
	loc := conf.Location()

	s, err := content.Lookup(conf.Site, loc)
	if err != nil {
		return nil, err
	}
	if conf.BaseURL != "" {
		s.BaseURL = conf.BaseURL
	}
	if conf.DataFile != "" {
		df, err := content.LoadDataFile(conf.DataFile)
		if err != nil {
			return nil, fmt.Errorf("load data file: %w", err)
		}
		df.Apply(&s, loc)
	}

	fetcher := ics.NewFetcher(nil)
	store := content.NewStore(s, hasFeeds(conf), conf.LoadingDelay, time.Now())
	syncer := content.NewSyncer(store, fetcher, conf.Feeds, loc, conf.RefreshCron)
	return &app{store: store, syncer: syncer}, nil
}

func hasFeeds(conf *config.Config) bool {
	for _, f := range conf.Feeds {
		if f.URL != "" {
			return true
		}
	}
	return false
}

func rendererOptions(conf *config.Config, static bool) site.Options {
	return site.Options{
		PublicDir:   conf.PublicDir,
		AnalyticsID: conf.AnalyticsID,
		MapsKey:     conf.MapsKey,
		HorizonDays: conf.HorizonDays,
		OGImages:    static && conf.Capture.Enabled,
		Static:      static,
	}
}

func runServe(ctx context.Context, conf *config.Config) error {
	a, err := newApp(conf)
	if err != nil {
		return err
	}
	renderer, err := site.New(rendererOptions(conf, false))
	if err != nil {
		return err
	}
	if err := a.syncer.Start(ctx); err != nil {
		return err
	}

	srv := web.NewServer(conf, a.store, renderer)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		appLog.Info("signal received, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runBuild(ctx context.Context, conf *config.Config) (*build.Result, error) {
	a, err := newApp(conf)
	if err != nil {
		return nil, err
	}
	if err := a.syncer.RefreshOnce(ctx); err != nil {
		// Built-in events still render; feeds are best-effort.
		appLog.Warn("feed refresh failed, building without feed events", "reason", err.Error())
	}
	renderer, err := site.New(rendererOptions(conf, true))
	if err != nil {
		return nil, err
	}

	var capturer build.Capturer
	if conf.Capture.Enabled {
		capturer = capture.NewChromium(capture.Options{Width: conf.Capture.Width, Height: conf.Capture.Height})
	}

	b := build.New(renderer, build.Options{OutputDir: conf.OutputDir, PublicDir: conf.PublicDir}, capturer)
	snap := a.store.Snapshot()
	return b.Build(ctx, site.Input{
		Site: snap.Site,
		Now:  time.Now().In(conf.Location()),
	})
}

func runDeploy(ctx context.Context, conf *config.Config) error {
	if conf.Deploy.Bucket == "" {
		return errors.New("deploy needs a bucket (-bucket, deploy.bucket or " + config.EnvBucket + ")")
	}
	if _, err := runBuild(ctx, conf); err != nil {
		return err
	}
	d, err := deploy.NewFromEnv(ctx, conf.Deploy)
	if err != nil {
		return err
	}
	res, err := d.Deploy(ctx, conf.OutputDir)
	if err != nil {
		return err
	}
	appLog.Info("deployment complete",
		"objects", len(res.Uploaded),
		"distribution", res.DistributionID,
		"invalidation", res.InvalidationID,
	)
	return nil
}
