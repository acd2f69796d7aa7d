package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/spf13/cobra"

	"github.com/opentransit/translocrt"
	"github.com/opentransit/translocrt/downloader"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the realtime feed HTTP service",
	Long:  "Serves GET /rt/{agency_id}/{agency_code} until interrupted. Configured through TRANSLOC_* environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(args)
	},
}

func serve(args []string) error {
	var cfg struct {
		Web struct {
			Addr string `conf:"default:0.0.0.0:6969"`
		}
		Upstream struct {
			FeedsBaseURL string `conf:"default:https://feeds.transloc.com/3"`
			GTFSBaseURL  string `conf:"default:https://api.transloc.com/gtfs"`
		}
		Static struct {
			Timezone string `conf:"default:America/New_York"`
			// Cache TTL in minutes, used when upstream sends no max-age.
			CacheTTLMinutes int `conf:"default:720"`
			// When set, the static ZIP cache persists to this file.
			CachePath    string
			MaxSizeBytes int `conf:"default:104857600"`
		}
	}

	const prefix = "TRANSLOC"
	if err := conf.Parse(args, prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("serve: config:\n%v\n", out)

	loader, err := translocrt.NewLoader(log)
	if err != nil {
		return fmt.Errorf("creating loader: %w", err)
	}
	loader.Client.BaseURL = cfg.Upstream.FeedsBaseURL
	loader.StaticBaseURL = cfg.Upstream.GTFSBaseURL
	loader.StaticCacheTTL = time.Duration(cfg.Static.CacheTTLMinutes) * time.Minute
	loader.StaticMaxSize = cfg.Static.MaxSizeBytes

	timezone, err := time.LoadLocation(cfg.Static.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", cfg.Static.Timezone, err)
	}
	loader.Timezone = timezone

	if cfg.Static.CachePath != "" {
		fs, err := downloader.NewFilesystem(cfg.Static.CachePath)
		if err != nil {
			return fmt.Errorf("creating static cache: %w", err)
		}
		loader.Downloader = fs
	}

	srv := translocrt.NewServer(log, loader, cfg.Web.Addr)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("serve: listening on %s", cfg.Web.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("serve: shutting down on %v", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
