package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"thesiscal/internal/daymeta"
	"thesiscal/internal/ics"
	appLog "thesiscal/internal/log"
	"thesiscal/internal/selection"
	"thesiscal/internal/session"
	"thesiscal/internal/web"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API with scheduled ICS refresh and session expiry.",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			ttl, err := cfg.SessionTTLDuration()
			if err != nil {
				return err
			}
			mode, err := selection.ParseMode(cfg.DefaultMode)
			if err != nil {
				return err
			}
			loc := cfg.Location()

			appLog.Info("thesiscal starting",
				"version", version,
				"listen", cfg.Listen,
				"timezone", loc.String(),
				"default_mode", cfg.DefaultMode,
				"session_ttl", ttl.String(),
				"ics_count", len(cfg.ICS),
			)

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			index := daymeta.NewIndex()
			refresher := &daymeta.Refresher{
				Index:       index,
				Fetcher:     ics.NewFetcher(cfg.CacheDir, nil),
				Sources:     sourcesFrom(cfg),
				Location:    loc,
				HorizonDays: cfg.HorizonDays,
			}
			store := session.NewStore(session.Options{
				TTL:      ttl,
				Defaults: selection.Options{Mode: mode, AllowDeselect: cfg.AllowDeselect},
				Location: loc,
			})
			defer store.Close()

			sched := cron.New(cron.WithLocation(loc))
			if len(refresher.Sources) > 0 {
				if _, err := sched.AddFunc(cfg.RefreshCron, func() { _ = refresher.Refresh(ctx) }); err != nil {
					return fmt.Errorf("refresh schedule %q: %w", cfg.RefreshCron, err)
				}
				go func() { _ = refresher.Refresh(ctx) }()
			}
			if _, err := sched.AddFunc(cfg.SweepCron, func() { store.Sweep(time.Now()) }); err != nil {
				return fmt.Errorf("sweep schedule %q: %w", cfg.SweepCron, err)
			}
			sched.Start()
			defer func() {
				// Wait for running jobs, but not forever.
				done := sched.Stop()
				select {
				case <-done.Done():
				case <-time.After(5 * time.Second):
				}
			}()

			err = web.NewServer(cfg, index, store, refresher).Run(ctx)
			appLog.Info("thesiscal exiting", "live_sessions", store.Len())
			return err
		},
	}
}
