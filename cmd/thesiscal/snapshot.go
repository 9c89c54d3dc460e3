package main

import (
	"github.com/urfave/cli/v2"

	"thesiscal/internal/capture"
)

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Capture the rendered /calendar page of a running server to PNG.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "page to capture (default: /calendar on the configured listen address)"},
			&cli.StringFlag{Name: "out", Usage: "PNG output path (default: snapshot.output from config)"},
			&cli.StringFlag{Name: "month", Usage: "month to show, YYYY-MM"},
			&cli.StringFlag{Name: "session", Usage: "session whose selection to show"},
			&cli.IntFlag{Name: "width", Usage: "viewport width in pixels"},
			&cli.IntFlag{Name: "height", Usage: "viewport height in pixels"},
			&cli.DurationFlag{Name: "timeout", Usage: "overall capture timeout"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			opts := capture.Options{
				URL:     c.String("url"),
				Output:  cfg.Snapshot.Output,
				Width:   cfg.Snapshot.Width,
				Height:  cfg.Snapshot.Height,
				Timeout: cfg.Snapshot.TimeoutDuration(),
			}
			if opts.URL == "" {
				if opts.URL, err = capture.PageURL(cfg.Listen, c.String("month"), c.String("session")); err != nil {
					return err
				}
			}
			if v := c.String("out"); v != "" {
				opts.Output = v
			}
			if v := c.Int("width"); v > 0 {
				opts.Width = v
			}
			if v := c.Int("height"); v > 0 {
				opts.Height = v
			}
			if v := c.Duration("timeout"); v > 0 {
				opts.Timeout = v
			}
			return capture.Snapshot(c.Context, opts)
		},
	}
}
