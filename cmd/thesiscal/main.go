package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"thesiscal/internal/config"
	"thesiscal/internal/ics"
	appLog "thesiscal/internal/log"
)

var version = "0.1.0-dev"

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		appLog.Error("thesiscal failed", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "thesiscal",
		Usage:   "Calendar range-selection service for ThesisFlow scheduling dialogs.",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "./thesiscal.yaml",
				Usage:   "path to the YAML config (created with defaults if missing)",
				EnvVars: []string{"THESISCAL_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "listen",
				Usage:   "HTTP listen address (overrides config)",
				EnvVars: []string{"THESISCAL_LISTEN"},
			},
			&cli.StringFlag{
				Name:    "timezone",
				Usage:   "IANA timezone deciding today and event days (overrides config)",
				EnvVars: []string{"THESISCAL_TIMEZONE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error (overrides config)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			matrixCommand(),
			snapshotCommand(),
		},
	}
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if v := c.String("listen"); v != "" {
		cfg.Listen = v
	}
	if v := c.String("timezone"); v != "" {
		cfg.Timezone = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

func sourcesFrom(cfg *config.Config) []ics.Source {
	out := make([]ics.Source, 0, len(cfg.ICS))
	for _, s := range cfg.ICS {
		out = append(out, ics.Source{ID: s.SourceID(), Name: s.Name, URL: s.URL})
	}
	return out
}
