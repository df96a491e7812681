package hostsim

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/rangers/pkg/logger"
	"github.com/urfave/cli/v3"
)

// NewCommand builds the hostsim command line.
func NewCommand() *cli.Command {
	var (
		cfg       Config
		cycles    int64
		start     string
		logFormat string
	)

	return &cli.Command{
		Name:  "hostsim",
		Usage: "Play the widget host against a running rangers provider",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Usage:       "Base URL of the service",
				Value:       DefaultBaseURL,
				Sources:     cli.EnvVars("RANGERS_HOSTSIM_URL"),
				Destination: &cfg.BaseURL,
			},
			&cli.StringFlag{
				Name:        "hero",
				Usage:       "Selected character id or display name",
				Value:       DefaultHero,
				Sources:     cli.EnvVars("RANGERS_HOSTSIM_HERO"),
				Destination: &cfg.Hero,
			},
			&cli.StringFlag{
				Name:        "family",
				Usage:       "Widget family (small or medium)",
				Value:       DefaultFamily,
				Destination: &cfg.Family,
			},
			&cli.IntFlag{
				Name:        "cycles",
				Aliases:     []string{"n"},
				Usage:       "Number of timelines to request",
				Value:       DefaultCycles,
				Destination: &cycles,
			},
			&cli.StringFlag{
				Name:        "start",
				Usage:       "Simulated start time in RFC3339 (default: server clock)",
				Destination: &start,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "HTTP request timeout",
				Value:       DefaultTimeout,
				Destination: &cfg.Timeout,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log output format (text or json)",
				Value:       logger.FormatText,
				Destination: &logFormat,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "Log every presented entry",
				Destination: &cfg.Verbose,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			if cycles < 1 {
				return fmt.Errorf("cycles must be at least 1, got %d", cycles)
			}
			cfg.Cycles = int(cycles)

			if start != "" {
				t, err := time.Parse(time.RFC3339Nano, start)
				if err != nil {
					return fmt.Errorf("invalid start time: %w", err)
				}
				cfg.Start = t
			}

			if err := logger.Init(logger.WithFormat(logFormat)); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			_, err := Run(ctx, &cfg, logger.Named("hostsim"))
			return err
		},
	}
}
