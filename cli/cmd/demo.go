package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pelhamlabs/dropkit/config"
	"github.com/pelhamlabs/dropkit/engine"
	"github.com/pelhamlabs/dropkit/eventlog"
	"github.com/pelhamlabs/dropkit/log"
	"github.com/pelhamlabs/dropkit/metrics"
	"github.com/pelhamlabs/dropkit/transport"
	"github.com/pelhamlabs/dropkit/transport/httpx"
	"github.com/pelhamlabs/dropkit/transport/s3x"
	"github.com/pelhamlabs/dropkit/transport/sim"
	"github.com/pelhamlabs/dropkit/tui"
	"github.com/pelhamlabs/dropkit/types"
)

// DemoCommand returns the demo command: an interactive widget session over
// the configured transport (simulator by default).
func DemoCommand() *cli.Command {
	return &cli.Command{
		Name:   "demo",
		Usage:  "Run an interactive upload widget session",
		Flags:  append(CommonFlags(), VariantFlag, EventLogFlag, SeedFlag),
		Action: demoAction,
	}
}

func demoAction(c *cli.Context) error {
	variant := c.String("variant")
	if !tui.IsVariantSupported(variant) {
		return cli.Exit(fmt.Sprintf("unknown variant %q (supported: %v)", variant, tui.SupportedVariants()), 1)
	}

	cfg, err := config.Load(c.String("config"), func(cfg *config.Config) {
		if seed := c.Int64("seed"); seed != 0 {
			cfg.Transport.Sim.Seed = seed
		}
	})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	adapter, err := buildAdapter(c.Context, cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer adapter.Close()

	opts := []engine.Option{
		WithSessionLogger(variant),
		engine.WithCollector(metrics.NewCollector("demo", variant, cfg.Transport.Kind)),
	}

	var logFile *os.File
	if path := c.String("event-log"); path != "" {
		logFile, err = os.Create(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("cannot create event log: %v", err), 1)
		}
		defer logFile.Close()
		opts = append(opts, engine.WithSink(eventlog.NewWriter(logFile)))
	}

	eng := engine.New(cfg, adapter, opts...)
	return tui.Run(eng, variant)
}

// buildAdapter constructs the transport named by the configuration.
func buildAdapter(ctx context.Context, cfg *config.Config) (transport.Adapter, error) {
	switch cfg.Transport.Kind {
	case "", "sim":
		return sim.New(cfg.Transport.Sim), nil
	case "http":
		retries := httpx.DefaultRetries
		if cfg.Transport.Retries != nil {
			retries = *cfg.Transport.Retries
		}
		return httpx.New(httpx.Config{
			URL:     cfg.Transport.Endpoint,
			Headers: cfg.Transport.Headers,
			Timeout: cfg.Transport.Timeout.Duration,
			Retries: retries,
		})
	case "s3":
		return s3x.New(ctx, s3x.Config{
			Bucket: cfg.Transport.Bucket,
			Prefix: cfg.Transport.Prefix,
			Region: cfg.Transport.Region,
		})
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Transport.Kind)
	}
}

// WithSessionLogger builds the engine logger option for a demo session.
// Logs go to stderr so they never corrupt the rendered TUI.
func WithSessionLogger(variant string) engine.Option {
	return engine.WithLogger(log.NewLogger("demo-"+types.Version, variant))
}
