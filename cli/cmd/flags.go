// Package cmd provides CLI commands for the dropkit binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags.
var (
	// ConfigFlag points at a dropkit.yaml configuration file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to dropkit.yaml (optional)",
	}

	// VariantFlag selects the presentation variant.
	VariantFlag = &cli.StringFlag{
		Name:    "variant",
		Aliases: []string{"v"},
		Usage:   "Widget variant: button, dropzone, gallery, manager",
		Value:   "manager",
	}

	// EventLogFlag streams lifecycle events to a file as msgpack frames.
	EventLogFlag = &cli.StringFlag{
		Name:  "event-log",
		Usage: "Write lifecycle events to this file",
	}

	// SeedFlag fixes the simulator RNG for reproducible demos.
	SeedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Simulator RNG seed (0 seeds from the clock)",
	}
)

// CommonFlags returns the flags shared by all commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
	}
}
