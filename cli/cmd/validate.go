package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/pelhamlabs/dropkit/config"
	"github.com/pelhamlabs/dropkit/tui"
	"github.com/pelhamlabs/dropkit/types"
	"github.com/pelhamlabs/dropkit/validate"
)

// ValidateCommand returns the validate command: batch-validate paths
// against the effective configuration without starting the widget.
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate files against the configured admission rules",
		ArgsUsage: "<file> [<file> ...]",
		Flags:     CommonFlags(),
		Action:    validateAction,
	}
}

func validateAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("validate requires at least one file argument", 1)
	}

	cfg, err := config.Load(c.String("config"), nil)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	files := make([]types.FileInfo, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		info, err := tui.FileInfoFromPath(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("cannot read %s: %v", path, err), 1)
		}
		files = append(files, info)
	}

	batch := validate.CheckBatch(c.Context, files, &cfg.Validation, 0, nil)

	for _, f := range batch.Accepted {
		fmt.Printf("ok       %s (%s)\n", f.Name, humanize.IBytes(uint64(f.Size)))
	}
	for _, rej := range batch.Rejected {
		for _, e := range rej.Errors {
			fmt.Printf("rejected %s: %s [%s]\n", rej.File.Name, e.Message, e.Code)
		}
	}
	for _, w := range batch.Warnings {
		fmt.Printf("warning  %s\n", w)
	}

	if len(batch.Rejected) > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d file(s) rejected", len(batch.Rejected), len(files)), 2)
	}
	fmt.Printf("%d file(s) accepted, %s total\n", len(batch.Accepted), humanize.IBytes(uint64(batch.TotalSize)))
	return nil
}
