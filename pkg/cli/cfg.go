package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mchmarny/purk/pkg/config"
	"github.com/urfave/cli/v3"
)

const forceFlagName = "force"

func newConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Config file operations",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective config",
				Action: cmdConfigShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: cmdConfigPath,
			},
			{
				Name:   "reset",
				Usage:  "Overwrite the config file with defaults",
				Action: cmdConfigReset,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  forceFlagName,
						Usage: "Required to overwrite an existing config",
					},
				},
			},
		},
	}
}

func cmdConfigShow(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	return encode(cmd.Root().Writer, cfg.Format, cfg.Config)
}

func cmdConfigPath(_ context.Context, cmd *cli.Command) error {
	_, err := fmt.Fprintln(cmd.Root().Writer, getConfig(cmd).Path)
	return err
}

func cmdConfigReset(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	if _, err := os.Stat(cfg.Path); err == nil && !cmd.Bool(forceFlagName) {
		return fmt.Errorf("config exists at %s, use --%s to overwrite", cfg.Path, forceFlagName)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	d := config.Default()
	if err := config.Save(cfg.Path, d); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	slog.Info("config reset", "path", cfg.Path)

	cfg.Config = d
	return encode(cmd.Root().Writer, cfg.Format, d)
}
