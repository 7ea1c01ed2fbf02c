package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/purk/pkg/config"
	"github.com/mchmarny/purk/pkg/form"
	"github.com/mchmarny/purk/pkg/logging"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "purk"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"

	debugFlagName  = "debug"
	formatFlagName = "format"
	configFlagName = "config"

	configEnvVar = "PURK_CONFIG"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger(os.Stderr, config.DefaultLogLevel, true)

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Path   string
	Debug  bool
	Format string
	Config *config.Config
}

func (a *appConfig) defaults() form.Defaults {
	return unitDefaults(a.Config)
}

func unitDefaults(c *config.Config) form.Defaults {
	return form.Defaults{
		CreatinineUnit: c.Units.Creatinine,
		NadirUnit:      c.Units.Nadir,
	}
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:                 "Pediatric kidney risk (PURK, SCN1 and PURK+) calculator",
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Writer:                os.Stdout,
		Metadata:              map[string]any{},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlagName,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&cli.StringFlag{
				Name:  formatFlagName,
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
			&cli.StringFlag{
				Name:    configFlagName,
				Usage:   fmt.Sprintf("Path to the config file (default: $HOME/.%s/%s)", appName, config.FileName),
				Sources: cli.EnvVars(configEnvVar),
			},
		},
		Commands: []*cli.Command{
			newEvalCmd(),
			newMatrixCmd(),
			newSchemaCmd(),
			newConfigCmd(),
			newServerCmd(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			path := cmd.String(configFlagName)
			if path == "" {
				dir, _, err := config.GetOrCreateHomeDir(appName)
				if err != nil {
					return ctx, fmt.Errorf("resolving config dir: %w", err)
				}
				path = filepath.Join(dir, config.FileName)
			}

			cfg, err := config.ReadOrCreate(path)
			if err != nil {
				return ctx, fmt.Errorf("loading config: %w", err)
			}

			debug := cmd.Bool(debugFlagName)
			level := cfg.LogLevel
			if debug {
				level = "debug"
			}
			logging.Level.Set(logging.ParseLogLevel(level))
			slog.Debug("config loaded", "path", path)

			format := formatJSON
			switch strings.ToLower(cmd.String(formatFlagName)) {
			case formatJSON:
			case formatYAML, "yml":
				format = formatYAML
			default:
				return ctx, fmt.Errorf("unsupported output format: %s", cmd.String(formatFlagName))
			}

			cmd.Root().Metadata[appConfigKey] = &appConfig{
				Path:   path,
				Debug:  debug,
				Format: format,
				Config: cfg,
			}
			return ctx, nil
		},
	}
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		if err := e.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return nil
	}

	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
