package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mchmarny/purk/pkg/risk"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file name inside the app directory.
	FileName = "config.yaml"

	DefaultLogLevel = "info"
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 8080

	dirMode  = 0700
	fileMode = 0600
)

var (
	// ErrInvalid is returned when a config fails validation.
	ErrInvalid = errors.New("invalid config")

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Config represents app config object.
type Config struct {
	LogLevel string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn warning error"`
	Units    Units  `yaml:"units" json:"units"`
	Server   Server `yaml:"server" json:"server"`
}

// Units are applied to readings entered without one.
type Units struct {
	Creatinine risk.Unit `yaml:"creatinine_72h" json:"creatinine_72h" validate:"oneof=mg/dL umol/L"`
	Nadir      risk.Unit `yaml:"nadir" json:"nadir" validate:"oneof=mg/dL umol/L"`
}

// Server configures the local form server.
type Server struct {
	Host        string `yaml:"host" json:"host" validate:"ip"`
	Port        int    `yaml:"port" json:"port" validate:"min=1,max=65535"`
	OpenBrowser bool   `yaml:"open_browser" json:"open_browser"`
}

// Default returns the config written on first run.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Units: Units{
			Creatinine: risk.UmolL,
			Nadir:      risk.MgDL,
		},
		Server: Server{
			Host:        DefaultHost,
			Port:        DefaultPort,
			OpenBrowser: true,
		},
	}
}

// Validate checks all fields against their constraints.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config required", ErrInvalid)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// fillDefaults sets zero fields, so partial files stay valid.
func (c *Config) fillDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.Units.Creatinine == "" {
		c.Units.Creatinine = d.Units.Creatinine
	}
	if c.Units.Nadir == "" {
		c.Units.Nadir = d.Units.Nadir
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
}

// Save validates c and writes it to path.
func Save(path string, c *Config) error {
	if path == "" {
		return errors.New("config path required")
	}
	if err := c.Validate(); err != nil {
		return err
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file: %s: %w", path, err)
	}
	return nil
}

// Load reads the config at path. Missing fields take their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w: error unmarshalling config file: %s: %w", ErrInvalid, path, err)
	}
	c.fillDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ReadOrCreate reads the config at path, writing the default one first if
// the file does not exist.
func ReadOrCreate(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return Load(path)
}

// GetOrCreateHomeDir returns the app directory in the current user's home.
// The created flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to get user home dir: %w", err)
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("failed to create dir: %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
