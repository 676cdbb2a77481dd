package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/sergev/diskcopy/dc42"
	"go.uber.org/zap/zapcore"
)

//go:embed diskcopy.toml
var defaultConfigData []byte

// Config represents the entire TOML configuration structure
type Config struct {
	LogLevel           string `toml:"log_level"`
	IgnoreDataChecksum bool   `toml:"ignore_data_checksum"`
	VerifyAfterCreate  bool   `toml:"verify_after_create"`
	DiskFormat         []Code `toml:"disk_format"`
	FormatByte         []Code `toml:"format_byte"`
}

// Code is an extra header code accepted by validation
type Code struct {
	Value int    `toml:"value"`
	Name  string `toml:"name"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:          "info",
		VerifyAfterCreate: true,
	}
}

// Path determines the config file path based on the operating system
func Path() (string, error) {
	var configDir string
	var err error

	switch runtime.GOOS {
	case "windows":
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "diskcopy")
	default:
		configDir, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine user home directory: %w", err)
		}
	}

	return filepath.Join(configDir, ".diskcopy"), nil
}

// Initialize loads the configuration file at path, or at the default
// location when path is empty. A missing file at the default location is
// created from the embedded default.
func Initialize(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	path, err := Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create parent directory if needed (for Windows)
		configDir := filepath.Dir(path)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory %s: %w", configDir, err)
		}
		if err := os.WriteFile(path, defaultConfigData, 0644); err != nil {
			return nil, fmt.Errorf("failed to create default config file at %s: %w", path, err)
		}
	}
	return Load(path)
}

// Load parses and validates the configuration file at path.
func Load(path string) (*Config, error) {
	conf := Default()
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config at %s: %w", path, err)
	}
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	return conf, nil
}

func (conf *Config) validate() error {
	if _, err := zapcore.ParseLevel(conf.LogLevel); err != nil {
		return fmt.Errorf("bad log_level %q: %w", conf.LogLevel, err)
	}
	for _, list := range []struct {
		key   string
		codes []Code
	}{
		{"disk_format", conf.DiskFormat},
		{"format_byte", conf.FormatByte},
	} {
		for _, c := range list.codes {
			if c.Value < 0 || c.Value > 0xff {
				return fmt.Errorf("%s value %d does not fit in a byte", list.key, c.Value)
			}
			if c.Name == "" {
				return errors.New(list.key + " entry has an empty name")
			}
		}
	}
	return nil
}

// Level returns the configured log level.
func (conf *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Codes returns the built-in header codes extended with the configured ones.
func (conf *Config) Codes() *dc42.Codes {
	codes := dc42.DefaultCodes()
	for _, c := range conf.DiskFormat {
		codes = codes.WithDiskFormat(uint8(c.Value), c.Name)
	}
	for _, c := range conf.FormatByte {
		codes = codes.WithFormatByte(uint8(c.Value), c.Name)
	}
	return codes
}
