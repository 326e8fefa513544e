// Package config loads confgen settings from confgen.yml and CONFGEN_* env vars.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/spf13/viper"
)

// Defaults mirror the layout confgen has always used.
const (
	DefaultConfigDir = "configs"
	DefaultTemplate  = "config.j2"
	DefaultExtension = ".config"
	DefaultFileMode  = "0644"
)

// Settings holds the resolved generator settings.
type Settings struct {
	ConfigDir string
	Template  string
	Extension string
	FileMode  fs.FileMode
}

// Load reads confgen.yml from dir if present. Environment variables with the
// CONFGEN_ prefix override file values. A missing file yields the defaults.
func Load(dir string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("confgen")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("CONFGEN")
	v.AutomaticEnv()

	v.SetDefault("config_dir", DefaultConfigDir)
	v.SetDefault("template", DefaultTemplate)
	v.SetDefault("extension", DefaultExtension)
	v.SetDefault("file_mode", DefaultFileMode)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read confgen.yml: %w", err)
		}
	}

	mode, err := parseFileMode(v.GetString("file_mode"))
	if err != nil {
		return nil, err
	}

	cfg := &Settings{
		ConfigDir: v.GetString("config_dir"),
		Template:  v.GetString("template"),
		Extension: v.GetString("extension"),
		FileMode:  mode,
	}

	if cfg.ConfigDir == "" {
		return nil, fmt.Errorf("config_dir must not be empty")
	}
	if cfg.Template == "" {
		return nil, fmt.Errorf("template must not be empty")
	}

	return cfg, nil
}

// parseFileMode accepts octal permission strings such as "0644" or "600".
func parseFileMode(s string) (fs.FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file_mode %q: %w", s, err)
	}
	if n > 0o777 {
		return 0, fmt.Errorf("invalid file_mode %q: only permission bits are allowed", s)
	}
	return fs.FileMode(n), nil
}
