// Package config holds the hostnamed daemon configuration.
//
// Config is read from /etc/hostnamed/config.yaml unless another path is
// given. A missing file means defaults; fields present in the file
// override the defaults one by one. Command-line flags override both.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hostnamed/internal/bus"
	"hostnamed/internal/logging"
	"hostnamed/platform"

	"gopkg.in/yaml.v3"
)

// Config describes one hostnamed process.
type Config struct {
	ReadOnly bool   `yaml:"read_only"`
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat          string `yaml:"log_format"`
	StaticHostnameFile string `yaml:"static_hostname_file"`
	MachineInfoFile    string `yaml:"machine_info_file"`
	// Journal is the change history database. Empty disables it.
	Journal string `yaml:"journal"`
	SysRoot string `yaml:"sys_root"`
	// Bus is system or session.
	Bus string `yaml:"bus"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		LogLevel:           logging.LevelInfo,
		LogFormat:          logging.FormatText,
		StaticHostnameFile: platform.StaticHostnamePath,
		MachineInfoFile:    platform.MachineInfoPath,
		Journal:            platform.JournalPath,
		SysRoot:            platform.SysRoot,
		Bus:                bus.KindSystem,
	}
}

// Path returns the config file location, honouring HOSTNAMED_CONFIG.
func Path() string {
	if p := os.Getenv("HOSTNAMED_CONFIG"); p != "" {
		return p
	}
	return platform.ConfigPath
}

// Load reads the config file at path on top of Defaults. If the file
// does not exist, the defaults are returned (not an error).
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot start with.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.LogFormat))
	}
	switch c.Bus {
	case "", bus.KindSystem, bus.KindSession:
	default:
		errs = append(errs, fmt.Errorf("invalid bus %q", c.Bus))
	}
	if strings.TrimSpace(c.StaticHostnameFile) == "" {
		errs = append(errs, errors.New("static_hostname_file must not be empty"))
	}
	if strings.TrimSpace(c.MachineInfoFile) == "" {
		errs = append(errs, errors.New("machine_info_file must not be empty"))
	}
	return errors.Join(errs...)
}
