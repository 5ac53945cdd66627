package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/sysdash/sysdash/internal/errors"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".sysdash.yaml"
	// GlobalConfigDir is the directory for the user config, relative to home.
	GlobalConfigDir = ".config/sysdash"
	// GlobalConfigFile is the user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. SYSDASH_SERVER_URL.
	EnvPrefix = "SYSDASH"
)

// Load reads config from path, layered over the defaults and under any
// SYSDASH_* environment overrides. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'sysdash config init' to create one, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .sysdash.yaml in the current directory
// 3. ~/.config/sysdash/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if global := GlobalConfigPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalConfigPath returns ~/.config/sysdash/config.yaml, or "" when the home
// directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault finds and loads the config, returning defaults (with
// environment overrides) when no file exists. The returned path is empty in
// that case.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Watch loads path and calls onChange with the reloaded config each time the
// file is written. A reload that fails to parse or validate is passed as an
// error and the previous config stays in effect for the caller.
func Watch(path string, onChange func(*Config, error)) error {
	if path == "" {
		return errors.New(errors.ErrConfig, "No config file to watch", "")
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := parseConfig(v, path)
		if err == nil {
			err = Validate(cfg)
		}
		if err != nil {
			onChange(nil, err)
			return
		}
		onChange(cfg, nil)
	})
	v.WatchConfig()
	return nil
}

// newViper creates a viper instance with defaults and environment overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+where)
	}

	cfg.Log.File = ExpandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply even when
// the file omits the key.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.socket_path", d.Server.SocketPath)
	v.SetDefault("server.csrf_token", d.Server.CSRFToken)
	v.SetDefault("server.timeout", d.Server.Timeout.String())
	v.SetDefault("thresholds.cpu.warning", d.Thresholds.CPU.Warning)
	v.SetDefault("thresholds.cpu.danger", d.Thresholds.CPU.Danger)
	v.SetDefault("thresholds.memory.warning", d.Thresholds.Memory.Warning)
	v.SetDefault("thresholds.memory.danger", d.Thresholds.Memory.Danger)
	v.SetDefault("thresholds.disk.warning", d.Thresholds.Disk.Warning)
	v.SetDefault("thresholds.disk.danger", d.Thresholds.Disk.Danger)
	v.SetDefault("alerts.cpu_danger", d.Alerts.CPUDanger)
	v.SetDefault("alerts.memory_danger", d.Alerts.MemoryDanger)
	v.SetDefault("alerts.temperature_warning", d.Alerts.TemperatureWarning)
	v.SetDefault("alerts.disk_warning", d.Alerts.DiskWarning)
	v.SetDefault("alerts.max_retained", d.Alerts.MaxRetained)
	v.SetDefault("alerts.dedupe", d.Alerts.Dedupe)
	v.SetDefault("charts.window", d.Charts.Window)
	v.SetDefault("placeholders.not_available", d.Placeholders.NotAvailable)
	v.SetDefault("placeholders.unknown", d.Placeholders.Unknown)
	v.SetDefault("placeholders.hostname_unavailable", d.Placeholders.HostnameUnavailable)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}
