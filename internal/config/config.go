// Package config loads speedydisk settings from defaults, a TOML config
// file, SPEEDYDISK_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/nace/speedydisk/internal/system"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configType = "toml"
	configName = "config"
	envPrefix  = "SPEEDYDISK"
	appDir     = "speedydisk"
)

// Keys
const (
	KeyMountRoot            = "mount_root"
	KeyMarkerFile           = "marker_file"
	KeyPreferencesPath      = "preferences_path"
	KeyPreferencesNamespace = "preferences_namespace"
	KeyBackend              = "backend"
	KeyFilesystem           = "filesystem"
	KeyWatchInterval        = "watch_interval"
	KeyLoginLabel           = "login_label"
)

var keys = []string{
	KeyMountRoot,
	KeyMarkerFile,
	KeyPreferencesPath,
	KeyPreferencesNamespace,
	KeyBackend,
	KeyFilesystem,
	KeyWatchInterval,
	KeyLoginLabel,
}

var backends = map[string]bool{"auto": true, "diskutil": true, "tmpfs": true}

// Config holds the resolved settings
type Config struct {
	MountRoot            string        `mapstructure:"mount_root"`
	MarkerFile           string        `mapstructure:"marker_file"`
	PreferencesPath      string        `mapstructure:"preferences_path"`
	PreferencesNamespace string        `mapstructure:"preferences_namespace"`
	Backend              string        `mapstructure:"backend"`
	Filesystem           string        `mapstructure:"filesystem"`
	WatchInterval        time.Duration `mapstructure:"watch_interval"`
	LoginLabel           string        `mapstructure:"login_label"`

	// File is the config file that was read, empty if none
	File string `mapstructure:"-"`
}

// Options controls where Load looks for settings
type Options struct {
	// File is an explicit config file; it must exist when set
	File string
	// Dir is searched for config.toml when File is empty. Defaults to Dir().
	Dir string
	// Flags are bound over file and environment values. A flag is bound
	// to the key with dashes in place of underscores.
	Flags *pflag.FlagSet
}

// Dir returns the default configuration directory
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+appDir)
	}
	return filepath.Join(base, appDir)
}

// FlagName returns the command line flag bound to key
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func setDefaults(v *viper.Viper, dir string) {
	if runtime.GOOS == "darwin" {
		v.SetDefault(KeyMountRoot, "/Volumes")
	} else {
		v.SetDefault(KeyMountRoot, "/mnt/speedydisk")
	}
	v.SetDefault(KeyMarkerFile, ".speedydisk")
	v.SetDefault(KeyPreferencesPath, filepath.Join(dir, "preferences.db"))
	v.SetDefault(KeyPreferencesNamespace, "com.speedydisk")
	v.SetDefault(KeyBackend, "auto")
	v.SetDefault(KeyFilesystem, "HFS+")
	v.SetDefault(KeyWatchInterval, 2*time.Second)
	v.SetDefault(KeyLoginLabel, "com.speedydisk.launcher")
}

// Load resolves the configuration
func Load(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = Dir()
	}

	v := viper.New()
	setDefaults(v, dir)
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for _, key := range keys {
			if flag := opts.Flags.Lookup(FlagName(key)); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	for _, path := range []*string{&cfg.MountRoot, &cfg.PreferencesPath} {
		expanded, err := system.ExpandHome(*path)
		if err != nil {
			return nil, err
		}
		*path = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the resolved settings
func (c *Config) Validate() error {
	if !filepath.IsAbs(c.MountRoot) {
		return fmt.Errorf("%s must be an absolute path: %q", KeyMountRoot, c.MountRoot)
	}
	if c.MarkerFile == "" || strings.ContainsRune(c.MarkerFile, '/') {
		return fmt.Errorf("%s must be a plain file name: %q", KeyMarkerFile, c.MarkerFile)
	}
	if c.PreferencesPath == "" {
		return fmt.Errorf("%s must be set", KeyPreferencesPath)
	}
	if !backends[c.Backend] {
		return fmt.Errorf("unsupported %s: %q (use auto, diskutil or tmpfs)", KeyBackend, c.Backend)
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("%s must be positive", KeyWatchInterval)
	}
	return nil
}
