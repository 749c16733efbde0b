package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// HTTP service
	HTTPAddr          string   `mapstructure:"http_addr" yaml:"http_addr"`
	CORSOrigins       []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	MaxUploadMB       int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
	ShutdownGraceSec  int      `mapstructure:"shutdown_grace_sec" yaml:"shutdown_grace_sec"`

	// Session store
	SessionBackend  string `mapstructure:"session_backend" yaml:"session_backend"`
	SessionDir      string `mapstructure:"session_dir" yaml:"session_dir"`
	SessionTTLMin   int    `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`
	SessionSweepSec int    `mapstructure:"session_sweep_sec" yaml:"session_sweep_sec"`
	SessionIDFormat string `mapstructure:"session_id_format" yaml:"session_id_format"`

	// Logging
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	PrettyLogs bool   `mapstructure:"pretty_logs" yaml:"pretty_logs"`
}

// Keys lists every configuration key in file order.
var Keys = []string{
	"http_addr", "cors_origins", "max_upload_mb", "request_timeout_sec", "shutdown_grace_sec",
	"session_backend", "session_dir", "session_ttl_min", "session_sweep_sec", "session_id_format",
	"log_level", "pretty_logs",
}

// SessionTTL is the session lifetime; zero means sessions never expire.
func (c *Global) SessionTTL() time.Duration {
	if c.SessionTTLMin <= 0 {
		return 0
	}
	return time.Duration(c.SessionTTLMin) * time.Minute
}

// SweepInterval is how often expired sessions are purged.
func (c *Global) SweepInterval() time.Duration {
	return time.Duration(c.SessionSweepSec) * time.Second
}

// RequestTimeout bounds the work done for one HTTP request.
func (c *Global) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// ShutdownGrace bounds graceful server shutdown.
func (c *Global) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownGraceSec) * time.Second
}

// MaxUploadBytes is the upload body limit in bytes.
func (c *Global) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Dir returns ~/.sheetlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sheetlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sheetlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by callers.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SHEETLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8000")
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("request_timeout_sec", 30)
	v.SetDefault("shutdown_grace_sec", 10)
	v.SetDefault("session_backend", "memory")
	v.SetDefault("session_dir", "")
	v.SetDefault("session_ttl_min", 1440)
	v.SetDefault("session_sweep_sec", 300)
	v.SetDefault("session_id_format", "uuid")
	v.SetDefault("log_level", "info")
	v.SetDefault("pretty_logs", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.SessionDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.SessionDir = filepath.Join(dir, "sessions")
	}
	return &c, nil
}

// Set assigns one key from its string form, as typed on the command line.
func (c *Global) Set(key, value string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(value)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid non-negative int for %s: %q", key, value)
		}
		return i, nil
	}
	var err error
	switch key {
	case "http_addr":
		c.HTTPAddr = value
	case "cors_origins":
		var origins []string
		for _, o := range strings.Split(value, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSOrigins = origins
	case "max_upload_mb":
		c.MaxUploadMB, err = atoi()
	case "request_timeout_sec":
		c.RequestTimeoutSec, err = atoi()
	case "shutdown_grace_sec":
		c.ShutdownGraceSec, err = atoi()
	case "session_backend":
		switch value {
		case "memory", "file", "badger", "sqlite":
			c.SessionBackend = value
		default:
			return fmt.Errorf("invalid session_backend: %s (use memory, file, badger or sqlite)", value)
		}
	case "session_dir":
		c.SessionDir = value
	case "session_ttl_min":
		c.SessionTTLMin, err = atoi()
	case "session_sweep_sec":
		c.SessionSweepSec, err = atoi()
	case "session_id_format":
		switch value {
		case "uuid", "nanoid", "ksuid":
			c.SessionIDFormat = value
		default:
			return fmt.Errorf("invalid session_id_format: %s (use uuid, nanoid or ksuid)", value)
		}
	case "log_level":
		c.LogLevel = value
	case "pretty_logs":
		c.PrettyLogs, err = strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool for pretty_logs: %q", value)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}
