// Package config resolves settings from defaults, an optional config file,
// HAMANASI_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without zoneinfo

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (HAMANASI_BACKEND_URL).
const EnvPrefix = "HAMANASI"

// Config is the resolved process configuration.
type Config struct {
	Addr              string `mapstructure:"addr"`
	DB                string `mapstructure:"db"`
	Log               string `mapstructure:"log"`
	BackendURL        string `mapstructure:"backend_url"`
	MapsAPIKey        string `mapstructure:"maps_api_key"`
	RedisAddr         string `mapstructure:"redis_addr"`
	Timezone          string `mapstructure:"timezone"`
	DefaultPropertyID int64  `mapstructure:"default_property_id"`
	SecureCookies     bool   `mapstructure:"secure_cookies"`
	CSRFKey           string `mapstructure:"csrf_key"`
}

var defaults = map[string]any{
	"addr":                ":8080",
	"db":                  "hamanasi.sqlite3",
	"log":                 "",
	"backend_url":         "http://127.0.0.1:5000",
	"maps_api_key":        "",
	"redis_addr":          "",
	"timezone":            "Africa/Nairobi",
	"default_property_id": 1,
	"secure_cookies":      false,
	"csrf_key":            "",
}

const usage = `Usage: hamanasi [flags]

Flags:
  -c, -config <path>      config file (toml, yaml or json; default: none)
  -d, -db <path>          SQLite database path (default: hamanasi.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -b, -backend <url>      backend API root (default: http://127.0.0.1:5000)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Every setting can also be given as HAMANASI_<KEY>, e.g. HAMANASI_MAPS_API_KEY.
`

// Load parses args (without the program name) and resolves the
// configuration. It returns flag.ErrHelp when help was requested.
func Load(args []string, stdout io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("hamanasi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	flagKeys := map[string]string{
		"db": "db", "d": "db",
		"addr": "addr", "a": "addr",
		"backend": "backend_url", "b": "backend_url",
		"log": "log", "l": "log",
	}
	values := map[string]*string{}
	for name := range flagKeys {
		values[name] = fs.String(name, "", "")
	}

	fs.Usage = func() { fmt.Fprint(stdout, usage) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return nil, err
		}
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configPath, err)
		}
	}

	// Only flags given on the command line override the other sources.
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, *values[f.Name])
		}
	})

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend_url must be an http(s) URL, got %q", c.BackendURL)
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.DefaultPropertyID <= 0 {
		return fmt.Errorf("default_property_id must be positive, got %d", c.DefaultPropertyID)
	}
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	return nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
