package syncconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/marcus/hours/internal/timeofday"
)

// ServerConfig holds remote schedule service settings.
type ServerConfig struct {
	URL       string `json:"url,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	Timeout   string `json:"timeout,omitempty"`    // duration string, default "30s"
	UTCOffset string `json:"utc_offset,omitempty"` // fixed offset, default "+07:00"
}

// EditorConfig holds editor timing and bounds.
type EditorConfig struct {
	FieldDebounce   string `json:"field_debounce,omitempty"`   // default "100ms"
	CommitDebounce  string `json:"commit_debounce,omitempty"`  // default "3s"
	ConfirmDuration string `json:"confirm_duration,omitempty"` // default "1.2s"
	SoftBound       string `json:"soft_bound,omitempty"`       // default "10:00 pm"
}

// Config is the global hours config stored at ~/.config/hours/config.json.
type Config struct {
	Server ServerConfig `json:"server"`
	Editor EditorConfig `json:"editor"`
}

// Defaults for every setting.
const (
	DefaultServerURL       = "http://localhost:8000"
	DefaultTimeout         = 30 * time.Second
	DefaultUTCOffset       = "+07:00"
	DefaultFieldDebounce   = 100 * time.Millisecond
	DefaultCommitDebounce  = 3 * time.Second
	DefaultConfirmDuration = 1200 * time.Millisecond
	DefaultSoftBound       = "10:00 pm"
)

// ConfigDir returns ~/.config/hours, creating it if necessary.
// HOURS_CONFIG_DIR overrides the location.
func ConfigDir() (string, error) {
	dir := os.Getenv("HOURS_CONFIG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "hours")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// LoadConfig reads the global config from ~/.config/hours/config.json.
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config.json: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes the global config to ~/.config/hours/config.json (0600,
// it may hold an API key).
func SaveConfig(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0600)
}

// setting describes one config key: its env override, how to read and write
// it in Config, and how to validate a value.
type setting struct {
	env      string
	def      string
	get      func(*Config) string
	set      func(*Config, string)
	validate func(string) error
}

func validDuration(v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	return nil
}

func validOffset(v string) error {
	_, err := timeofday.ParseOffset(v)
	return err
}

func validTime(v string) error {
	_, err := timeofday.Parse(v)
	return err
}

var settings = map[string]setting{
	"server.url": {
		env: "HOURS_SERVER_URL", def: DefaultServerURL,
		get: func(c *Config) string { return c.Server.URL },
		set: func(c *Config, v string) { c.Server.URL = v },
	},
	"server.api_key": {
		env: "HOURS_API_KEY",
		get: func(c *Config) string { return c.Server.APIKey },
		set: func(c *Config, v string) { c.Server.APIKey = v },
	},
	"server.timeout": {
		env: "HOURS_HTTP_TIMEOUT", def: DefaultTimeout.String(),
		get:      func(c *Config) string { return c.Server.Timeout },
		set:      func(c *Config, v string) { c.Server.Timeout = v },
		validate: validDuration,
	},
	"server.utc_offset": {
		env: "HOURS_UTC_OFFSET", def: DefaultUTCOffset,
		get:      func(c *Config) string { return c.Server.UTCOffset },
		set:      func(c *Config, v string) { c.Server.UTCOffset = v },
		validate: validOffset,
	},
	"editor.field_debounce": {
		env: "HOURS_FIELD_DEBOUNCE", def: DefaultFieldDebounce.String(),
		get:      func(c *Config) string { return c.Editor.FieldDebounce },
		set:      func(c *Config, v string) { c.Editor.FieldDebounce = v },
		validate: validDuration,
	},
	"editor.commit_debounce": {
		env: "HOURS_COMMIT_DEBOUNCE", def: DefaultCommitDebounce.String(),
		get:      func(c *Config) string { return c.Editor.CommitDebounce },
		set:      func(c *Config, v string) { c.Editor.CommitDebounce = v },
		validate: validDuration,
	},
	"editor.confirm_duration": {
		env: "HOURS_CONFIRM_DURATION", def: DefaultConfirmDuration.String(),
		get:      func(c *Config) string { return c.Editor.ConfirmDuration },
		set:      func(c *Config, v string) { c.Editor.ConfirmDuration = v },
		validate: validDuration,
	},
	"editor.soft_bound": {
		env: "HOURS_SOFT_BOUND", def: DefaultSoftBound,
		get:      func(c *Config) string { return c.Editor.SoftBound },
		set:      func(c *Config, v string) { c.Editor.SoftBound = v },
		validate: validTime,
	},
}

// Keys returns every settable config key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Source says where a resolved value came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

// Get resolves key with priority env > config.json > default. Invalid env or
// file values fall through to the next source.
func Get(key string) (string, Source, error) {
	s, ok := settings[key]
	if !ok {
		return "", "", fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	valid := func(v string) bool { return v != "" && (s.validate == nil || s.validate(v) == nil) }
	if v := os.Getenv(s.env); valid(v) {
		return v, SourceEnv, nil
	}
	cfg, err := LoadConfig()
	if err == nil {
		if v := s.get(cfg); valid(v) {
			return v, SourceFile, nil
		}
	}
	return s.def, SourceDefault, nil
}

// Set validates and stores value for key in config.json. An empty value
// removes the key.
func Set(key, value string) error {
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if value != "" && s.validate != nil {
		if err := s.validate(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	s.set(cfg, value)
	return SaveConfig(cfg)
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return settings[key].env
}

func getDuration(key string) time.Duration {
	v, _, _ := Get(key)
	d, err := time.ParseDuration(v)
	if err != nil {
		d, _ = time.ParseDuration(settings[key].def)
	}
	return d
}

// GetServerURL returns the schedule service URL.
// Priority: HOURS_SERVER_URL env > config.json server.url > default.
func GetServerURL() string {
	v, _, _ := Get("server.url")
	return strings.TrimRight(v, "/")
}

// GetAPIKey returns the bearer API key, or "".
func GetAPIKey() string {
	v, _, _ := Get("server.api_key")
	return v
}

// GetHTTPTimeout returns the client request timeout (default 30s).
func GetHTTPTimeout() time.Duration { return getDuration("server.timeout") }

// GetLocation returns the fixed zone wire times are converted into
// (default +07:00).
func GetLocation() *time.Location {
	v, _, _ := Get("server.utc_offset")
	loc, err := timeofday.ParseOffset(v)
	if err != nil {
		loc, _ = timeofday.ParseOffset(DefaultUTCOffset)
	}
	return loc
}

// GetFieldDebounce returns the per-field keystroke debounce (default 100ms).
func GetFieldDebounce() time.Duration { return getDuration("editor.field_debounce") }

// GetCommitDebounce returns the per-schedule commit debounce (default 3s).
func GetCommitDebounce() time.Duration { return getDuration("editor.commit_debounce") }

// GetConfirmDuration returns how long the "saved" confirmation shows
// (default 1.2s).
func GetConfirmDuration() time.Duration { return getDuration("editor.confirm_duration") }

// GetSoftBound returns the latest end after which no frame may be appended
// (default 10:00 pm).
func GetSoftBound() timeofday.TimeOfDay {
	v, _, _ := Get("editor.soft_bound")
	t, err := timeofday.Parse(v)
	if err != nil {
		return timeofday.MustParse(DefaultSoftBound)
	}
	return t
}
