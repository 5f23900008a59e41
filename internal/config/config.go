package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/leofalp/webscout/core/extract"
	"github.com/leofalp/webscout/core/fetch"
	"github.com/leofalp/webscout/providers/tool/pypi"
	"github.com/leofalp/webscout/providers/tool/webpage"
	"github.com/leofalp/webscout/providers/tool/websearch"
)

// Environment variables read by [FromEnv].
const (
	EnvTimeout      = "WEBSCOUT_TIMEOUT"
	EnvReadTimeout  = "WEBSCOUT_READ_TIMEOUT"
	EnvDelay        = "WEBSCOUT_DELAY"
	EnvUserAgent    = "WEBSCOUT_USER_AGENT"
	EnvMaxChars     = "WEBSCOUT_MAX_CHARS"
	EnvMaxBodyBytes = "WEBSCOUT_MAX_BODY_BYTES"
	EnvSearchURL    = "WEBSCOUT_SEARCH_URL"
	EnvPyPIURL      = "WEBSCOUT_PYPI_URL"
	EnvLogLevel     = "WEBSCOUT_LOG_LEVEL"
	EnvLogFormat    = "WEBSCOUT_LOG_FORMAT"
	// EnvLogLevelFallback is consulted when EnvLogLevel is unset.
	EnvLogLevelFallback = "LOG_LEVEL"
)

// Accepted ranges.
const (
	MinTimeout   = time.Second
	MaxTimeout   = 120 * time.Second
	MaxDelay     = time.Minute
	MaxChars     = 100_000
	MinBodyBytes = 1024
	MaxBodyBytes = 100 * 1024 * 1024
)

// Log formats.
const (
	LogFormatText = "console"
	LogFormatJSON = "json"
)

const defaultEnvFile = ".env"

// Config holds every tunable of the toolset.
type Config struct {
	Timeout      time.Duration
	ReadTimeout  time.Duration
	Delay        time.Duration
	UserAgent    string
	MaxChars     int
	MaxBodyBytes int64
	SearchURL    string
	PyPIURL      string
	LogLevel     slog.Level
	LogFormat    string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeout:      fetch.DefaultTimeout,
		ReadTimeout:  webpage.DefaultTimeout,
		Delay:        fetch.DefaultDelay,
		UserAgent:    fetch.DefaultUserAgent,
		MaxChars:     extract.DefaultMaxChars,
		MaxBodyBytes: fetch.DefaultMaxBodySize,
		SearchURL:    websearch.DefaultBaseURL,
		PyPIURL:      pypi.DefaultBaseURL,
		LogLevel:     slog.LevelInfo,
		LogFormat:    LogFormatText,
	}
}

// Load reads envFiles (or ./.env when none are given and it exists) into the
// process environment without overriding variables already set, then
// returns [FromEnv] over os.LookupEnv.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", defaultEnvFile, err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("loading env files: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv overlays the variables found through lookup on [Default] and
// validates the result. Every malformed variable is reported.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	for key, dst := range map[string]*time.Duration{
		EnvTimeout:     &cfg.Timeout,
		EnvReadTimeout: &cfg.ReadTimeout,
		EnvDelay:       &cfg.Delay,
	} {
		if v, ok := get(key); ok {
			d, err := ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			*dst = d
		}
	}

	if v, ok := get(EnvUserAgent); ok {
		cfg.UserAgent = v
	}
	if v, ok := get(EnvMaxChars); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvMaxChars, err))
		} else {
			cfg.MaxChars = n
		}
	}
	if v, ok := get(EnvMaxBodyBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvMaxBodyBytes, err))
		} else {
			cfg.MaxBodyBytes = n
		}
	}
	if v, ok := get(EnvSearchURL); ok {
		cfg.SearchURL = v
	}
	if v, ok := get(EnvPyPIURL); ok {
		cfg.PyPIURL = v
	}

	level, ok := get(EnvLogLevel)
	if !ok {
		level, ok = get(EnvLogLevelFallback)
	}
	if ok {
		l, err := ParseLogLevel(level)
		if err != nil {
			errs = append(errs, err)
		} else {
			cfg.LogLevel = l
		}
	}
	if v, ok := get(EnvLogFormat); ok {
		cfg.LogFormat = strings.ToLower(v)
	}

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, cfg.Validate()
}

// Validate reports every out-of-range field. Nothing is clamped.
func (c Config) Validate() error {
	var errs []error

	if c.Timeout < MinTimeout || c.Timeout > MaxTimeout {
		errs = append(errs, fmt.Errorf("timeout %v outside [%v, %v]", c.Timeout, MinTimeout, MaxTimeout))
	}
	if c.ReadTimeout < MinTimeout || c.ReadTimeout > MaxTimeout {
		errs = append(errs, fmt.Errorf("read timeout %v outside [%v, %v]", c.ReadTimeout, MinTimeout, MaxTimeout))
	}
	if c.Delay < 0 || c.Delay > MaxDelay {
		errs = append(errs, fmt.Errorf("delay %v outside [0s, %v]", c.Delay, MaxDelay))
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		errs = append(errs, errors.New("user agent must not be empty"))
	}
	if c.MaxChars < 1 || c.MaxChars > MaxChars {
		errs = append(errs, fmt.Errorf("max chars %d outside [1, %d]", c.MaxChars, MaxChars))
	}
	if c.MaxBodyBytes < MinBodyBytes || c.MaxBodyBytes > MaxBodyBytes {
		errs = append(errs, fmt.Errorf("max body bytes %d outside [%d, %d]", c.MaxBodyBytes, MinBodyBytes, MaxBodyBytes))
	}
	for name, raw := range map[string]string{"search url": c.SearchURL, "pypi url": c.PyPIURL} {
		if err := checkURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		errs = append(errs, fmt.Errorf("log format %q: want %q or %q", c.LogFormat, LogFormatText, LogFormatJSON))
	}

	return errors.Join(errs...)
}

// FetchOptions returns the fetcher options matching c.
func (c Config) FetchOptions() []fetch.Option {
	return []fetch.Option{
		fetch.WithTimeout(c.Timeout),
		fetch.WithDelay(c.Delay),
		fetch.WithUserAgent(c.UserAgent),
		fetch.WithMaxBodySize(c.MaxBodyBytes),
	}
}

// ParseDuration accepts Go durations ("1500ms", "2s") and bare seconds ("10", "0.5").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// ParseLogLevel parses DEBUG, INFO, WARN, WARNING or ERROR (case-insensitive).
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// LogLevelString returns a human-readable string for the log level.
func LogLevelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}
