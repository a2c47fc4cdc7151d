package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// load .env from the working directory
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/exp/slices"

	"github.com/JamiaHub/JAMIAHUB/challenge"
	"github.com/JamiaHub/JAMIAHUB/engine"
	"github.com/JamiaHub/JAMIAHUB/rules"
)

type Config struct {
	Log    LogConfig
	Rules  RulesConfig
	Search SearchConfig
	Runner RunnerConfig
}

type LogConfig struct {
	Level string
	File  string
}

type RulesConfig struct {
	Backend rules.Backend
}

type SearchConfig struct {
	Depth         int
	CapturesFirst bool
}

type RunnerConfig struct {
	TestTimeout time.Duration
	HostTimeout time.Duration
}

// Load reads the configuration from the environment. Unset keys take defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		Rules: RulesConfig{Backend: rules.Backend(getEnv("RULES_BACKEND", string(rules.BackendGoose)))},
	}
	if !slices.Contains(rules.Backends, cfg.Rules.Backend) {
		return nil, fmt.Errorf("RULES_BACKEND: %w: %q", rules.ErrUnknownBackend, cfg.Rules.Backend)
	}

	var err error
	if cfg.Search.Depth, err = getEnvInt("SEARCH_DEPTH", engine.DefaultDepth); err != nil {
		return nil, err
	}
	if cfg.Search.Depth < 1 {
		return nil, fmt.Errorf("SEARCH_DEPTH must be at least 1, got %d", cfg.Search.Depth)
	}
	if cfg.Search.CapturesFirst, err = getEnvBool("SEARCH_CAPTURES_FIRST", false); err != nil {
		return nil, err
	}
	if cfg.Runner.TestTimeout, err = getEnvMillis("RUNNER_TEST_TIMEOUT_MS", challenge.DefaultTestTimeout); err != nil {
		return nil, err
	}
	if cfg.Runner.HostTimeout, err = getEnvMillis("RUNNER_HOST_TIMEOUT_MS", challenge.DefaultHostTimeout); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) SearchOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.Depth = c.Search.Depth
	opts.CapturesFirst = c.Search.CapturesFirst
	return opts
}

func (c *Config) RunnerOptions() challenge.Options {
	return challenge.Options{TestTimeout: c.Runner.TestTimeout, HostTimeout: c.Runner.HostTimeout}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvMillis(key string, fallback time.Duration) (time.Duration, error) {
	ms, err := getEnvInt(key, int(fallback/time.Millisecond))
	if err != nil {
		return 0, err
	}
	if ms <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
