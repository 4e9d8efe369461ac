package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// field binds a dot-notation key to a Config value.
type field struct {
	get func(*Config) any
	set func(*Config, string) error
}

var fields = map[string]field{
	"server.host": {
		get: func(c *Config) any { return c.Server.Host },
		set: func(c *Config, s string) error { c.Server.Host = s; return nil },
	},
	"server.port": {
		get: func(c *Config) any { return c.Server.Port },
		set: func(c *Config, s string) error { return setInt(&c.Server.Port, s) },
	},
	"server.environment": {
		get: func(c *Config) any { return c.Server.Environment },
		set: func(c *Config, s string) error { c.Server.Environment = s; return nil },
	},
	"server.cors_origins": {
		get: func(c *Config) any { return c.Server.CORSOrigins },
		set: func(c *Config, s string) error { c.Server.CORSOrigins = splitList(s); return nil },
	},
	"server.body_limit": {
		get: func(c *Config) any { return c.Server.BodyLimit },
		set: func(c *Config, s string) error { c.Server.BodyLimit = s; return nil },
	},
	"server.rate_limit.requests": {
		get: func(c *Config) any { return c.Server.RateLimit.Requests },
		set: func(c *Config, s string) error { return setInt(&c.Server.RateLimit.Requests, s) },
	},
	"server.rate_limit.window": {
		get: func(c *Config) any { return c.Server.RateLimit.Window.String() },
		set: func(c *Config, s string) error { return setDuration(&c.Server.RateLimit.Window, s) },
	},
	"bedrock.region": {
		get: func(c *Config) any { return c.Bedrock.Region },
		set: func(c *Config, s string) error { c.Bedrock.Region = s; return nil },
	},
	"bedrock.profile": {
		get: func(c *Config) any { return c.Bedrock.Profile },
		set: func(c *Config, s string) error { c.Bedrock.Profile = s; return nil },
	},
	"bedrock.max_tokens": {
		get: func(c *Config) any { return c.Bedrock.MaxTokens },
		set: func(c *Config, s string) error {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %s", s)
			}
			c.Bedrock.MaxTokens = n
			return nil
		},
	},
	"defaults.model": {
		get: func(c *Config) any { return c.Defaults.Model },
		set: func(c *Config, s string) error { c.Defaults.Model = s; return nil },
	},
	"defaults.history_capacity": {
		get: func(c *Config) any { return c.Defaults.HistoryCapacity },
		set: func(c *Config, s string) error { return setInt(&c.Defaults.HistoryCapacity, s) },
	},
	"retry.plan.attempts": {
		get: func(c *Config) any { return c.Retry.Plan.Attempts },
		set: func(c *Config, s string) error { return setInt(&c.Retry.Plan.Attempts, s) },
	},
	"retry.plan.base_delay": {
		get: func(c *Config) any { return c.Retry.Plan.BaseDelay.String() },
		set: func(c *Config, s string) error { return setDuration(&c.Retry.Plan.BaseDelay, s) },
	},
	"retry.integrate.attempts": {
		get: func(c *Config) any { return c.Retry.Integrate.Attempts },
		set: func(c *Config, s string) error { return setInt(&c.Retry.Integrate.Attempts, s) },
	},
	"retry.integrate.base_delay": {
		get: func(c *Config) any { return c.Retry.Integrate.BaseDelay.String() },
		set: func(c *Config, s string) error { return setDuration(&c.Retry.Integrate.BaseDelay, s) },
	},
	"retry.quality.attempts": {
		get: func(c *Config) any { return c.Retry.Quality.Attempts },
		set: func(c *Config, s string) error { return setInt(&c.Retry.Quality.Attempts, s) },
	},
	"retry.quality.base_delay": {
		get: func(c *Config) any { return c.Retry.Quality.BaseDelay.String() },
		set: func(c *Config, s string) error { return setDuration(&c.Retry.Quality.BaseDelay, s) },
	},
	"log.level": {
		get: func(c *Config) any { return c.Log.Level },
		set: func(c *Config, s string) error { c.Log.Level = s; return nil },
	},
	"log.format": {
		get: func(c *Config) any { return c.Log.Format },
		set: func(c *Config, s string) error { c.Log.Format = s; return nil },
	},
}

// Keys returns every settable configuration key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dot-notation key formatted for display.
func Get(cfg *Config, key string) (string, error) {
	f, ok := fields[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	switch v := f.get(cfg).(type) {
	case []string:
		return strings.Join(v, ","), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Set parses value into the field named by key and revalidates cfg.
// cfg is left unchanged when the value is rejected.
func Set(cfg *Config, key, value string) error {
	f, ok := fields[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	next := *cfg
	next.Server.CORSOrigins = append([]string(nil), cfg.Server.CORSOrigins...)
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// settings returns the typed value of every key, for writing YAML.
func settings(cfg *Config) map[string]any {
	out := make(map[string]any, len(fields))
	for k, f := range fields {
		out[k] = f.get(cfg)
	}
	return out
}

func setInt(dst *int, s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer: %s", s)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration: %s", s)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
