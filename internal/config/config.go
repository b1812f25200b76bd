// Package config loads parley settings from defaults, an optional config
// file, a .env file and PARLEY_* environment variables, in that order.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PARLEY_"

// Config is the resolved application configuration.
type Config struct {
	// Graph is the dialogue file opened by default.
	Graph        string `mapstructure:"graph"`
	StartNode    string `mapstructure:"start_node"`
	ContinueHint string `mapstructure:"continue_hint"`
	LogLevel     string `mapstructure:"log_level"`

	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
}

// ServerConfig configures the HTTP playback API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StoreConfig selects where playback sessions live.
type StoreConfig struct {
	// Driver is "memory" or "redis".
	Driver        string        `mapstructure:"driver"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`

	// EncryptionKey is a base64 AES-256 key. When set, sessions are stored sealed.
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys still decrypt sessions sealed before a key rotation.
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"graph":         "dialogue.json",
		"start_node":    "1",
		"continue_hint": "(click to continue)",
		"log_level":     "info",
		"server": map[string]any{
			"addr": ":8080",
		},
		"store": map[string]any{
			"driver":     "memory",
			"redis_addr": "localhost:6379",
			"redis_db":   0,
			"ttl":        "0s",
		},
	}
}

// envKeys maps environment variables, without EnvPrefix, to setting paths.
var envKeys = map[string][]string{
	"GRAPH":          {"graph"},
	"START_NODE":     {"start_node"},
	"CONTINUE_HINT":  {"continue_hint"},
	"LOG_LEVEL":      {"log_level"},
	"SERVER_ADDR":    {"server", "addr"},
	"STORE_DRIVER":   {"store", "driver"},
	"REDIS_ADDR":     {"store", "redis_addr"},
	"REDIS_PASSWORD": {"store", "redis_password"},
	"REDIS_DB":       {"store", "redis_db"},
	"STORE_PREFIX":   {"store", "prefix"},
	"STORE_TTL":      {"store", "ttl"},
	"STORE_KEY":      {"store", "encryption_key"},
}

// SearchNames are the config files looked up when no path is given.
var SearchNames = []string{"parley.yaml", "parley.yml", "parley.toml", "parley.json"}

// Loader resolves a Config.
type Loader struct {
	// File is an explicit config file. Empty means search Dir for SearchNames.
	File string
	// Dir is where config and .env files are looked up. Empty means ".".
	Dir string
	// Getenv reads the process environment. Nil means os.Getenv.
	Getenv func(string) string
}

// Load resolves the configuration with default lookup rules.
func Load(file string) (*Config, error) {
	return (&Loader{File: file}).Load()
}

// Load merges every source and decodes the result.
func (l *Loader) Load() (*Config, error) {
	settings := Defaults()

	path, err := l.configPath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		fileSettings, err := readFile(path)
		if err != nil {
			return nil, err
		}
		merge(settings, fileSettings)
	}

	env, err := l.readEnv()
	if err != nil {
		return nil, err
	}
	for name, keys := range envKeys {
		if v, ok := env[EnvPrefix+name]; ok && v != "" {
			set(settings, keys, v)
		}
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) dir() string {
	if l.Dir == "" {
		return "."
	}
	return l.Dir
}

func (l *Loader) configPath() (string, error) {
	if l.File != "" {
		if _, err := os.Stat(l.File); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return l.File, nil
	}
	for _, name := range SearchNames {
		p := filepath.Join(l.dir(), name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// readEnv returns .env values overlaid with the process environment.
func (l *Loader) readEnv() (map[string]string, error) {
	env, err := godotenv.Read(filepath.Join(l.dir(), ".env"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
		env = map[string]string{}
	}

	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for name := range envKeys {
		if v := getenv(EnvPrefix + name); v != "" {
			env[EnvPrefix+name] = v
		}
	}
	return env, nil
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	out := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	case ".toml":
		err = toml.Unmarshal(data, &out)
	case ".json":
		err = json.Unmarshal(data, &out)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return out, nil
}

// merge copies src into dst, descending into nested tables.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func set(m map[string]any, keys []string, v any) {
	for _, k := range keys[:len(keys)-1] {
		sub, ok := m[k].(map[string]any)
		if !ok {
			sub = map[string]any{}
			m[k] = sub
		}
		m = sub
	}
	m[keys[len(keys)-1]] = v
}
