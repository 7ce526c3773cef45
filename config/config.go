package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agentharness/logging"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Environment variable names.
const (
	EnvKBPath       = "KB_PATH"
	EnvManifestDir  = "HARNESS_MANIFEST_DIR"
	EnvSchemaPath   = "HARNESS_SCHEMA_PATH"
	EnvSessionLog   = "HARNESS_SESSION_LOG"
	EnvLogLevel     = "HARNESS_LOG_LEVEL"
	EnvLogFormat    = "HARNESS_LOG_FORMAT"
	EnvHTTPAddr     = "HARNESS_HTTP_ADDR"
	EnvLookupWorker = "HARNESS_LOOKUP_WORKERS"
	EnvMaxToolCalls = "HARNESS_MAX_TOOL_CALLS"
	EnvConfigFile   = "HARNESS_CONFIG"
	EnvDotEnvFile   = "HARNESS_ENV_FILE"
)

// Config holds the harness configuration.
type Config struct {
	KB        KBConfig       `yaml:"kb"`
	Manifests ManifestConfig `yaml:"manifests"`
	Schema    SchemaConfig   `yaml:"schema"`
	Session   SessionConfig  `yaml:"session"`
	Logging   LoggingConfig  `yaml:"logging"`
	HTTP      HTTPConfig     `yaml:"http"`
	Limits    LimitsConfig   `yaml:"limits"`
}

// KBConfig holds knowledge-base lookup settings.
type KBConfig struct {
	Path    string `yaml:"path"`
	Workers int    `yaml:"workers"`
}

// ManifestConfig holds the agent manifest location.
type ManifestConfig struct {
	Dir string `yaml:"dir"`
}

// SchemaConfig holds the summary schema location.
type SchemaConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig holds the session log location.
type SessionConfig struct {
	LogPath string `yaml:"log_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// HTTPConfig holds HTTP transport settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LimitsConfig holds per-run limits.
type LimitsConfig struct {
	MaxToolCalls int `yaml:"max_tool_calls"` // 0 = unlimited
}

// Options configures Load.
type Options struct {
	// ConfigFile overrides HARNESS_CONFIG.
	ConfigFile string
	// EnvFile overrides HARNESS_ENV_FILE (default ".env").
	EnvFile string
	// LookupEnv resolves process environment variables. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Default returns a configuration with every default applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// Load builds the configuration. Process variables take precedence over
// values from the .env file, which never overrides them.
func Load(optFns ...func(o *Options)) (Config, error) {
	opts := Options{LookupEnv: os.LookupEnv}
	for _, fn := range optFns {
		fn(&opts)
	}

	lookup := opts.LookupEnv

	envFile := opts.EnvFile
	if envFile == "" {
		if v, ok := lookup(EnvDotEnvFile); ok && v != "" {
			envFile = v
		} else {
			envFile = ".env"
		}
	}

	dotenv, err := readDotEnv(envFile)
	if err != nil {
		return Config{}, err
	}
	lookup = layered(opts.LookupEnv, dotenv)

	var cfg Config

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile, _ = lookup(EnvConfigFile)
	}
	if configFile != "" {
		if err := cfg.loadFile(configFile, lookup); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(optFns ...func(o *Options)) Config {
	cfg, err := Load(optFns...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.KB.Path == "" {
		c.KB.Path = "kb"
	}
	if c.KB.Workers == 0 {
		c.KB.Workers = 4
	}
	if c.Manifests.Dir == "" {
		c.Manifests.Dir = "manifests"
	}
	if c.Schema.Path == "" {
		c.Schema.Path = filepath.Join("schemas", "summary.schema.json")
	}
	if c.Session.LogPath == "" {
		c.Session.LogPath = "SESSION_LOG.md"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging.format must be \"text\" or \"json\", got %q", ErrInvalidConfig, c.Logging.Format)
	}
	if c.KB.Workers < 0 {
		return fmt.Errorf("%w: kb.workers must not be negative, got %d", ErrInvalidConfig, c.KB.Workers)
	}
	if c.Limits.MaxToolCalls < 0 {
		return fmt.Errorf("%w: limits.max_tool_calls must not be negative, got %d", ErrInvalidConfig, c.Limits.MaxToolCalls)
	}
	return nil
}

func (c *Config) loadFile(path string, lookup func(string) (string, bool)) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data, lookup)

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvKBPath:      &c.KB.Path,
		EnvManifestDir: &c.Manifests.Dir,
		EnvSchemaPath:  &c.Schema.Path,
		EnvSessionLog:  &c.Session.LogPath,
		EnvLogLevel:    &c.Logging.Level,
		EnvLogFormat:   &c.Logging.Format,
		EnvHTTPAddr:    &c.HTTP.Addr,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		EnvLookupWorker: &c.KB.Workers,
		EnvMaxToolCalls: &c.Limits.MaxToolCalls,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = n
	}
	return nil
}

// readDotEnv returns the variables of path, or nothing when it does not exist.
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return vars, nil
}

func layered(primary func(string) (string, bool), fallback map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := fallback[key]
		return v, ok
	}
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte, lookup func(string) (string, bool)) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val, _ := lookup(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}
