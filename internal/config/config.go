package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the travelql server configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Index    IndexConfig    `yaml:"index"`
	Query    QueryConfig    `yaml:"query"`
	Resolver ResolverConfig `yaml:"resolver"`
	GraphQL  GraphQLConfig  `yaml:"graphql"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"` // empty = auth disabled
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	QueryTimeoutMs   int      `yaml:"query_timeout_ms"` // 0 = bounded by the request only
}

// IndexConfig names the secondary index over the travel keyspace.
type IndexConfig struct {
	Name string `yaml:"name"`
}

// QueryConfig bounds index queries.
type QueryConfig struct {
	MaxResults int `yaml:"max_results"`
}

// ResolverConfig selects failure policies: "degrade" or "surface".
type ResolverConfig struct {
	FailurePolicy string            `yaml:"failure_policy"`
	FieldPolicies map[string]string `yaml:"field_policies"` // field name -> policy
}

// GraphQLConfig controls the GraphQL endpoint.
type GraphQLConfig struct {
	Path     string `yaml:"path"`
	Explorer *bool  `yaml:"explorer"` // default: true
}

// ExplorerEnabled reports whether the GraphiQL page is served.
func (g GraphQLConfig) ExplorerEnabled() bool {
	return g.Explorer == nil || *g.Explorer
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "travel:idx"
	}
	if c.Query.MaxResults <= 0 {
		c.Query.MaxResults = 10000
	}
	if c.Resolver.FailurePolicy == "" {
		c.Resolver.FailurePolicy = PolicyDegrade
	}
	if c.GraphQL.Path == "" {
		c.GraphQL.Path = "/graphql"
	}
}

// Database drivers and failure policies accepted by Validate.
const (
	DriverRedis  = "redis"
	DriverValkey = "valkey"

	PolicyDegrade = "degrade"
	PolicySurface = "surface"
)

// knownFields are the query fields a field policy may name.
var knownFields = map[string]struct{}{
	"airlinesByCountry": {},
	"airportsByCountry": {},
	"airlineByKey":      {},
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis, DriverValkey:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverValkey, c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Database.DB < 0 {
		return fmt.Errorf("database.db must not be negative, got %d", c.Database.DB)
	}
	if c.Database.QueryTimeoutMs < 0 {
		return fmt.Errorf("database.query_timeout_ms must not be negative, got %d", c.Database.QueryTimeoutMs)
	}
	if err := validatePolicy("resolver.failure_policy", c.Resolver.FailurePolicy); err != nil {
		return err
	}
	for field, p := range c.Resolver.FieldPolicies {
		if _, ok := knownFields[field]; !ok {
			return fmt.Errorf("resolver.field_policies: unknown field %q", field)
		}
		if err := validatePolicy("resolver.field_policies."+field, p); err != nil {
			return err
		}
	}
	if !strings.HasPrefix(c.GraphQL.Path, "/") {
		return fmt.Errorf("graphql.path must start with /, got %q", c.GraphQL.Path)
	}
	switch c.GraphQL.Path {
	case "/health", "/metrics":
		return fmt.Errorf("graphql.path %q collides with an operational route", c.GraphQL.Path)
	}
	return nil
}

func validatePolicy(name, p string) error {
	switch p {
	case PolicyDegrade, PolicySurface:
		return nil
	}
	return fmt.Errorf("%s must be %q or %q, got %q", name, PolicyDegrade, PolicySurface, p)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
