// Package svcconfig loads antboxd's runtime configuration from a YAML file,
// environment variables, and command-line flags, in that precedence order
// (flags win, then env, then file, then defaults): a persistent
// config-file flag, viper.AutomaticEnv for env overrides, and
// flag-to-key bindings the caller sets up with BindFlags.
package svcconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Server groups the HTTP front door's settings (internal/transport/http).
type Server struct {
	Port           int
	Debug          bool
	BodyLimit      string
	AllowedOrigins []string
	RateLimit      float64
}

// Repository groups which repository.Repository backend to construct and its
// connection settings.
type Repository struct {
	Backend  string // "mem", "couchdb", "postgres", "mongo"
	URL      string
	Database string
	Username string
	Password string
}

// Storage groups which storage.Storage backend to construct.
type Storage struct {
	Backend string // "mem", "s3", "bolt"
	Bucket  string
	Region  string
	Path    string // bolt file path
}

// Events groups the event bus backend.
type Events struct {
	Backend string // "mem", "redis"
	Addr    string
}

// Auth groups token signing and password policy settings
// (internal/authctx).
type Auth struct {
	JWTSecret     string
	JWTExpiry     time.Duration
	RequireStrong bool
}

// Logging groups internal/obslog settings.
type Logging struct {
	Level     string
	Format    string
	AddCaller bool
}

// Config is antboxd's complete runtime configuration.
type Config struct {
	Tenant     string
	Server     Server
	Repository Repository
	Storage    Storage
	Events     Events
	Auth       Auth
	Logging    Logging
}

// Default returns a Config with in-memory, zero-configuration backends,
// suitable for local development and the test suite.
func Default() Config {
	return Config{
		Tenant: "default",
		Server: Server{
			Port: 8080, BodyLimit: "5M",
			AllowedOrigins: []string{"*"}, RateLimit: 20,
		},
		Repository: Repository{Backend: "mem"},
		Storage:    Storage{Backend: "mem"},
		Events:     Events{Backend: "mem"},
		Auth:       Auth{JWTExpiry: 24 * time.Hour},
		Logging:    Logging{Level: "info", Format: "text"},
	}
}

// BindFlags registers the persistent flags runServer reads
// configuration overrides from and binds each to its viper key.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("tenant", "", "tenant identifier")
	flags.Int("port", 0, "HTTP server port")
	flags.String("repository-backend", "", "repository backend: mem, couchdb, postgres, mongo")
	flags.String("repository-url", "", "repository connection URL")
	flags.String("storage-backend", "", "storage backend: mem, s3, bolt")
	flags.String("events-backend", "", "event bus backend: mem, redis")
	flags.String("events-addr", "", "event bus address")
	flags.String("jwt-secret", "", "JWT signing secret")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text, json")

	for _, name := range []string{
		"tenant", "port", "repository-backend", "repository-url",
		"storage-backend", "events-backend", "events-addr",
		"jwt-secret", "log-level", "log-format",
	} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// Load builds a Config starting from Default, overlaid with config-file
// values (if configFile is set and readable), then environment variables,
// then any flags BindFlags bound into v.
func Load(v *viper.Viper, configFile string) (Config, error) {
	cfg := Default()

	v.SetEnvPrefix("ANTBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("svcconfig: reading config file: %w", err)
		}
	}

	if v.IsSet("tenant") {
		cfg.Tenant = v.GetString("tenant")
	}
	if v.IsSet("port") {
		cfg.Server.Port = v.GetInt("port")
	}
	if v.IsSet("repository-backend") {
		cfg.Repository.Backend = v.GetString("repository-backend")
	}
	if v.IsSet("repository-url") {
		cfg.Repository.URL = v.GetString("repository-url")
	}
	if v.IsSet("storage-backend") {
		cfg.Storage.Backend = v.GetString("storage-backend")
	}
	if v.IsSet("events-backend") {
		cfg.Events.Backend = v.GetString("events-backend")
	}
	if v.IsSet("events-addr") {
		cfg.Events.Addr = v.GetString("events-addr")
	}
	if v.IsSet("jwt-secret") {
		cfg.Auth.JWTSecret = v.GetString("jwt-secret")
	}
	if v.IsSet("log-level") {
		cfg.Logging.Level = v.GetString("log-level")
	}
	if v.IsSet("log-format") {
		cfg.Logging.Format = v.GetString("log-format")
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations that would fail at construction time
// rather than surfacing an opaque error deep in a backend constructor.
func (c Config) Validate() error {
	switch c.Repository.Backend {
	case "mem", "couchdb", "postgres", "mongo":
	default:
		return fmt.Errorf("svcconfig: unknown repository backend %q", c.Repository.Backend)
	}
	switch c.Storage.Backend {
	case "mem", "s3", "bolt":
	default:
		return fmt.Errorf("svcconfig: unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Events.Backend {
	case "mem", "redis":
	default:
		return fmt.Errorf("svcconfig: unknown events backend %q", c.Events.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("svcconfig: invalid server port %d", c.Server.Port)
	}
	return nil
}
