package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Store
		Databases
		CORS
		Log
		HealthCheck
	}

	HTTP struct {
		Port int32
		Host string
		Mode string // gin mode: debug, release, test
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Store struct {
		Driver         string
		MongoURI       string
		SQLitePath     string
		PostgresDSN    string
		ConnectTimeout time.Duration // bounds the startup connect and ping only
	}
	// Databases names the logical database holding each collection.
	Databases struct {
		Book    string
		Library string
		Creator string
	}
	CORS struct {
		AllowedOrigins []string
	}
	Log struct {
		Level  string
		Format string // json or console
	}
	HealthCheck struct {
		Enabled  bool
		Schedule string // Cron format: "*/5 * * * *" = every 5 minutes
	}
)

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5001)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Store defaults
	v.SetDefault("store_driver", StoreDriverMongo)
	v.SetDefault("mongodb_uri", DefaultMongoURI)
	v.SetDefault("sqlite_path", DefaultSQLitePath)
	v.SetDefault("postgres_dsn", DefaultPostgresDSN)
	v.SetDefault("store_connect_timeout", "10s")

	v.SetDefault("book_database", DefaultBookDatabase)
	v.SetDefault("library_database", DefaultLibraryDatabase)
	v.SetDefault("creator_database", DefaultCreatorDatabase)

	v.SetDefault("cors_allowed_origins", DefaultAllowedOrigin)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("health_check_enabled", true)
	v.SetDefault("health_check_schedule", "*/5 * * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
			Mode: v.GetString("GIN_MODE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Store: Store{
			Driver:         strings.ToLower(v.GetString("STORE_DRIVER")),
			MongoURI:       v.GetString("MONGODB_URI"),
			SQLitePath:     v.GetString("SQLITE_PATH"),
			PostgresDSN:    v.GetString("POSTGRES_DSN"),
			ConnectTimeout: v.GetDuration("STORE_CONNECT_TIMEOUT"),
		},
		Databases: Databases{
			Book:    v.GetString("BOOK_DATABASE"),
			Library: v.GetString("LIBRARY_DATABASE"),
			Creator: v.GetString("CREATOR_DATABASE"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		HealthCheck: HealthCheck{
			Enabled:  v.GetBool("HEALTH_CHECK_ENABLED"),
			Schedule: v.GetString("HEALTH_CHECK_SCHEDULE"),
		},
	}
}

// Addr returns the host:port the HTTP server listens on.
func (h HTTP) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Validate reports configuration that would prevent startup.
func (s Store) Validate() error {
	switch s.Driver {
	case StoreDriverMongo:
		if s.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the %s driver", s.Driver)
		}
	case StoreDriverSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s driver", s.Driver)
		}
	case StoreDriverPostgres:
		if s.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the %s driver", s.Driver)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", s.Driver)
	}
	return nil
}
