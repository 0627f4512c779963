// Package config loads settings from an optional TOML file, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const DefaultPath = "config.toml"

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

type Config struct {
	Server     Server     `koanf:"server"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Auth       Auth       `koanf:"auth"`
	Storage    Storage    `koanf:"storage"`
	Reputation Reputation `koanf:"reputation"`
	Log        Log        `koanf:"log"`
}

type Server struct {
	Port           int      `koanf:"port"`
	PublicEndpoint string   `koanf:"public_endpoint"`
	CORSOrigins    []string `koanf:"cors_origins"`
}

type PostgreSQL struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// DSN is the keyword/value connection string for the configured database.
func (p PostgreSQL) DSN() string {
	return p.dsn(p.DBName)
}

// MaintenanceDSN targets the server's default database, for creating ours.
func (p PostgreSQL) MaintenanceDSN() string {
	return p.dsn("postgres")
}

func (p PostgreSQL) dsn(dbname string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		p.Host, p.Port, p.User, p.Password, dbname, p.SSLMode,
	)
}

// Redis is optional. An empty Addr disables distributed locking.
type Redis struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
}

type Auth struct {
	JWTSecret     string `koanf:"jwt_secret"`
	TokenTTLHours int    `koanf:"token_ttl_hours"`
}

// Storage points at the S3-compatible object store holding uploaded files.
// Every file bucket is a key prefix inside Bucket.
type Storage struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// Reputation is awarded for creating content and taken back on delete. Votes
// are not configurable.
type Reputation struct {
	AnswerDelta   int `koanf:"answer_delta"`
	QuestionDelta int `koanf:"question_delta"`
}

type Log struct {
	Level string `koanf:"level"`
}

func defaults() Config {
	return Config{
		Server: Server{Port: 8080, CORSOrigins: []string{"*"}},
		PostgreSQL: PostgreSQL{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "devqna",
			SSLMode: "disable",
		},
		Auth:       Auth{TokenTTLHours: 72},
		Storage: Storage{
			Endpoint: "localhost:9000",
			Bucket:   "devqna",
			Region:   "us-east-1",
		},
		Reputation: Reputation{AnswerDelta: 1, QuestionDelta: 0},
		Log:        Log{Level: "info"},
	}
}

// envKeys maps environment variables onto config keys.
var envKeys = map[string]string{
	"PORT":                      "server.port",
	"PUBLIC_ENDPOINT":           "server.public_endpoint",
	"CORS_ORIGINS":              "server.cors_origins",
	"DB_HOST":                   "postgresql.host",
	"DB_PORT":                   "postgresql.port",
	"DB_USER":                   "postgresql.user",
	"DB_PASSWORD":               "postgresql.password",
	"DB_NAME":                   "postgresql.dbname",
	"DB_SSLMODE":                "postgresql.sslmode",
	"REDIS_ADDR":                "redis.addr",
	"REDIS_PASSWORD":            "redis.password",
	"JWT_SECRET":                "auth.jwt_secret",
	"STORAGE_ENDPOINT":          "storage.endpoint",
	"STORAGE_ACCESS_KEY":        "storage.access_key",
	"STORAGE_SECRET_KEY":        "storage.secret_key",
	"STORAGE_BUCKET":            "storage.bucket",
	"STORAGE_REGION":            "storage.region",
	"STORAGE_USE_SSL":           "storage.use_ssl",
	"LOG_LEVEL":                 "log.level",
	"ANSWER_REPUTATION_DELTA":   "reputation.answer_delta",
	"QUESTION_REPUTATION_DELTA": "reputation.question_delta",
}

// Load reads path (skipped when the file does not exist), then .env, then the
// environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Server.PublicEndpoint == "" {
		cfg.Server.PublicEndpoint = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	cfg.Server.PublicEndpoint = strings.TrimRight(cfg.Server.PublicEndpoint, "/")
	return &cfg, nil
}

// envValue maps a known environment variable onto its config key. Unknown
// and blank variables are dropped.
func envValue(name, value string) (string, any) {
	key, ok := envKeys[name]
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", nil
	}
	if name == "CORS_ORIGINS" {
		return key, splitList(value)
	}
	return key, value
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
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
