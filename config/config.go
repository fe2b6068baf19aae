package config

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"secretsanta/models"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port              string
	BindAddress       string
	Env               string
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPath            string
	RedisURL          string
	JWTSecret         string
	SessionMode       string
	AdminUser         string
	AdminPassword     string
	PublicURL         string
	AssignMaxAttempts int
	RevealRateLimit   int
	RevealRateWindow  time.Duration
	LegacyGameName    string
}

var defaults = map[string]any{
	"PORT":                "8080",
	"BIND_ADDRESS":        "localhost",
	"APP_ENV":             "development",
	"DB_DRIVER":           "postgres",
	"DB_HOST":             "localhost",
	"DB_PORT":             "5432",
	"DB_USER":             "secretsanta",
	"DB_PASSWORD":         "secretsanta123",
	"DB_NAME":             "secretsanta",
	"DB_PATH":             "secretsanta.db",
	"REDIS_URL":           "",
	"JWT_SECRET":          "your-secret-key-change-in-production",
	"SESSION_MODE":        "legacy",
	"ADMIN_USER":          "admin",
	"ADMIN_PASSWORD":      "admin123",
	"PUBLIC_URL":          "http://localhost:8080",
	"ASSIGN_MAX_ATTEMPTS": 1000,
	"REVEAL_RATE_LIMIT":   10,
	"REVEAL_RATE_WINDOW":  "1m",
	"LEGACY_GAME_NAME":    "Amigo Invisible",
}

// flagKeys maps command line flags onto the environment keys they override.
var flagKeys = map[string]string{
	"port":      "PORT",
	"bind":      "BIND_ADDRESS",
	"db-driver": "DB_DRIVER",
	"db-path":   "DB_PATH",
}

// Load reads the configuration from the environment. Flags in fs that were
// set explicitly take precedence over environment values.
func Load(fs *pflag.FlagSet) *Config {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if fs != nil {
		fs.VisitAll(func(f *pflag.Flag) {
			if key, ok := flagKeys[f.Name]; ok && f.Changed {
				_ = v.BindPFlag(key, f)
			}
		})
	}

	return &Config{
		Port:              v.GetString("PORT"),
		BindAddress:       v.GetString("BIND_ADDRESS"),
		Env:               v.GetString("APP_ENV"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBPath:            v.GetString("DB_PATH"),
		RedisURL:          v.GetString("REDIS_URL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		SessionMode:       strings.ToLower(v.GetString("SESSION_MODE")),
		AdminUser:         v.GetString("ADMIN_USER"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		PublicURL:         strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),
		AssignMaxAttempts: v.GetInt("ASSIGN_MAX_ATTEMPTS"),
		RevealRateLimit:   v.GetInt("REVEAL_RATE_LIMIT"),
		RevealRateWindow:  v.GetDuration("REVEAL_RATE_WINDOW"),
		LegacyGameName:    v.GetString("LEGACY_GAME_NAME"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.DBDriver)
	}
	switch c.SessionMode {
	case "legacy", "signed":
	default:
		return fmt.Errorf("unsupported SESSION_MODE %q (want legacy or signed)", c.SessionMode)
	}
	if c.AssignMaxAttempts < 1 {
		return fmt.Errorf("ASSIGN_MAX_ATTEMPTS must be positive, got %d", c.AssignMaxAttempts)
	}
	if c.IsProduction() && c.JWTSecret == defaults["JWT_SECRET"] {
		log.Printf("WARNING: JWT_SECRET is the default value in production")
	}
	return nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.Env == "development" {
		level = logger.Info
	}

	if cfg.DBDriver == "sqlite" {
		return OpenSQLite(cfg.DBPath, level)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// OpenSQLite opens a SQLite store at path, or a private in-memory store when
// path is ":memory:". SQLite allows a single writer, so the pool is limited to
// one connection and every query inside a transaction must use that
// transaction's handle.
func OpenSQLite(path string, level logger.LogLevel) (*gorm.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Migrate creates or updates the tables of the multi-tenant schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Participant{},
	)
}

// InitRedis connects to REDIS_URL. An empty URL returns a nil client, which
// disables the reveal rate limiter.
func InitRedis(cfg *Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
