package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"
)

// DefaultConfigFile is read when present; env vars override it.
const DefaultConfigFile = "config/config.yml"

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Classifier ClassifierConfig
	AI         AIConfig
}

type AppConfig struct {
	Env         string `default:"development" env:"APP_ENV"`
	Port        int    `default:"8080" env:"APP_PORT"`
	CORSOrigins string `default:"http://localhost:5173" env:"CORS_ORIGINS"`
}

// Origins splits CORSOrigins on commas.
func (c AppConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

type DBConfig struct {
	Driver     string `default:"postgres" env:"DB_DRIVER"`
	Host       string `default:"localhost" env:"DB_HOST"`
	Port       uint   `default:"5432" env:"DB_PORT"`
	User       string `default:"user" env:"DB_USER"`
	Password   string `default:"password" env:"DB_PASSWORD"`
	Name       string `default:"moodmatchdb" env:"DB_NAME"`
	SSLMode    string `default:"disable" env:"DB_SSLMODE"`
	SQLitePath string `default:"moodmatch.db" env:"DB_SQLITE_PATH"`
}

// DSN builds the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type RedisConfig struct {
	// Addr empty means run without Redis.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `default:"0" env:"REDIS_DB"`
}

type AuthConfig struct {
	JWTSecret  string        `required:"true" env:"JWT_SECRET"`
	TokenTTL   time.Duration `default:"72h" env:"SESSION_TTL"`
	CookieName string        `default:"session" env:"SESSION_COOKIE"`
	Issuer     string        `default:"moodmatch-service" env:"JWT_ISSUER"`
}

type ClassifierConfig struct {
	URL     string        `env:"CLASSIFIER_URL"`
	Token   string        `env:"CLASSIFIER_TOKEN"`
	Timeout time.Duration `default:"10s" env:"CLASSIFIER_TIMEOUT"`
}

// Enabled reports whether an inference endpoint is configured.
func (c ClassifierConfig) Enabled() bool {
	return c.URL != ""
}

type AIConfig struct {
	APIKey    string `env:"ARK_API_KEY"`
	AccessKey string `env:"ARK_ACCESS_KEY"`
	SecretKey string `env:"ARK_SECRET_KEY"`
	Model     string `env:"ARK_MODEL"`
	BaseURL   string `default:"https://ark.cn-beijing.volces.com/api/v3" env:"ARK_BASE_URL"`
	Region    string `default:"cn-beijing" env:"ARK_REGION"`
}

// Enabled reports whether the model and a credential pair are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// LoadDotEnv loads .env files with priority: .env.local > .env.
// godotenv.Load does not overwrite variables that are already set, so the
// process environment always wins. Returns the files actually loaded.
func LoadDotEnv() []string {
	candidates := []string{".env.local", ".env"}
	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// Load fills a Config from the given files (missing ones are skipped) and
// the environment.
func Load(files ...string) (*Config, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}

	cfg := &Config{}
	if err := configor.New(&configor.Config{Silent: true}).Load(cfg, existing...); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch cfg.DB.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = DefaultSessionTTL
	}
	return cfg, nil
}
