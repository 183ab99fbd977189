package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends
const (
	BackendSQL      = "sql"
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	ServerPort   string `mapstructure:"port"`
	AppEnv       string `mapstructure:"app_env"`
	LogLevel     string `mapstructure:"log_level"`
	StoreBackend string `mapstructure:"store_backend"`
	StaticPath   string `mapstructure:"static_path"`
	Timezone     string `mapstructure:"timezone"`

	Database  DatabaseConfig  `mapstructure:"database"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Session   SessionConfig   `mapstructure:"session"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Study     StudyConfig     `mapstructure:"study"`
	Import    ImportConfig    `mapstructure:"import"`
	Avatars   AvatarConfig    `mapstructure:"avatars"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
	Timeouts  TimeoutConfig   `mapstructure:"timeouts"`

	ReconcileInterval time.Duration `mapstructure:"reconcile_interval"`
	LoginRateLimit    int           `mapstructure:"login_rate_limit"`
	LoginRateWindow   time.Duration `mapstructure:"login_rate_window"`
}

// DatabaseConfig selects the SQL dialect. Path is used by sqlite, URL by
// postgres and mysql.
type DatabaseConfig struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url"`
}

type SupabaseConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	MaxAge       time.Duration `mapstructure:"max_age"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StudyConfig struct {
	QuizFeedbackDelay  time.Duration `mapstructure:"quiz_feedback_delay"`
	FlashcardFlipDelay time.Duration `mapstructure:"flashcard_flip_delay"`
}

type ImportConfig struct {
	Limit          int   `mapstructure:"limit"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// AvatarConfig maps lower-cased usernames to fixed avatar URLs
type AvatarConfig struct {
	Background string            `mapstructure:"background"`
	Overrides  map[string]string `mapstructure:"overrides"`
}

type BootstrapConfig struct {
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

// TimeoutConfig bounds outbound calls. A zero External means no bound.
type TimeoutConfig struct {
	External time.Duration `mapstructure:"external"`
	Refresh  time.Duration `mapstructure:"refresh"`
}

// envBindings maps config keys to the flat environment variable names
// used in deployment
var envBindings = map[string]string{
	"port":                       "PORT",
	"app_env":                    "APP_ENV",
	"log_level":                  "LOG_LEVEL",
	"store_backend":              "STORE_BACKEND",
	"static_path":                "STATIC_PATH",
	"timezone":                   "TIMEZONE",
	"database.type":              "DB_TYPE",
	"database.path":              "DB_PATH",
	"database.url":               "DB_URL",
	"supabase.url":               "SUPABASE_URL",
	"supabase.anon_key":          "SUPABASE_ANON_KEY",
	"gemini.api_key":             "GEMINI_API_KEY",
	"gemini.model":               "GEMINI_MODEL",
	"session.secret":             "SESSION_SECRET",
	"session.cookie_secure":      "COOKIE_SECURE",
	"session.max_age":            "SESSION_MAX_AGE",
	"cors.allowed_origins":       "CORS_ALLOWED_ORIGINS",
	"study.quiz_feedback_delay":  "QUIZ_FEEDBACK_DELAY",
	"study.flashcard_flip_delay": "FLASHCARD_FLIP_DELAY",
	"import.limit":               "IMPORT_LIMIT",
	"import.max_upload_bytes":    "IMPORT_MAX_UPLOAD_BYTES",
	"avatars.background":         "AVATAR_BACKGROUND",
	"bootstrap.admin_username":   "BOOTSTRAP_ADMIN_USERNAME",
	"bootstrap.admin_password":   "BOOTSTRAP_ADMIN_PASSWORD",
	"timeouts.external":          "EXTERNAL_TIMEOUT",
	"timeouts.refresh":           "REFRESH_TIMEOUT",
	"reconcile_interval":         "RECONCILE_INTERVAL",
	"login_rate_limit":           "LOGIN_RATE_LIMIT",
	"login_rate_window":          "LOGIN_RATE_WINDOW",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("app_env", "production")
	v.SetDefault("log_level", "info")
	v.SetDefault("store_backend", BackendSQL)
	v.SetDefault("static_path", "./static")
	v.SetDefault("timezone", "Europe/Istanbul")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "./kelime.db")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("session.max_age", 30*24*time.Hour)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("study.quiz_feedback_delay", 2*time.Second)
	v.SetDefault("study.flashcard_flip_delay", 200*time.Millisecond)
	v.SetDefault("import.limit", 3)
	v.SetDefault("import.max_upload_bytes", 5*1024*1024)
	v.SetDefault("avatars.background", "facc15")
	v.SetDefault("avatars.overrides", map[string]string{})
	v.SetDefault("timeouts.external", time.Duration(0))
	v.SetDefault("timeouts.refresh", 5*time.Second)
	v.SetDefault("reconcile_interval", time.Hour)
	v.SetDefault("login_rate_limit", 10)
	v.SetDefault("login_rate_window", time.Minute)
}

// Load reads configuration from defaults, an optional config.yaml found in
// one of paths, and the environment, in increasing precedence
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("No config file found, using defaults and environment")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)
	cfg.Avatars.Overrides = normalizeOverrides(cfg.Avatars.Overrides)

	return cfg, nil
}

// Validate checks that the settings required by the selected backend are
// present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQL:
		switch strings.ToLower(c.Database.Type) {
		case "sqlite", "sqlite3", "":
			if c.Database.Path == "" {
				return errors.New("DB_PATH is required for sqlite")
			}
		case "postgres", "postgresql", "mysql":
			if c.Database.URL == "" {
				return fmt.Errorf("DB_URL is required for %s", c.Database.Type)
			}
		default:
			return fmt.Errorf("unsupported database type: %s", c.Database.Type)
		}
	case BackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported store backend: %s", c.StoreBackend)
	}

	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.Import.Limit <= 0 {
		return errors.New("IMPORT_LIMIT must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone used for calendar bucketing
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsDev reports whether the app runs in development mode
func (c *Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, "dev")
}

// splitList accepts both a YAML list and a comma separated env value
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func normalizeOverrides(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for name, url := range in {
		out[strings.ToLower(strings.TrimSpace(name))] = url
	}
	return out
}
