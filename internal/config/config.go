package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageSQLite   = "sqlite"
	StorageMySQL    = "mysql"
)

// Session backends
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Identity providers
const (
	AuthLocal    = "local"
	AuthFirebase = "firebase"
)

// Config holds all application configuration
type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Auth     AuthConfig     `mapstructure:"auth"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// IsProduction reports whether the service runs in production mode
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	SSLMode       string `mapstructure:"ssl_mode"`
	MaxConns      int32  `mapstructure:"max_conns"`
	MinConns      int32  `mapstructure:"min_conns"`
	MigrationsURL string `mapstructure:"migrations_url"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type StorageConfig struct {
	Driver string      `mapstructure:"driver"`
	SQLite SQLConfig   `mapstructure:"sqlite"`
	MySQL  SQLConfig   `mapstructure:"mysql"`
	Mongo  MongoConfig `mapstructure:"mongo"`
}

type SQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type SessionConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	EncryptionKey string        `mapstructure:"encryption_key"`
}

type AuthConfig struct {
	Provider        string         `mapstructure:"provider"`
	JWTSecret       string         `mapstructure:"jwt_secret"`
	SessionTokenTTL time.Duration  `mapstructure:"session_token_ttl"`
	Firebase        FirebaseConfig `mapstructure:"firebase"`
}

type FirebaseConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type LLMConfig struct {
	DefaultProvider string          `mapstructure:"default_provider"`
	ChatModel       string          `mapstructure:"chat_model"`
	ItineraryModel  string          `mapstructure:"itinerary_model"`
	SystemPrompt    string          `mapstructure:"system_prompt"`
	RequestTimeout  time.Duration   `mapstructure:"request_timeout"`
	OpenAI          OpenAIConfig    `mapstructure:"openai"`
	Anthropic       AnthropicConfig `mapstructure:"anthropic"`
	Ollama          OllamaConfig    `mapstructure:"ollama"`
	DeepSeek        DeepSeekConfig  `mapstructure:"deepseek"`
	Gemini          GeminiConfig    `mapstructure:"gemini"`
	Ark             ArkConfig       `mapstructure:"ark"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	Host         string `mapstructure:"host"`
	DefaultModel string `mapstructure:"default_model"`
}

type DeepSeekConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ArkConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Region    string `mapstructure:"region"`
	APIKey    string `mapstructure:"api_key"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

type LogFileConfig struct {
	Path         string        `mapstructure:"path"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from path; a missing file falls back to
// defaults and environment variables
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks option combinations that would fail at wiring time
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StoragePostgres, StorageMongo, StorageSQLite, StorageMySQL:
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}

	switch c.Session.Backend {
	case SessionMemory:
	case SessionRedis:
		if !c.Redis.Enabled {
			return errors.New("session backend redis requires redis.enabled")
		}
		if c.Session.EncryptionKey == "" {
			return errors.New("session.encryption_key is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown session backend: %q", c.Session.Backend)
	}

	switch c.Auth.Provider {
	case AuthLocal:
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required for the local identity provider")
		}
	case AuthFirebase:
		if c.Auth.Firebase.APIKey == "" {
			return errors.New("auth.firebase.api_key is required for the firebase identity provider")
		}
	default:
		return fmt.Errorf("unknown auth provider: %q", c.Auth.Provider)
	}

	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "10m")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.middleware_timeout", "5m")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "mika")
	v.SetDefault("database.database", "mika")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.migrations_url", "file://migrations")

	// Storage
	v.SetDefault("storage.driver", StorageSQLite)
	v.SetDefault("storage.sqlite.dsn", "file:mika.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	v.SetDefault("storage.mysql.dsn", "mika:mika@tcp(localhost:3306)/mika")
	v.SetDefault("storage.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo.database", "mika")
	v.SetDefault("storage.mongo.connect_timeout", "10s")

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Session
	v.SetDefault("session.backend", SessionMemory)
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie_name", "mika_session")
	v.SetDefault("session.cookie_secure", false)

	// Auth
	v.SetDefault("auth.provider", AuthLocal)
	v.SetDefault("auth.session_token_ttl", "24h")
	v.SetDefault("auth.firebase.base_url", "https://identitytoolkit.googleapis.com/v1")

	// LLM
	v.SetDefault("llm.default_provider", "ollama")
	v.SetDefault("llm.request_timeout", "120s")
	v.SetDefault("llm.system_prompt", "You are Mika, a friendly and concise travel assistant.")
	v.SetDefault("llm.ollama.host", "http://localhost:11434")
	v.SetDefault("llm.ollama.default_model", "gpt-oss:20b")
	v.SetDefault("llm.ark.base_url", "https://ark.cn-beijing.volces.com/api/v3")
	v.SetDefault("llm.ark.region", "cn-beijing")

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 30)
	v.SetDefault("security.rate_limit.burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.max_age", "168h")
	v.SetDefault("logging.file.rotation_time", "24h")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("env", "APP_ENV")

	// Database
	v.BindEnv("database.password", "POSTGRES_PASSWORD")

	// Storage
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.mysql.dsn", "MYSQL_DSN")
	v.BindEnv("storage.mongo.uri", "MONGO_URI")

	// Redis
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Session
	v.BindEnv("session.encryption_key", "SESSION_ENCRYPTION_KEY")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.firebase.api_key", "FIREBASE_API_KEY")

	// LLM API Keys
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.deepseek.api_key", "DEEPSEEK_API_KEY")
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.ark.api_key", "ARK_API_KEY")
	v.BindEnv("llm.ark.access_key", "ARK_ACCESS_KEY")
	v.BindEnv("llm.ark.secret_key", "ARK_SECRET_KEY")
	v.BindEnv("llm.ollama.host", "OLLAMA_HOST")
}
