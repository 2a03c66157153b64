package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for the HypeLens backend.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Storage  StorageConfig  `mapstructure:"storage"`
	YouTube  YouTubeConfig  `mapstructure:"youtube"`
	Alerts   AlertConfig    `mapstructure:"alerts"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
		)
	}
	return c.Path
}

// GatewayConfig configures the LLM gateway used for trend scoring, hashtag
// generation, and reel analysis.
type GatewayConfig struct {
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
}

// RefreshConfig holds the trend refresh job knobs.
type RefreshConfig struct {
	Seeds         []string      `mapstructure:"seeds"`
	MaxCandidates int           `mapstructure:"max_candidates"`
	Freshness     time.Duration `mapstructure:"freshness"`
	HistoryLimit  int           `mapstructure:"history_limit"`
	SampleLimit   int           `mapstructure:"sample_limit"`
	PaceInterval  time.Duration `mapstructure:"pace_interval"`
}

type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type YouTubeConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type AlertConfig struct {
	Enabled bool `mapstructure:"enabled"`
	MinJump int  `mapstructure:"min_jump"`
}

// Load reads configuration from config.yaml (if present) and the environment.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("gateway.api_key", "GATEWAY_API_KEY")
	v.BindEnv("gateway.base_url", "GATEWAY_BASE_URL")
	v.BindEnv("gateway.model", "GATEWAY_MODEL")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("youtube.api_key", "YOUTUBE_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks for fatal configuration errors. The gateway key gates
// every scoring call, so its absence refuses startup rather than degrading.
func (c *Config) Validate() error {
	if c.Gateway.APIKey == "" {
		return errors.New("config: GATEWAY_API_KEY is required")
	}
	if c.Database.Driver == "postgres" && c.Database.Host == "" {
		return errors.New("config: database host is required for the postgres driver")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/hypelens.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("gateway.model", "google/gemini-2.5-flash")
	v.SetDefault("gateway.base_url", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("gateway.temperature", 0.4)

	v.SetDefault("refresh.seeds", []string{
		"fashion", "tech gadgets", "memes", "music",
		"viral challenges", "AI tools", "gaming", "crypto",
	})
	v.SetDefault("refresh.max_candidates", 30)
	v.SetDefault("refresh.freshness", 6*time.Hour)
	v.SetDefault("refresh.history_limit", 48)
	v.SetDefault("refresh.sample_limit", 10)
	v.SetDefault("refresh.pace_interval", 500*time.Millisecond)

	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "reels")
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("alerts.enabled", true)
	v.SetDefault("alerts.min_jump", 20)
}
