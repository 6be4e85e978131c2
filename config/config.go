package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Engine   EngineConfig
	Amadeus  AmadeusConfig
	Navitia  NavitiaConfig
	Geocoder GeocoderConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"SERVER_IDLE_TIMEOUT"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     int    `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	DBName   string `mapstructure:"POSTGRES_DB"`
	SSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	MaxConns int32  `mapstructure:"POSTGRES_MAX_CONNS"`
	MinConns int32  `mapstructure:"POSTGRES_MIN_CONNS"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
}

// EngineConfig holds the journey planning engine knobs.
type EngineConfig struct {
	// DefaultRadiusKm is the alternate-airport search radius when the
	// request does not supply one.
	DefaultRadiusKm float64 `mapstructure:"ENGINE_DEFAULT_RADIUS_KM"`

	// MaxIntermediates bounds how many intermediate airports the
	// connection builder evaluates. A completeness/performance trade-off:
	// connections through airports past the cutoff are never discovered.
	MaxIntermediates int `mapstructure:"ENGINE_MAX_INTERMEDIATES"`

	// MinConnectionBufferMinutes is the minimum gap between the first
	// leg's arrival and the second leg's departure.
	MinConnectionBufferMinutes int `mapstructure:"ENGINE_MIN_CONNECTION_BUFFER_MINUTES"`

	// MaxLayoverHours caps layovers eligible for a train link.
	MaxLayoverHours int `mapstructure:"ENGINE_MAX_LAYOVER_HOURS"`

	// Workers bounds the fan-out pool for per-airport evaluation.
	Workers int `mapstructure:"ENGINE_WORKERS"`

	// TopPreferenceResults truncates preference-ranked searches.
	TopPreferenceResults int `mapstructure:"ENGINE_TOP_PREFERENCE_RESULTS"`

	// UseLiveProviders switches the candidate source from the local
	// dataset to the live offer APIs.
	UseLiveProviders bool `mapstructure:"ENGINE_USE_LIVE_PROVIDERS"`
}

// AmadeusConfig holds credentials and timeouts for the live flight
// offers source.
type AmadeusConfig struct {
	BaseURL   string        `mapstructure:"AMADEUS_BASE_URL"`
	APIKey    string        `mapstructure:"AMADEUS_API_KEY"`
	APISecret string        `mapstructure:"AMADEUS_API_SECRET"`
	Timeout   time.Duration `mapstructure:"AMADEUS_TIMEOUT"`
}

// Configured reports whether live flight search credentials are set.
func (a *AmadeusConfig) Configured() bool {
	return a.APIKey != "" && a.APISecret != ""
}

// NavitiaConfig holds settings for the live ground-transport source.
type NavitiaConfig struct {
	BaseURL string        `mapstructure:"NAVITIA_BASE_URL"`
	Token   string        `mapstructure:"NAVITIA_TOKEN"`
	Region  string        `mapstructure:"NAVITIA_REGION"`
	Timeout time.Duration `mapstructure:"NAVITIA_TIMEOUT"`
}

// Configured reports whether the journey planning source is usable.
func (n *NavitiaConfig) Configured() bool {
	return n.Token != ""
}

// GeocoderConfig holds settings for free-form destination resolution.
type GeocoderConfig struct {
	BaseURL   string        `mapstructure:"GEOCODER_BASE_URL"`
	UserAgent string        `mapstructure:"GEOCODER_USER_AGENT"`
	Timeout   time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	CacheTTL  time.Duration `mapstructure:"GEOCODER_CACHE_TTL"`
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Addr returns the Redis address in host:port format.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// ── Defaults ────────────────────────────────────────
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "skylink")
	viper.SetDefault("POSTGRES_PASSWORD", "skylink_secret")
	viper.SetDefault("POSTGRES_DB", "skylink_db")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_MAX_CONNS", 50)
	viper.SetDefault("POSTGRES_MIN_CONNS", 10)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 100)

	viper.SetDefault("ENGINE_DEFAULT_RADIUS_KM", 100.0)
	viper.SetDefault("ENGINE_MAX_INTERMEDIATES", 20)
	viper.SetDefault("ENGINE_MIN_CONNECTION_BUFFER_MINUTES", 60)
	viper.SetDefault("ENGINE_MAX_LAYOVER_HOURS", 6)
	viper.SetDefault("ENGINE_WORKERS", 4)
	viper.SetDefault("ENGINE_TOP_PREFERENCE_RESULTS", 3)
	viper.SetDefault("ENGINE_USE_LIVE_PROVIDERS", false)

	viper.SetDefault("AMADEUS_BASE_URL", "https://test.api.amadeus.com")
	viper.SetDefault("AMADEUS_API_KEY", "")
	viper.SetDefault("AMADEUS_API_SECRET", "")
	viper.SetDefault("AMADEUS_TIMEOUT", "15s")

	viper.SetDefault("NAVITIA_BASE_URL", "https://api.navitia.io/v1")
	viper.SetDefault("NAVITIA_TOKEN", "")
	viper.SetDefault("NAVITIA_REGION", "fr-idf")
	viper.SetDefault("NAVITIA_TIMEOUT", "15s")

	viper.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("GEOCODER_USER_AGENT", "skylink/1.0")
	viper.SetDefault("GEOCODER_TIMEOUT", "10s")
	viper.SetDefault("GEOCODER_CACHE_TTL", "24h")

	// Try to read .env file. If it doesn't exist (e.g., inside Docker),
	// env vars injected by docker-compose env_file are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{}

	// ── Server ──────────────────────────────────────────
	cfg.Server = ServerConfig{
		Host:         viper.GetString("SERVER_HOST"),
		Port:         viper.GetInt("SERVER_PORT"),
		ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  viper.GetDuration("SERVER_IDLE_TIMEOUT"),
	}

	// ── Postgres ────────────────────────────────────────
	cfg.Postgres = PostgresConfig{
		Host:     viper.GetString("POSTGRES_HOST"),
		Port:     viper.GetInt("POSTGRES_PORT"),
		User:     viper.GetString("POSTGRES_USER"),
		Password: viper.GetString("POSTGRES_PASSWORD"),
		DBName:   viper.GetString("POSTGRES_DB"),
		SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		MaxConns: viper.GetInt32("POSTGRES_MAX_CONNS"),
		MinConns: viper.GetInt32("POSTGRES_MIN_CONNS"),
	}

	// ── Redis ───────────────────────────────────────────
	cfg.Redis = RedisConfig{
		Host:     viper.GetString("REDIS_HOST"),
		Port:     viper.GetInt("REDIS_PORT"),
		Password: viper.GetString("REDIS_PASSWORD"),
		DB:       viper.GetInt("REDIS_DB"),
		PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
	}

	// ── Engine ──────────────────────────────────────────
	cfg.Engine = EngineConfig{
		DefaultRadiusKm:            viper.GetFloat64("ENGINE_DEFAULT_RADIUS_KM"),
		MaxIntermediates:           viper.GetInt("ENGINE_MAX_INTERMEDIATES"),
		MinConnectionBufferMinutes: viper.GetInt("ENGINE_MIN_CONNECTION_BUFFER_MINUTES"),
		MaxLayoverHours:            viper.GetInt("ENGINE_MAX_LAYOVER_HOURS"),
		Workers:                    viper.GetInt("ENGINE_WORKERS"),
		TopPreferenceResults:       viper.GetInt("ENGINE_TOP_PREFERENCE_RESULTS"),
		UseLiveProviders:           viper.GetBool("ENGINE_USE_LIVE_PROVIDERS"),
	}

	// ── External sources ────────────────────────────────
	cfg.Amadeus = AmadeusConfig{
		BaseURL:   viper.GetString("AMADEUS_BASE_URL"),
		APIKey:    viper.GetString("AMADEUS_API_KEY"),
		APISecret: viper.GetString("AMADEUS_API_SECRET"),
		Timeout:   viper.GetDuration("AMADEUS_TIMEOUT"),
	}
	cfg.Navitia = NavitiaConfig{
		BaseURL: viper.GetString("NAVITIA_BASE_URL"),
		Token:   viper.GetString("NAVITIA_TOKEN"),
		Region:  viper.GetString("NAVITIA_REGION"),
		Timeout: viper.GetDuration("NAVITIA_TIMEOUT"),
	}
	cfg.Geocoder = GeocoderConfig{
		BaseURL:   viper.GetString("GEOCODER_BASE_URL"),
		UserAgent: viper.GetString("GEOCODER_USER_AGENT"),
		Timeout:   viper.GetDuration("GEOCODER_TIMEOUT"),
		CacheTTL:  viper.GetDuration("GEOCODER_CACHE_TTL"),
	}

	return cfg, nil
}
