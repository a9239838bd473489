// Package config handles loading and validation of application configuration
// from environment variables and potentially configuration files.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	minJWTLength = 32
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	JwtSecretKey   string      `mapstructure:"JWT_SECRET_KEY" yaml:"jwt_secret_key"`
	// TrustedProxies is a list of CIDR ranges or IPs of trusted reverse proxies.
	// If empty, X-Forwarded-For headers are ignored entirely (safe default).
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// DatabaseConfig holds PostgreSQL database connection details.
type DatabaseConfig struct {
	Host           string `mapstructure:"HOST" yaml:"host"`
	Port           int    `mapstructure:"PORT" yaml:"port"`
	User           string `mapstructure:"USER" yaml:"user"`
	Password       string `mapstructure:"PASSWORD" yaml:"password"`
	Name           string `mapstructure:"NAME" yaml:"name"`
	MaxConnections int    `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`
	SSLMode        string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
}

// URL returns a postgres:// connection URL suitable for golang-migrate and
// other URL-based database tools.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details. Redis backs the session carts.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// UploadConfig holds object-storage settings for document uploads.
// EndpointURL plus static keys target S3-compatible providers (R2, Spaces);
// leaving them empty uses the default AWS credential chain.
type UploadConfig struct {
	Bucket          string `mapstructure:"BUCKET" yaml:"bucket"`
	Region          string `mapstructure:"REGION" yaml:"region"`
	EndpointURL     string `mapstructure:"ENDPOINT_URL" yaml:"endpoint_url"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
	PublicBaseURL   string `mapstructure:"PUBLIC_BASE_URL" yaml:"public_base_url"`
	MaxSizeBytes    int64  `mapstructure:"MAX_SIZE_BYTES" yaml:"max_size_bytes"`
}

// AIConfig holds settings for the Gemini-backed estimator and extraction.
type AIConfig struct {
	APIKey         string   `mapstructure:"API_KEY" yaml:"api_key"`
	Model          string   `mapstructure:"MODEL" yaml:"model"`
	FallbackModels []string `mapstructure:"FALLBACK_MODELS" yaml:"fallback_models"`
	TimeoutSeconds int      `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// WhatsAppConfig holds configuration for the outbound dispatch-messaging API.
type WhatsAppConfig struct {
	Enabled        bool   `mapstructure:"ENABLED" yaml:"enabled"`
	APIUrl         string `mapstructure:"API_URL" yaml:"api_url"`
	APIKey         string `mapstructure:"API_KEY" yaml:"api_key"`
	DispatchNumber string `mapstructure:"DISPATCH_NUMBER" yaml:"dispatch_number"`
	TimeoutSeconds int    `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// DeliveryConfig holds the delivery-fee formula inputs.
type DeliveryConfig struct {
	BaseLat      float64 `mapstructure:"BASE_LAT" yaml:"base_lat"`
	BaseLng      float64 `mapstructure:"BASE_LNG" yaml:"base_lng"`
	BaseFee      float64 `mapstructure:"BASE_FEE" yaml:"base_fee"`
	PerKm        float64 `mapstructure:"PER_KM" yaml:"per_km"`
	FreeRadiusKm float64 `mapstructure:"FREE_RADIUS_KM" yaml:"free_radius_km"`
}

// PricingConfig holds the CSV catalog locations and cement grade preference.
type PricingConfig struct {
	DataDir       string `mapstructure:"DATA_DIR" yaml:"data_dir"`
	AggregatesCSV string `mapstructure:"AGGREGATES_CSV" yaml:"aggregates_csv"`
	BuildingCSV   string `mapstructure:"BUILDING_CSV" yaml:"building_csv"`
	SteelCSV      string `mapstructure:"STEEL_CSV" yaml:"steel_csv"`
	CementGrade   string `mapstructure:"CEMENT_GRADE" yaml:"cement_grade"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server   ServerConfig   `mapstructure:"SERVER" yaml:"server"`
	Database DatabaseConfig `mapstructure:"DATABASE" yaml:"database"`
	Redis    RedisConfig    `mapstructure:"REDIS" yaml:"redis"`
	Upload   UploadConfig   `mapstructure:"UPLOAD" yaml:"upload"`
	AI       AIConfig       `mapstructure:"AI" yaml:"ai"`
	WhatsApp WhatsAppConfig `mapstructure:"WHATSAPP" yaml:"whatsapp"`
	Delivery DeliveryConfig `mapstructure:"DELIVERY" yaml:"delivery"`
	Pricing  PricingConfig  `mapstructure:"PRICING" yaml:"pricing"`
	Currency string         `mapstructure:"CURRENCY" yaml:"currency"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{}) // Empty = trust no one (safe default)
	v.SetDefault("DATABASE.MAX_CONNECTIONS", 20)
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "conserv_dev")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 3)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPLOAD.MAX_SIZE_BYTES", int64(25*1024*1024))
	v.SetDefault("UPLOAD.REGION", "us-east-1")
	v.SetDefault("AI.MODEL", "gemini-2.0-flash")
	v.SetDefault("AI.FALLBACK_MODELS", []string{"gemini-1.5-flash", "gemini-1.5-pro"})
	v.SetDefault("AI.TIMEOUT_SECONDS", 60)
	v.SetDefault("WHATSAPP.ENABLED", false)
	v.SetDefault("WHATSAPP.TIMEOUT_SECONDS", 10)
	v.SetDefault("DELIVERY.BASE_LAT", 0.0)
	v.SetDefault("DELIVERY.BASE_LNG", 0.0)
	v.SetDefault("DELIVERY.BASE_FEE", 50.0)
	v.SetDefault("DELIVERY.PER_KM", 5.0)
	v.SetDefault("DELIVERY.FREE_RADIUS_KM", 0.0)
	v.SetDefault("PRICING.DATA_DIR", "data")
	v.SetDefault("PRICING.AGGREGATES_CSV", "buildadvisor_aggregates.csv")
	v.SetDefault("PRICING.BUILDING_CSV", "building materials.csv")
	v.SetDefault("PRICING.STEEL_CSV", "steel.csv")
	v.SetDefault("PRICING.CEMENT_GRADE", "")
	v.SetDefault("CURRENCY", "TTD")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables
	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.JWT_SECRET_KEY", "JWT_SECRET_KEY"},
		{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
		// Database config
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Upload config
		{"UPLOAD.BUCKET", "UPLOAD_BUCKET"},
		{"UPLOAD.REGION", "UPLOAD_REGION"},
		{"UPLOAD.ENDPOINT_URL", "UPLOAD_ENDPOINT_URL"},
		{"UPLOAD.ACCESS_KEY_ID", "UPLOAD_ACCESS_KEY_ID"},
		{"UPLOAD.SECRET_ACCESS_KEY", "UPLOAD_SECRET_ACCESS_KEY"},
		{"UPLOAD.PUBLIC_BASE_URL", "UPLOAD_PUBLIC_BASE_URL"},
		{"UPLOAD.MAX_SIZE_BYTES", "MAX_CONTENT_LENGTH"},
		// AI config
		{"AI.API_KEY", "GEMINI_API_KEY"},
		{"AI.MODEL", "AI_MODEL"},
		{"AI.FALLBACK_MODELS", "AI_MODEL_FALLBACKS"},
		{"AI.TIMEOUT_SECONDS", "AI_TIMEOUT_SECONDS"},
		// WhatsApp config
		{"WHATSAPP.ENABLED", "WHATSAPP_ENABLED"},
		{"WHATSAPP.API_URL", "WHATSAPP_API_URL"},
		{"WHATSAPP.API_KEY", "WHATSAPP_API_KEY"},
		{"WHATSAPP.DISPATCH_NUMBER", "WHATSAPP_DISPATCH_NUMBER"},
		{"WHATSAPP.TIMEOUT_SECONDS", "WHATSAPP_TIMEOUT_SECONDS"},
		// Delivery config
		{"DELIVERY.BASE_LAT", "BASE_LAT"},
		{"DELIVERY.BASE_LNG", "BASE_LNG"},
		{"DELIVERY.BASE_FEE", "DELIVERY_BASE_FEE"},
		{"DELIVERY.PER_KM", "DELIVERY_PER_KM"},
		{"DELIVERY.FREE_RADIUS_KM", "FREE_RADIUS_KM"},
		// Pricing config
		{"PRICING.DATA_DIR", "DATA_DIR"},
		{"PRICING.AGGREGATES_CSV", "AGGREGATES_CSV"},
		{"PRICING.BUILDING_CSV", "BUILDING_CSV"},
		{"PRICING.STEEL_CSV", "STEEL_CSV"},
		{"PRICING.CEMENT_GRADE", "CEMENT_GRADE"},
		// Currency
		{"CURRENCY", "CURRENCY"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	env := v.GetString("SERVER.ENVIRONMENT")
	log.Infow("Configuration loaded",
		"environment", env,
		"server_port", v.GetString("SERVER.PORT"),
		"db_host", v.GetString("DATABASE.HOST"),
		"allowed_origins", v.GetString("SERVER.ALLOWED_ORIGINS"),
		"trusted_proxies", v.GetStringSlice("SERVER.TRUSTED_PROXIES"),
		"data_dir", v.GetString("PRICING.DATA_DIR"),
		"currency", v.GetString("CURRENCY"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	// Validate Server Config
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if len(cfg.Server.JwtSecretKey) < minJWTLength {
		return fmt.Errorf("JWT secret key must be at least %d characters long", minJWTLength)
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	// Validate Database Config
	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if cfg.Database.Password == "" {
		log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	// Validate Redis Config
	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required")
	}
	if cfg.Redis.Password == "" && cfg.Redis.UseTLS {
		log.Warn("Redis password is not set, but TLS is enabled. Ensure this is correct for your Redis provider.")
	}

	// Validate Upload Config
	if cfg.Upload.Bucket == "" {
		return fmt.Errorf("upload bucket is required")
	}
	if cfg.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("upload max size must be positive")
	}

	// Validate AI Config
	if cfg.AI.APIKey == "" {
		log.Warn("Gemini API key is not set. Estimator and extraction endpoints will report errors.")
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	// Validate WhatsApp config
	if err := validateWhatsAppConfig(&cfg.WhatsApp, log); err != nil {
		return err
	}

	// Validate Delivery config
	if cfg.Delivery.PerKm < 0 || cfg.Delivery.BaseFee < 0 || cfg.Delivery.FreeRadiusKm < 0 {
		return fmt.Errorf("delivery fee inputs cannot be negative")
	}

	if cfg.Currency == "" {
		return fmt.Errorf("currency is required")
	}

	return nil
}

// validateWhatsAppConfig validates the dispatch-messaging configuration.
// If enabled but missing an API key, it auto-disables the service with a warning.
func validateWhatsAppConfig(cfg *WhatsAppConfig, log *zap.SugaredLogger) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.APIUrl != "" {
		if _, err := url.ParseRequestURI(cfg.APIUrl); err != nil {
			return fmt.Errorf("invalid WhatsApp API URL: %w", err)
		}
	}

	if cfg.APIKey == "" {
		log.Warn("WhatsApp API key not set, auto-disabling dispatch messaging")
		cfg.Enabled = false
		return nil
	}

	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("WhatsApp timeout must be positive")
	}

	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
