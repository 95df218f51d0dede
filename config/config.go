package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Auth.
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	TokenTTLHours  int    `mapstructure:"TOKEN_TTL_HOURS"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB      int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB      int    `mapstructure:"REDIS_QUEUE_DB"`
	FeedCacheTTLMin   int    `mapstructure:"FEED_CACHE_TTL_MIN"`
	WorkerConcurrency int    `mapstructure:"WORKER_CONCURRENCY"`

	// Stripe Connect.
	StripeKey               string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret     string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeConnectReturnURL  string `mapstructure:"STRIPE_CONNECT_RETURN_URL"`
	StripeConnectRefreshURL string `mapstructure:"STRIPE_CONNECT_REFRESH_URL"`

	// PlatformFeeRate is a decimal fraction such as "0.05". Kept as a string so it is
	// parsed exactly rather than through a float.
	PlatformFeeRate string `mapstructure:"PLATFORM_FEE_RATE"`
	Currency        string `mapstructure:"CURRENCY"`

	// Scheduling.
	DefaultTimezone      string `mapstructure:"DEFAULT_TIMEZONE"`
	CalendarHorizonWeeks int    `mapstructure:"CALENDAR_HORIZON_WEEKS"`
	CalendarLocation     string `mapstructure:"CALENDAR_LOCATION"`

	// Cloudinary blob storage.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
}

var AppConfig Config

var keys = []string{
	"APP_PORT", "ENV", "LOG_LEVEL", "MAX_REQUESTS_PER_MIN",
	"DATABASE_URL", "DATABASE_NAME",
	"JWT_SECRET", "TOKEN_TTL_HOURS", "ALLOWED_ORIGINS", "TRUSTED_PROXIES",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_CACHE_DB", "REDIS_QUEUE_DB", "FEED_CACHE_TTL_MIN", "WORKER_CONCURRENCY",
	"STRIPE_KEY", "STRIPE_WEBHOOK_SECRET", "STRIPE_CONNECT_RETURN_URL", "STRIPE_CONNECT_REFRESH_URL",
	"PLATFORM_FEE_RATE", "CURRENCY",
	"DEFAULT_TIMEZONE", "CALENDAR_HORIZON_WEEKS", "CALENDAR_LOCATION",
	"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET",
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "pilateshub")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL_HOURS", 72)
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("TRUSTED_PROXIES", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("FEED_CACHE_TTL_MIN", 30)
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("STRIPE_CONNECT_RETURN_URL", "http://localhost:3000/instructor/payouts")
	viper.SetDefault("STRIPE_CONNECT_REFRESH_URL", "http://localhost:3000/instructor/payouts/refresh")
	viper.SetDefault("PLATFORM_FEE_RATE", "0.05")
	viper.SetDefault("CURRENCY", "aud")
	viper.SetDefault("DEFAULT_TIMEZONE", "Australia/Sydney")
	viper.SetDefault("CALENDAR_HORIZON_WEEKS", 8)
	viper.SetDefault("CALENDAR_LOCATION", "")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
}

func LoadConfig() {
	// A local .env only fills variables the environment does not already set.
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to read .env: %v", err)
		}
	}
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()
	setDefaults()
	// Unmarshal only sees env vars for keys viper already knows about.
	for _, k := range keys {
		_ = viper.BindEnv(k)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig.Currency = strings.ToLower(AppConfig.Currency)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// Proxies splits TRUSTED_PROXIES on commas. Empty means no proxy is trusted.
func (c Config) Proxies() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
