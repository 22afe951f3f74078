// Package config loads the bridge configuration from the environment.
// A .env file in the working directory is read once at startup; values
// are not re-read while the server runs.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server needs at startup.
type Config struct {
	Env              string
	Port             string
	CORSAllowOrigins string
	JWTSecret        string
	MetricsEnabled   bool

	SOAP      SOAPConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
}

// SOAPConfig describes how to reach the wallet SOAP service.
type SOAPConfig struct {
	Endpoint       string
	Timeout        time.Duration
	ConnectTimeout time.Duration
	MaxRPS         float64
}

type LogConfig struct {
	Level  string
	Format string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// RedisConfig is only used when Host is set; otherwise the rate limiter
// keeps its counters in memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis server was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file found: %v", err)
	}
}

// Load reads the configuration from the process environment.
func Load() Config {
	return Config{
		Env:              GetEnv("ENV", "development"),
		Port:             GetEnv("PORT", "5000"),
		CORSAllowOrigins: GetEnv("CORS_ALLOW_ORIGINS", "*"),
		JWTSecret:        GetEnv("JWT_SECRET", ""),
		MetricsEnabled:   GetBoolEnv("METRICS_ENABLED", true),
		SOAP: SOAPConfig{
			Endpoint:       GetEnv("SOAP_ENDPOINT", "http://localhost:4000/wsdl?wsdl"),
			Timeout:        GetDurationEnv("SOAP_TIMEOUT", 30*time.Second),
			ConnectTimeout: GetDurationEnv("SOAP_CONNECT_TIMEOUT", 30*time.Second),
			MaxRPS:         GetFloatEnv("SOAP_MAX_RPS", 0),
		},
		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", "info"),
			Format: GetEnv("LOG_FORMAT", "text"),
		},
		RateLimit: RateLimitConfig{
			Max:    GetIntEnv("RATE_LIMIT_MAX", 5),
			Window: GetDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", ""),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func GetFloatEnv(key string, defaultVal float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// GetDurationEnv parses values such as "30s" or "1m".
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
