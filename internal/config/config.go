package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the service. Values come from the
// environment (HTTP_ADDR, DATABASE_URL, REDIS_ADDR, JWT_SECRET,
// FREQUENCY_CACHE_TTL) with defaults suitable for local development.
type Config struct {
	HTTPAddr          string
	DatabaseURL       string
	RedisAddr         string
	JWTSecret         string
	FrequencyCacheTTL time.Duration
}

// Load collects configuration from the environment with defaults.
func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("redis_addr", "vending-redis:6379")
	v.SetDefault("jwt_secret", "super-secret-key")
	v.SetDefault("frequency_cache_ttl", 30*time.Second)

	return Config{
		HTTPAddr:          v.GetString("http_addr"),
		DatabaseURL:       v.GetString("database_url"),
		RedisAddr:         v.GetString("redis_addr"),
		JWTSecret:         v.GetString("jwt_secret"),
		FrequencyCacheTTL: v.GetDuration("frequency_cache_ttl"),
	}
}
