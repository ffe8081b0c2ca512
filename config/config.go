package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort        string        `mapstructure:"HTTP_PORT"`
	GRPCPort        string        `mapstructure:"GRPC_PORT"`
	APIBaseURL      string        `mapstructure:"API_BASE_URL"`
	AllowedOrigins  string        `mapstructure:"ALLOWED_ORIGINS"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	CacheBackend    string        `mapstructure:"CACHE_BACKEND"`
	DBDSN           string        `mapstructure:"DB_DSN"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RefreshSchedule string        `mapstructure:"REFRESH_SCHEDULE"`
	Locale          string        `mapstructure:"LOCALE"`
	CacheTTL        time.Duration `mapstructure:"CACHE_TTL"`
}

var keys = []string{
	"HTTP_PORT",
	"GRPC_PORT",
	"API_BASE_URL",
	"ALLOWED_ORIGINS",
	"REDIS_ADDR",
	"CACHE_BACKEND",
	"DB_DSN",
	"REQUEST_TIMEOUT",
	"REFRESH_SCHEDULE",
	"LOCALE",
	"CACHE_TTL",
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("HTTP_PORT", ":8080")
	v.SetDefault("GRPC_PORT", ":50051")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("REFRESH_SCHEDULE", "@every 10m")
	v.SetDefault("LOCALE", "en")
	v.SetDefault("CACHE_TTL", "24h")

	v.AutomaticEnv()

	// ВАЖНО: без явного бинда Unmarshal не видит переменные окружения
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
