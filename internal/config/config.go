package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API       *APIConfig       `mapstructure:"api"`
	Gin       *GinConfig       `mapstructure:"gin"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	Redis     *RedisConfig     `mapstructure:"redis"`
	Festival  *FestivalConfig  `mapstructure:"festival"`
	RateLimit *RateLimitConfig `mapstructure:"rate_limit"`
	Admin     *AdminConfig     `mapstructure:"admin"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	SessionSigningKey  string   `mapstructure:"session_signing_key"`
	SessionTTLHours    int      `mapstructure:"session_ttl_hours"`
	CookieName         string   `mapstructure:"cookie_name"`
	CookieSecure       bool     `mapstructure:"cookie_secure"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FestivalConfig holds the business knobs of the recorder and the aggregation reader.
type FestivalConfig struct {
	AwardPoints                    int     `mapstructure:"award_points"`
	AwardWindowMinutes             float64 `mapstructure:"award_window_minutes"`
	TrendingWindowMinutes          int     `mapstructure:"trending_window_minutes"`
	TrendingTopK                   int     `mapstructure:"trending_top_k"`
	TrendingRatingWeight           float64 `mapstructure:"trending_rating_weight"`
	DashboardRecentLimit           int     `mapstructure:"dashboard_recent_limit"`
	TokenRetries                   int     `mapstructure:"token_retries"`
	LiveLeaderboardIntervalSeconds int     `mapstructure:"live_leaderboard_interval_seconds"`
}

type RateLimitRule struct {
	Limit    int   `mapstructure:"limit"`
	WindowMs int64 `mapstructure:"window_ms"`
}

type RateLimitConfig struct {
	Backend        string                   `mapstructure:"backend"` // "memory" or "redis"
	SweepThreshold int                      `mapstructure:"sweep_threshold"`
	Rules          map[string]RateLimitRule `mapstructure:"rules"`
}

type AdminConfig struct {
	BootstrapCode     string `mapstructure:"bootstrap_code"`
	BootstrapPassword string `mapstructure:"bootstrap_password"`
}

// Rule returns the rule configured for action, falling back to "default".
func (c *RateLimitConfig) Rule(action string) RateLimitRule {
	if r, ok := c.Rules[action]; ok {
		return r
	}
	return c.Rules["default"]
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.session_ttl_hours", 24)
	v.SetDefault("api.cookie_name", "festival_session")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("festival.award_points", 10)
	v.SetDefault("festival.award_window_minutes", 30)
	v.SetDefault("festival.trending_window_minutes", 10)
	v.SetDefault("festival.trending_top_k", 3)
	v.SetDefault("festival.trending_rating_weight", 2)
	v.SetDefault("festival.dashboard_recent_limit", 20)
	v.SetDefault("festival.token_retries", 200)
	v.SetDefault("festival.live_leaderboard_interval_seconds", 5)
	v.SetDefault("rate_limit.backend", "memory")
	v.SetDefault("rate_limit.sweep_threshold", 10000)
	v.SetDefault("rate_limit.rules.default.limit", 30)
	v.SetDefault("rate_limit.rules.default.window_ms", 60000)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("admin.bootstrap_code", "")
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API == nil || conf.API.SessionSigningKey == "" {
		return nil, fmt.Errorf("api.session_signing_key is required")
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		// Running handlers keep the values they were built with; a restart applies the change.
		zap.L().Info("config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
	})
	v.WatchConfig()

	return conf, nil
}
