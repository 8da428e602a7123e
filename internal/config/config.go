package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Tracing      TracingConfig `mapstructure:"tracing"`
	Redis        RedisConfig
	AI           AIConfig
	Gamification GamificationConfig `mapstructure:"gamification"`
	CORS         CORSConfig         `mapstructure:"cors"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`

	// Runtime flags set from the command line, not the config file.
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

// AutoMigrateEnabled reports whether startup should run the schema migration:
// always outside release mode, and in release mode only when forced from the
// command line.
func (c *Config) AutoMigrateEnabled() bool {
	return c.ForceMigrate || c.Server.Mode != "release"
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type AIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	TTSModel   string `mapstructure:"tts_model"`
	TTSVoice   string `mapstructure:"tts_voice"`
	ImageModel string `mapstructure:"image_model"`
}

// GamificationConfig is the single source of truth for the points and leveling
// rule. Every award entry point reads these values; there is no second formula
// anywhere in the codebase.
type GamificationConfig struct {
	LevelThreshold        int `mapstructure:"level_threshold"`
	SessionBasePoints     int `mapstructure:"session_base_points"`
	StreakBonusPerDay     int `mapstructure:"streak_bonus_per_day"`
	StreakBonusCap        int `mapstructure:"streak_bonus_cap"`
	MinStreakForBonus     int `mapstructure:"min_streak_for_bonus"`
	ReflectionBasePoints  int `mapstructure:"reflection_base_points"`
	ReflectionScoreBonus  int `mapstructure:"reflection_score_bonus"`
	ReflectionScoreCutoff int `mapstructure:"reflection_score_cutoff"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("TFIVE")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI provider
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")
	viper.BindEnv("ai.tts_model", "AI_TTS_MODEL")
	viper.BindEnv("ai.tts_voice", "AI_TTS_VOICE")
	viper.BindEnv("ai.image_model", "AI_IMAGE_MODEL")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	viper.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	viper.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	viper.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	ApplyGamificationDefaults(&cfg.Gamification)

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// ApplyGamificationDefaults fills in the canonical rule constants for any
// value the config file leaves unset.
func ApplyGamificationDefaults(g *GamificationConfig) {
	if g.LevelThreshold <= 0 {
		g.LevelThreshold = 1000
	}
	if g.SessionBasePoints <= 0 {
		g.SessionBasePoints = 50
	}
	if g.StreakBonusPerDay <= 0 {
		g.StreakBonusPerDay = 10
	}
	if g.StreakBonusCap <= 0 {
		g.StreakBonusCap = 50
	}
	if g.MinStreakForBonus <= 0 {
		g.MinStreakForBonus = 3
	}
	if g.ReflectionBasePoints <= 0 {
		g.ReflectionBasePoints = 10
	}
	if g.ReflectionScoreBonus <= 0 {
		g.ReflectionScoreBonus = 20
	}
	if g.ReflectionScoreCutoff <= 0 {
		g.ReflectionScoreCutoff = 70
	}
}
