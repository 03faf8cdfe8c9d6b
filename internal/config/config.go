package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Storage   StorageConfig
	Log       LogConfig
	Extractor ExtractorConfig
	Detector  DetectorConfig
	Pipeline  PipelineConfig
	CORS      CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractorProviderConfig holds settings for a single extraction provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds field extractor settings with multi-provider support.
type ExtractorConfig struct {
	// Legacy flat fields
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to legacy flat fields.
func (e *ExtractorConfig) PrimaryConfig() *ExtractorProviderConfig {
	if e.Primary.Provider != "" {
		return &e.Primary
	}
	return &ExtractorProviderConfig{
		Provider:     e.Provider,
		APIKey:       e.APIKey,
		DefaultModel: e.DefaultModel,
		BaseURL:      e.BaseURL,
		TimeoutSecs:  e.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (e *ExtractorConfig) TertiaryConfig() *ExtractorProviderConfig {
	if e.Tertiary.Provider != "" {
		return &e.Tertiary
	}
	return nil
}

// DetectorConfig holds settings for the optional visual marker detector.
type DetectorConfig struct {
	Enabled             bool    `mapstructure:"enabled"`
	Endpoint            string  `mapstructure:"endpoint"`
	APIKey              string  `mapstructure:"api_key"`
	TimeoutSecs         int     `mapstructure:"timeout_secs"`
	MinConfidence       float64 `mapstructure:"min_confidence"`
	BreakerMinRequests  uint32  `mapstructure:"breaker_min_requests"`
	BreakerFailureRatio float64 `mapstructure:"breaker_failure_ratio"`
	BreakerOpenSecs     int     `mapstructure:"breaker_open_secs"`
}

// PipelineConfig holds intake pipeline settings.
type PipelineConfig struct {
	ExtractionTimeout time.Duration `mapstructure:"extraction_timeout"`
	Jitter            bool          `mapstructure:"jitter"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string        `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	Environment   string        `mapstructure:"environment"`
	MaxFileSizeMB int64         `mapstructure:"max_file_size_mb"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// StorageConfig selects the object storage backend ("s3" or "local").
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	LocalRoot string `mapstructure:"local_root"`
}

// LogConfig holds logging settings. Level "debug" adds source locations and
// microsecond timestamps to log lines.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from environment variables with the CLAIMASSIST_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLAIMASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_file_size_mb", 16)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "claimassist")
	v.SetDefault("db.password", "claimassist_secret")
	v.SetDefault("db.name", "claimassist_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "claimassist-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Storage defaults
	v.SetDefault("storage.backend", "s3")
	v.SetDefault("storage.local_root", "uploads")

	// Log defaults
	v.SetDefault("log.level", "debug")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Extractor defaults (legacy flat)
	v.SetDefault("extractor.provider", "gemini")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.default_model", "gemini-2.5-flash")
	v.SetDefault("extractor.base_url", "")
	v.SetDefault("extractor.timeout_secs", 60)

	// Extractor primary/secondary/tertiary defaults
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("extractor."+tier+".provider", "")
		v.SetDefault("extractor."+tier+".api_key", "")
		v.SetDefault("extractor."+tier+".default_model", "")
		v.SetDefault("extractor."+tier+".base_url", "")
		v.SetDefault("extractor."+tier+".timeout_secs", 60)
	}

	// Detector defaults
	v.SetDefault("detector.enabled", false)
	v.SetDefault("detector.endpoint", "http://localhost:9000/detect")
	v.SetDefault("detector.api_key", "")
	v.SetDefault("detector.timeout_secs", 15)
	v.SetDefault("detector.min_confidence", 0.5)
	v.SetDefault("detector.breaker_min_requests", 5)
	v.SetDefault("detector.breaker_failure_ratio", 0.5)
	v.SetDefault("detector.breaker_open_secs", 30)

	// Pipeline defaults
	v.SetDefault("pipeline.extraction_timeout", "60s")
	v.SetDefault("pipeline.jitter", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                     "CLAIMASSIST_SERVER_PORT",
		"server.read_timeout":             "CLAIMASSIST_SERVER_READ_TIMEOUT",
		"server.write_timeout":            "CLAIMASSIST_SERVER_WRITE_TIMEOUT",
		"server.environment":              "CLAIMASSIST_SERVER_ENVIRONMENT",
		"server.max_file_size_mb":         "CLAIMASSIST_SERVER_MAX_FILE_SIZE_MB",
		"db.host":                         "CLAIMASSIST_DB_HOST",
		"db.port":                         "CLAIMASSIST_DB_PORT",
		"db.user":                         "CLAIMASSIST_DB_USER",
		"db.password":                     "CLAIMASSIST_DB_PASSWORD",
		"db.name":                         "CLAIMASSIST_DB_NAME",
		"db.sslmode":                      "CLAIMASSIST_DB_SSLMODE",
		"db.max_open":                     "CLAIMASSIST_DB_MAX_OPEN",
		"db.max_idle":                     "CLAIMASSIST_DB_MAX_IDLE",
		"s3.region":                       "CLAIMASSIST_S3_REGION",
		"s3.bucket":                       "CLAIMASSIST_S3_BUCKET",
		"s3.endpoint":                     "CLAIMASSIST_S3_ENDPOINT",
		"s3.access_key":                   "CLAIMASSIST_S3_ACCESS_KEY",
		"s3.secret_key":                   "CLAIMASSIST_S3_SECRET_KEY",
		"s3.presign_expiry":               "CLAIMASSIST_S3_PRESIGN_EXPIRY",
		"storage.backend":                 "CLAIMASSIST_STORAGE_BACKEND",
		"storage.local_root":              "CLAIMASSIST_STORAGE_LOCAL_ROOT",
		"log.level":                       "CLAIMASSIST_LOG_LEVEL",
		"cors.allowed_origins":            "CLAIMASSIST_CORS_ALLOWED_ORIGINS",
		"extractor.provider":              "CLAIMASSIST_EXTRACTOR_PROVIDER",
		"extractor.api_key":               "CLAIMASSIST_EXTRACTOR_API_KEY",
		"extractor.default_model":         "CLAIMASSIST_EXTRACTOR_DEFAULT_MODEL",
		"extractor.base_url":              "CLAIMASSIST_EXTRACTOR_BASE_URL",
		"extractor.timeout_secs":          "CLAIMASSIST_EXTRACTOR_TIMEOUT_SECS",
		"detector.enabled":                "CLAIMASSIST_DETECTOR_ENABLED",
		"detector.endpoint":               "CLAIMASSIST_DETECTOR_ENDPOINT",
		"detector.api_key":                "CLAIMASSIST_DETECTOR_API_KEY",
		"detector.timeout_secs":           "CLAIMASSIST_DETECTOR_TIMEOUT_SECS",
		"detector.min_confidence":         "CLAIMASSIST_DETECTOR_MIN_CONFIDENCE",
		"detector.breaker_min_requests":   "CLAIMASSIST_DETECTOR_BREAKER_MIN_REQUESTS",
		"detector.breaker_failure_ratio":  "CLAIMASSIST_DETECTOR_BREAKER_FAILURE_RATIO",
		"detector.breaker_open_secs":      "CLAIMASSIST_DETECTOR_BREAKER_OPEN_SECS",
		"pipeline.extraction_timeout":     "CLAIMASSIST_PIPELINE_EXTRACTION_TIMEOUT",
		"pipeline.jitter":                 "CLAIMASSIST_PIPELINE_JITTER",
	}
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		for _, field := range []string{"provider", "api_key", "default_model", "base_url", "timeout_secs"} {
			key := "extractor." + tier + "." + field
			envBindings[key] = "CLAIMASSIST_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CLAIMASSIST_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CLAIMASSIST_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:          serverPort,
		ReadTimeout:   v.GetDuration("server.read_timeout"),
		WriteTimeout:  v.GetDuration("server.write_timeout"),
		Environment:   v.GetString("server.environment"),
		MaxFileSizeMB: v.GetInt64("server.max_file_size_mb"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Storage = StorageConfig{
		Backend:   v.GetString("storage.backend"),
		LocalRoot: v.GetString("storage.local_root"),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	providerConfig := func(tier string) ExtractorProviderConfig {
		prefix := "extractor." + tier + "."
		return ExtractorProviderConfig{
			Provider:     v.GetString(prefix + "provider"),
			APIKey:       v.GetString(prefix + "api_key"),
			DefaultModel: v.GetString(prefix + "default_model"),
			BaseURL:      v.GetString(prefix + "base_url"),
			TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
		}
	}
	cfg.Extractor = ExtractorConfig{
		Provider:     v.GetString("extractor.provider"),
		APIKey:       v.GetString("extractor.api_key"),
		DefaultModel: v.GetString("extractor.default_model"),
		BaseURL:      v.GetString("extractor.base_url"),
		TimeoutSecs:  v.GetInt("extractor.timeout_secs"),
		Primary:      providerConfig("primary"),
		Secondary:    providerConfig("secondary"),
		Tertiary:     providerConfig("tertiary"),
	}

	cfg.Detector = DetectorConfig{
		Enabled:             v.GetBool("detector.enabled"),
		Endpoint:            v.GetString("detector.endpoint"),
		APIKey:              v.GetString("detector.api_key"),
		TimeoutSecs:         v.GetInt("detector.timeout_secs"),
		MinConfidence:       v.GetFloat64("detector.min_confidence"),
		BreakerMinRequests:  v.GetUint32("detector.breaker_min_requests"),
		BreakerFailureRatio: v.GetFloat64("detector.breaker_failure_ratio"),
		BreakerOpenSecs:     v.GetInt("detector.breaker_open_secs"),
	}

	cfg.Pipeline = PipelineConfig{
		ExtractionTimeout: v.GetDuration("pipeline.extraction_timeout"),
		Jitter:            v.GetBool("pipeline.jitter"),
	}

	if cfg.Pipeline.ExtractionTimeout <= 0 {
		return nil, fmt.Errorf("pipeline.extraction_timeout must be positive, got %s", cfg.Pipeline.ExtractionTimeout)
	}

	return cfg, nil
}
