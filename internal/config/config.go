package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/invoicer/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	S3         S3Config
	Auth       AuthConfig
	Sentry     SentryConfig
	Cache      CacheConfig
	Render     RenderConfig `validate:"required"`
	Typst      TypstConfig
	Logo       LogoConfig
	Pyroscope  PyroscopeConfig
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
	// AllowedOrigins for CORS; empty allows any origin
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

// S3Config holds the blob storage settings used for business logos
type S3Config struct {
	Enabled       bool
	Region        string
	Bucket        string
	KeyPrefix     string `mapstructure:"key_prefix"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	// MaxUploadBytes is enforced by callers before Upload
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

type AuthConfig struct {
	Provider types.AuthProvider
	Secret   string
	Supabase SupabaseConfig
}

type SupabaseConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	ServiceKey string `mapstructure:"service_key"`
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type CacheConfig struct {
	Enabled bool
}

// RenderConfig drives the PDF and preview renderers
type RenderConfig struct {
	Engine types.PDFEngine `validate:"required"`
	// DefaultTemplate overrides the registry default when set
	DefaultTemplate string `mapstructure:"default_template"`
	// StrictTemplates turns an unknown template id into an error instead of a fallback
	StrictTemplates  bool          `mapstructure:"strict_templates"`
	PreviewScale     float64       `mapstructure:"preview_scale" validate:"gte=0,lte=4"`
	LiveUpdateWindow time.Duration `mapstructure:"live_update_window"`
	// Compress is switched off for debugging the raw PDF content streams
	Compress bool
}

type TypstConfig struct {
	BinaryPath  string `mapstructure:"binary_path"`
	FontDir     string `mapstructure:"font_dir"`
	TemplateDir string `mapstructure:"template_dir"`
	OutputDir   string `mapstructure:"output_dir"`
}

type LogoConfig struct {
	Timeout  time.Duration
	MaxBytes int64         `mapstructure:"max_bytes"`
	RetryMax int           `mapstructure:"retry_max"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// AllowedHosts may serve logos besides storage. A leading dot matches
	// every subdomain.
	AllowedHosts []string `mapstructure:"allowed_hosts"`
}

type PyroscopeConfig struct {
	Enabled         bool
	ServerAddress   string   `mapstructure:"server_address"`
	ApplicationName string   `mapstructure:"application_name"`
	BasicAuthUser   string   `mapstructure:"basic_auth_user"`
	BasicAuthPass   string   `mapstructure:"basic_auth_pass"`
	SampleRate      uint32   `mapstructure:"sample_rate"`
	DisableGCRuns   bool     `mapstructure:"disable_gc_runs"`
	ProfileTypes    []string `mapstructure:"profile_types"`
}

// RateLimitConfig bounds render requests per user. Zero disables the limit.
type RateLimitConfig struct {
	RendersPerSecond float64 `mapstructure:"renders_per_second"`
	Burst            int
}

func NewConfig() (*Configuration, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/invoicer")

	v.SetEnvPrefix("INVOICER")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	config := GetDefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres: PostgresConfig{
			Host:                   "localhost",
			Port:                   5432,
			User:                   "invoicer",
			DBName:                 "invoicer",
			SSLMode:                "disable",
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 30,
		},
		S3: S3Config{
			MaxUploadBytes: 5 << 20,
		},
		Auth:  AuthConfig{Provider: types.AuthProviderJWT},
		Cache: CacheConfig{Enabled: true},
		Render: RenderConfig{
			Engine:           types.PDFEngineGofpdf,
			PreviewScale:     1,
			LiveUpdateWindow: 200 * time.Millisecond,
			Compress:         true,
		},
		Typst: TypstConfig{
			BinaryPath:  "typst",
			FontDir:     "assets/fonts",
			TemplateDir: "internal/typst/templates",
		},
		Logo: LogoConfig{
			Timeout:  5 * time.Second,
			MaxBytes: 5 << 20,
			RetryMax: 2,
			CacheTTL: 30 * time.Minute,
		},
		Pyroscope: PyroscopeConfig{ApplicationName: "invoicer"},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
