package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env      string
	Port     string
	LogLevel string

	DatabaseURL string // postgres DSN; empty or "sqlite:<path>" selects sqlite
	RedisURL    string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	FrontendURLEndsWith string
	DevPassword         string

	GCSBucket             string
	GoogleCredentialsFile string // GOOGLE_APPLICATION_CREDENTIALS
	GoogleCloudProject    string
	GoogleTranslateAPIKey string

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string

	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaSandbox        bool

	OutboundTimeout     time.Duration
	OutboundRetries     int
	TranslationMemoSize int
	UploadMaxBytes      int64
	MetricsEnabled      bool
	HealthAdminKey      string

	SendinblueAPIKey string
	MailFrom         string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	return &Config{
		Env:                   v.GetString("APP_ENV"),
		Port:                  v.GetString("PORT"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		DatabaseURL:           v.GetString("DATABASE_URL"),
		RedisURL:              v.GetString("REDIS_URL"),
		JWTSecret:             v.GetString("JWT_SECRET_KEY"),
		AccessTokenTTL:        v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:       v.GetDuration("REFRESH_TOKEN_TTL"),
		FrontendURLEndsWith:   v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:           v.GetString("DEV_PASSWORD"),
		GCSBucket:             v.GetString("GCS_BUCKET_NAME"),
		GoogleCredentialsFile: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		GoogleCloudProject:    v.GetString("GOOGLE_CLOUD_PROJECT"),
		GoogleTranslateAPIKey: v.GetString("GOOGLE_TRANSLATE_API_KEY"),
		AnthropicAPIKey:       v.GetString("ANTHROPIC_API_KEY"),
		AnthropicModel:        v.GetString("ANTHROPIC_MODEL"),
		AnthropicBaseURL:      v.GetString("ANTHROPIC_BASE_URL"),
		MpesaConsumerKey:      v.GetString("MPESA_CONSUMER_KEY"),
		MpesaConsumerSecret:   v.GetString("MPESA_CONSUMER_SECRET"),
		MpesaSandbox:          v.GetBool("MPESA_SANDBOX"),
		OutboundTimeout:       v.GetDuration("OUTBOUND_TIMEOUT"),
		OutboundRetries:       v.GetInt("OUTBOUND_RETRIES"),
		TranslationMemoSize:   v.GetInt("TRANSLATION_MEMO_SIZE"),
		UploadMaxBytes:        v.GetInt64("UPLOAD_MAX_BYTES"),
		MetricsEnabled:        v.GetBool("METRICS_ENABLED"),
		HealthAdminKey:        v.GetString("HEALTH_ADMIN_KEY"),
		SendinblueAPIKey:      v.GetString("SENDINBLUE_API_KEY"),
		MailFrom:              v.GetString("MAIL_FROM"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ACCESS_TOKEN_TTL", 24*time.Hour)
	v.SetDefault("REFRESH_TOKEN_TTL", 30*24*time.Hour)
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-haiku-20240307")
	v.SetDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com")
	v.SetDefault("MPESA_SANDBOX", true)
	v.SetDefault("OUTBOUND_TIMEOUT", 15*time.Second)
	v.SetDefault("OUTBOUND_RETRIES", 2)
	v.SetDefault("TRANSLATION_MEMO_SIZE", 1000)
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("METRICS_ENABLED", true)
}

// MinJWTSecretBytes is the shortest HS256 signing key accepted.
const MinJWTSecretBytes = 32

var ErrWeakJWTSecret = errors.New("JWT_SECRET_KEY must be set")

// Validate rejects configurations the API must not start with.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinJWTSecretBytes {
		return fmt.Errorf("%w: at least %d bytes, got %d", ErrWeakJWTSecret, MinJWTSecretBytes, len(c.JWTSecret))
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
