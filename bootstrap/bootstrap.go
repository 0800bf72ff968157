package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ngo-connect-backend/internal/application/emails"
	"ngo-connect-backend/internal/config"
	"ngo-connect-backend/internal/infrastructure/database"
	"ngo-connect-backend/internal/infrastructure/llm"
	"ngo-connect-backend/internal/infrastructure/mpesa"
	"ngo-connect-backend/internal/infrastructure/storage"
	"ngo-connect-backend/internal/infrastructure/translate"
	"ngo-connect-backend/internal/interfaces/router"
	"ngo-connect-backend/internal/pkg/logger"
	"ngo-connect-backend/internal/pkg/retry"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Runtime is a built application and the clients it owns.
type Runtime struct {
	Config *config.Config
	App    *fiber.App
	DB     *gorm.DB
	Rdb    *redis.Client

	closers []func() error
}

// Close releases every client opened by Build.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New creates the Fiber app for the serverless entry (api handler imports this package, not internal).
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.LogLevel, cfg.Env)
	rt, err := Build(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return rt.App, nil
}

// Build opens the database, Redis and every configured provider, then wires the app.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rt := &Runtime{Config: cfg}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	rt.DB = db
	rt.closers = append(rt.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	rdb, err := OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if rdb != nil {
		rt.Rdb = rdb
		rt.closers = append(rt.closers, rdb.Close)
	}

	deps, closers, err := Providers(ctx, cfg)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, closers...)
	deps.DB, deps.Rdb = db, rt.Rdb

	rt.App = router.CreateApp(cfg, deps)
	return rt, nil
}

// OpenRedis connects to url. An empty url disables Redis: token revocation
// and health counters are then skipped.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		log.Warn().Msg("REDIS_URL not set; token revocation and health counters disabled")
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Providers builds the outbound clients that are configured. Unset keys leave
// the matching dependency nil.
func Providers(ctx context.Context, cfg *config.Config) (router.Deps, []func() error, error) {
	var deps router.Deps
	var closers []func() error
	policy := retry.DefaultPolicy
	policy.Retries = cfg.OutboundRetries

	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCS(ctx, cfg.GCSBucket, cfg.GoogleCredentialsFile)
		if err != nil {
			return deps, closers, err
		}
		deps.Store = gcs
		closers = append(closers, gcs.Close)
	} else {
		log.Warn().Msg("GCS_BUCKET_NAME not set; images are kept in memory and served under /media")
	}

	if cfg.GoogleTranslateAPIKey != "" || cfg.GoogleCredentialsFile != "" {
		g, err := translate.NewGoogle(ctx, cfg.GoogleTranslateAPIKey, cfg.GoogleCredentialsFile)
		if err != nil {
			return deps, closers, err
		}
		if cfg.OutboundTimeout > 0 {
			g.Timeout = cfg.OutboundTimeout
		}
		g.Retry = policy
		deps.Translator = g
	}

	if cfg.AnthropicAPIKey != "" {
		deps.LLM = llm.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL,
			&http.Client{Timeout: cfg.OutboundTimeout}, policy.Retries)
	}

	if cfg.MpesaConsumerKey != "" && cfg.MpesaConsumerSecret != "" {
		c := mpesa.New(cfg.MpesaConsumerKey, cfg.MpesaConsumerSecret, cfg.MpesaSandbox, cfg.OutboundTimeout)
		c.Retry = policy
		deps.QR = c
	}

	if cfg.SendinblueAPIKey != "" {
		deps.Mail = &emails.BrevoClient{
			APIKey:   cfg.SendinblueAPIKey,
			MailFrom: cfg.MailFrom,
			Client:   &http.Client{Timeout: cfg.OutboundTimeout},
			Retry:    policy,
		}
	}
	return deps, closers, nil
}
