package translation

import (
	"context"
	"errors"
	"time"

	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/pkg/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SupportedLanguages maps language codes to display names.
var SupportedLanguages = map[string]string{
	"en": "English",
	"sw": "Kiswahili",
}

const (
	// CacheTTL is how long a stored translation stays fresh.
	CacheTTL = 30 * 24 * time.Hour
	// MaxBatch caps TranslateBatch.
	MaxBatch = 100
	// DefaultMemoSize is used when NewService gets a non-positive size.
	DefaultMemoSize = 1000

	batchConcurrency = 4
)

// Provider is a machine-translation backend.
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Service answers translations from memory, then the translation_cache
// table, then the provider.
type Service struct {
	DB       *gorm.DB
	Provider Provider
	Memo     *lru.Cache[string, string]
	Now      func() time.Time
}

// Result is what Translate returns to callers.
type Result struct {
	TranslatedText string `json:"translatedText"`
	SourceLanguage string `json:"sourceLanguage,omitempty"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
	FromCache      bool   `json:"fromCache"`
}

func NewService(db *gorm.DB, provider Provider, memoSize int) *Service {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}
	memo, err := lru.New[string, string](memoSize)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &Service{DB: db, Provider: provider, Memo: memo, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Supported reports whether lang is a known target.
func Supported(lang string) bool {
	_, ok := SupportedLanguages[lang]
	return ok
}

func cacheKey(text, target string) string {
	return text + "_" + target
}

func sourceFor(target string) string {
	if target == "sw" {
		return "en"
	}
	return "sw"
}

func validate(text, target string) error {
	if text == "" || target == "" {
		return ErrMissingFields
	}
	if !Supported(target) {
		return ErrUnsupportedLanguage
	}
	return nil
}

// Translate returns text in target. Provider failures fall back to the
// source text and are never cached.
func (s *Service) Translate(ctx context.Context, text, target string) (*Result, error) {
	if err := validate(text, target); err != nil {
		return nil, err
	}
	if target == "en" {
		return &Result{TranslatedText: text}, nil
	}
	return s.lookup(ctx, text, target), nil
}

func (s *Service) lookup(ctx context.Context, text, target string) *Result {
	source := sourceFor(target)
	res := &Result{SourceLanguage: source, TargetLanguage: target}
	key := cacheKey(text, target)

	if s.Memo != nil {
		if v, ok := s.Memo.Get(key); ok {
			metrics.TranslationLookups.WithLabelValues("memo").Inc()
			res.TranslatedText, res.FromCache = v, true
			return res
		}
	}

	var row domain.TranslationCache
	err := s.DB.WithContext(ctx).Where(&domain.TranslationCache{Key: key}).Take(&row).Error
	switch {
	case err == nil && row.CreatedAt.After(s.now().Add(-CacheTTL)):
		metrics.TranslationLookups.WithLabelValues("db").Inc()
		s.remember(key, row.TranslatedText)
		res.TranslatedText, res.FromCache = row.TranslatedText, true
		return res
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn().Err(err).Msg("translation cache read failed")
	}

	metrics.TranslationLookups.WithLabelValues("miss").Inc()
	if s.Provider == nil {
		log.Warn().Msg("translation requested but no provider is configured")
		res.TranslatedText = text
		return res
	}
	translated, err := s.Provider.Translate(ctx, text, source, target)
	metrics.ObserveProvider(metrics.ProviderTranslate, err)
	if err != nil {
		log.Error().Err(err).Str("target", target).Msg("translation provider failed")
		res.TranslatedText = text
		return res
	}

	entry := domain.TranslationCache{
		Key:            key,
		TranslatedText: translated,
		SourceLanguage: source,
		TargetLanguage: target,
		CreatedAt:      s.now(),
	}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"translated_text", "source_language", "target_language", "created_at"}),
	}).Create(&entry).Error
	if err != nil {
		log.Warn().Err(err).Msg("translation cache write failed")
	}
	s.remember(key, translated)
	res.TranslatedText = translated
	return res
}

func (s *Service) remember(key, value string) {
	if s.Memo != nil {
		s.Memo.Add(key, value)
	}
}

// TranslateBatch translates texts concurrently and returns them in input order.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, target string) ([]string, error) {
	if len(texts) == 0 || target == "" {
		return nil, ErrMissingFields
	}
	if !Supported(target) {
		return nil, ErrUnsupportedLanguage
	}
	if len(texts) > MaxBatch {
		return nil, ErrTooManyTexts
	}
	out := make([]string, len(texts))
	if target == "en" {
		copy(out, texts)
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, text := range texts {
		if text == "" {
			continue
		}
		g.Go(func() error {
			out[i] = s.lookup(gctx, text, target).TranslatedText
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
