package translation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeProvider) Translate(_ context.Context, text, source, target string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, source+">"+target+":"+text)
	if f.err != nil {
		return "", f.err
	}
	return strings.ToUpper(text) + "-" + target, nil
}

func (f *fakeProvider) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTranslationTest(t *testing.T) (*Service, *gorm.DB, *fakeProvider) {
	db := testutil.NewDB(t)
	p := &fakeProvider{}
	svc := NewService(db, p, 10)
	svc.Now = func() time.Time { return fixedNow }
	return svc, db, p
}

func TestTranslate_Validation(t *testing.T) {
	svc, _, p := setupTranslationTest(t)
	ctx := context.Background()

	_, err := svc.Translate(ctx, "", "sw")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Translate(ctx, "Hello", "")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Translate(ctx, "Hello", "fr")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Zero(t, p.count())
}

func TestTranslate_EnglishIsIdentity(t *testing.T) {
	svc, db, p := setupTranslationTest(t)
	res, err := svc.Translate(context.Background(), "Hello", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.TranslatedText)
	assert.Zero(t, p.count())

	var n int64
	db.Model(&domain.TranslationCache{}).Count(&n)
	assert.Zero(t, n)
}

func TestTranslate_MissStoresThenMemoAnswers(t *testing.T) {
	svc, db, p := setupTranslationTest(t)
	ctx := context.Background()

	res, err := svc.Translate(ctx, "Hello", "sw")
	require.NoError(t, err)
	assert.Equal(t, "HELLO-sw", res.TranslatedText)
	assert.False(t, res.FromCache)
	assert.Equal(t, []string{"en>sw:Hello"}, p.calls)

	var row domain.TranslationCache
	require.NoError(t, db.First(&row, "key = ?", "Hello_sw").Error)
	assert.Equal(t, "HELLO-sw", row.TranslatedText)
	assert.Equal(t, "en", row.SourceLanguage)
	assert.True(t, row.CreatedAt.Equal(fixedNow))

	res, err = svc.Translate(ctx, "Hello", "sw")
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 1, p.count())
}

func TestTranslate_FreshRowSkipsProvider(t *testing.T) {
	svc, db, p := setupTranslationTest(t)
	require.NoError(t, db.Create(&domain.TranslationCache{
		Key: "Hello_sw", TranslatedText: "Habari", SourceLanguage: "en", TargetLanguage: "sw",
		CreatedAt: fixedNow.Add(-29 * 24 * time.Hour),
	}).Error)

	res, err := svc.Translate(context.Background(), "Hello", "sw")
	require.NoError(t, err)
	assert.Equal(t, "Habari", res.TranslatedText)
	assert.True(t, res.FromCache)
	assert.Zero(t, p.count())
}

func TestTranslate_StaleRowIsOverwritten(t *testing.T) {
	svc, db, p := setupTranslationTest(t)
	require.NoError(t, db.Create(&domain.TranslationCache{
		Key: "Hello_sw", TranslatedText: "Old", SourceLanguage: "en", TargetLanguage: "sw",
		CreatedAt: fixedNow.Add(-31 * 24 * time.Hour),
	}).Error)

	res, err := svc.Translate(context.Background(), "Hello", "sw")
	require.NoError(t, err)
	assert.Equal(t, "HELLO-sw", res.TranslatedText)
	assert.Equal(t, 1, p.count())

	var rows []domain.TranslationCache
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "HELLO-sw", rows[0].TranslatedText)
	assert.True(t, rows[0].CreatedAt.Equal(fixedNow))
}

func TestTranslate_ProviderFailureFallsBackUncached(t *testing.T) {
	svc, db, p := setupTranslationTest(t)
	p.err = errors.New("quota exceeded")
	ctx := context.Background()

	res, err := svc.Translate(ctx, "Hello", "sw")
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.TranslatedText)
	assert.False(t, res.FromCache)

	var n int64
	db.Model(&domain.TranslationCache{}).Count(&n)
	assert.Zero(t, n)

	p.err = nil
	res, err = svc.Translate(ctx, "Hello", "sw")
	require.NoError(t, err)
	assert.Equal(t, "HELLO-sw", res.TranslatedText)
	assert.Equal(t, 2, p.count())
}

func TestTranslate_NoProviderReturnsSource(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, nil, 0)
	res, err := svc.Translate(context.Background(), "Hello", "sw")
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.TranslatedText)
}

func TestTranslateBatch(t *testing.T) {
	svc, _, p := setupTranslationTest(t)
	ctx := context.Background()

	texts := []string{"one", "two", "", "three", "one"}
	out, err := svc.TranslateBatch(ctx, texts, "sw")
	require.NoError(t, err)
	assert.Equal(t, []string{"ONE-sw", "TWO-sw", "", "THREE-sw", "ONE-sw"}, out)
	assert.LessOrEqual(t, p.count(), 4)

	out, err = svc.TranslateBatch(ctx, []string{"a", "b"}, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)

	_, err = svc.TranslateBatch(ctx, nil, "sw")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.TranslateBatch(ctx, []string{"a"}, "de")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	_, err = svc.TranslateBatch(ctx, make([]string, MaxBatch+1), "sw")
	assert.ErrorIs(t, err, ErrTooManyTexts)
}
