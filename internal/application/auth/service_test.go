package auth

import (
	"context"
	"testing"
	"time"

	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*Service, *gorm.DB) {
	db := testutil.NewDB(t)
	_, rdb := testutil.NewRedis(t)
	svc := &Service{
		DB:   db,
		Cost: bcrypt.MinCost,
		Tokens: &TokenManager{
			Secret:     []byte("test-secret"),
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
			Rdb:        rdb,
		},
	}
	return svc, db
}

func TestSignup_CreatesUser(t *testing.T) {
	svc, db := setupAuthTest(t)
	id, err := svc.Signup(context.Background(), SignupInput{
		FirstName: "Amina", LastName: "Otieno", Email: "Amina@Example.com", Password: "secret123", IsAdmin: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	var u domain.User
	require.NoError(t, db.First(&u, id).Error)
	assert.Equal(t, "amina@example.com", u.Email)
	assert.True(t, u.IsAdmin)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
}

type welcomeRecorder struct {
	sent chan string
}

func (w *welcomeRecorder) SendWelcome(_ context.Context, toEmail, _ string, _ bool) error {
	w.sent <- toEmail
	return nil
}

func TestSignup_SendsWelcome(t *testing.T) {
	svc, _ := setupAuthTest(t)
	rec := &welcomeRecorder{sent: make(chan string, 1)}
	svc.Mail = rec

	_, err := svc.Signup(context.Background(), SignupInput{
		FirstName: "Baraka", LastName: "Mwangi", Email: "baraka@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	select {
	case to := <-rec.sent:
		assert.Equal(t, "baraka@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email not sent")
	}
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Email: "a@b.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Signup(ctx, SignupInput{FirstName: "A", LastName: "B", Email: "not-an-email", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Signup(ctx, SignupInput{FirstName: "A", LastName: "B", Email: "a@b.com", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Signup(ctx, SignupInput{FirstName: "A1", LastName: "B", Email: "a@b.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()
	in := SignupInput{FirstName: "A", LastName: "B", Email: "dup@example.com", Password: "secret123"}
	_, err := svc.Signup(ctx, in)
	require.NoError(t, err)

	in.Email = "DUP@example.com"
	_, err = svc.Signup(ctx, in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_ConcurrentInsertMapsToEmailTaken(t *testing.T) {
	svc, db := setupAuthTest(t)
	// Another signup commits the same email between the existence check and the insert.
	fired := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:concurrent_signup", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "users" {
			return
		}
		fired = true
		other := &domain.User{FirstName: "Other", LastName: "Signup", Email: "race@example.com", PasswordHash: "x"}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(other).Error)
	}))

	_, err := svc.Signup(context.Background(), SignupInput{
		FirstName: "Late", LastName: "Comer", Email: "race@example.com", Password: "secret123",
	})
	assert.True(t, fired)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_IssuesTokensAndStampsLastLogin(t *testing.T) {
	svc, db := setupAuthTest(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "vol@example.com", false)

	pair, err := svc.Login(ctx, "vol@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
	require.NotNil(t, pair.User)
	assert.Equal(t, u.ID, pair.User.ID)
	assert.Equal(t, "volunteer", pair.User.Role)

	claims, err := svc.Tokens.Parse(ctx, pair.AccessToken, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	var got domain.User
	require.NoError(t, db.First(&got, u.ID).Error)
	assert.NotNil(t, got.LastLogin)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, db := setupAuthTest(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "vol@example.com", false)

	_, err := svc.Login(ctx, "vol@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrEmailPasswordRequired)
}

func TestRefresh(t *testing.T) {
	svc, db := setupAuthTest(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "admin@example.com", true)

	pair, err := svc.Login(ctx, "admin@example.com", "password123")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)
	_, err = svc.Tokens.Parse(ctx, next.AccessToken, TokenAccess)
	assert.NoError(t, err)

	// An access token is not a refresh token.
	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	svc, db := setupAuthTest(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "vol@example.com", false)

	pair, err := svc.Login(ctx, "vol@example.com", "password123")
	require.NoError(t, err)
	claims, err := svc.Tokens.Parse(ctx, pair.AccessToken, TokenAccess)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	_, err = svc.Tokens.Parse(ctx, pair.AccessToken, TokenAccess)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestCurrentUser_AdminWithProfile(t *testing.T) {
	svc, db := setupAuthTest(t)
	u := testutil.CreateUser(t, db, "admin@example.com", true)
	org := testutil.CreateOrg(t, db, u.ID, "Helping Hands")

	view, err := svc.CurrentUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, view.OrgProfileID)
	assert.Equal(t, org.ID, *view.OrgProfileID)
	assert.Nil(t, view.Skills)

	_, err = svc.CurrentUser(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTokenManager_RejectsExpiredAndForeign(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &TokenManager{Secret: []byte("a"), AccessTTL: time.Minute, Now: func() time.Time { return now }}
	raw, _, err := m.Issue(7, "x@y.z", false, TokenAccess)
	require.NoError(t, err)

	_, err = m.Parse(context.Background(), raw, TokenAccess)
	require.NoError(t, err)

	other := &TokenManager{Secret: []byte("b"), Now: m.Now}
	_, err = other.Parse(context.Background(), raw, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	now = now.Add(2 * time.Minute)
	_, err = m.Parse(context.Background(), raw, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForgedTokens(t *testing.T) {
	ctx := context.Background()
	forged := &Claims{UserID: 1, IsAdmin: true, Type: TokenAccess}

	// empty key: neither signing nor parsing is allowed
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, forged).SignedString([]byte(""))
	require.NoError(t, err)
	empty := &TokenManager{Secret: []byte("")}
	_, err = empty.Parse(ctx, raw, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, _, err = empty.Issue(1, "a@b.com", true, TokenAccess)
	assert.Error(t, err)

	// correctly signed but without exp
	m := &TokenManager{Secret: []byte("a-real-secret-of-thirty-two-bytes")}
	raw, err = jwt.NewWithClaims(jwt.SigningMethodHS256, forged).SignedString(m.Secret)
	require.NoError(t, err)
	_, err = m.Parse(ctx, raw, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
