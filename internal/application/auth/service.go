package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ngo-connect-backend/internal/application/catalog"
	"ngo-connect-backend/internal/application/emails"
	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service handles registration and token issuance.
type Service struct {
	DB     *gorm.DB
	Tokens *TokenManager
	Cost   int // bcrypt cost; zero means bcrypt.DefaultCost
	Mail   emails.Sender
}

type SignupInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
}

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	User         *UserView `json:"user,omitempty"`
}

// UserView is the public shape of a user.
type UserView struct {
	ID           uint                `json:"id"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	Email        string              `json:"email"`
	IsAdmin      bool                `json:"is_admin"`
	Role         string              `json:"role"`
	CreatedAt    time.Time           `json:"created_at"`
	LastLogin    *time.Time          `json:"last_login"`
	OrgProfileID *uint               `json:"org_profile_id,omitempty"`
	Skills       []catalog.SkillView `json:"skills,omitempty"`
}

// NewUserView renders u. Skills are included for volunteers, the profile id for admins.
func NewUserView(u *domain.User) *UserView {
	v := &UserView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		Role:      u.Role(),
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
	if u.IsAdmin {
		if u.HasOrgProfile() {
			id := u.OrgProfile.ID
			v.OrgProfileID = &id
		}
		return v
	}
	v.Skills = catalog.NewSkillViews(u.Skills)
	return v
}

// Signup creates a user and returns its id.
func (s *Service) Signup(ctx context.Context, in SignupInput) (uint, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = domain.NormalizeEmail(in.Email)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return 0, ErrMissingFields
	}
	if !validation.IsValidName(in.FirstName) || !validation.IsValidName(in.LastName) {
		return 0, ErrInvalidName
	}
	if !validation.IsValidEmail(in.Email) {
		return 0, ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return 0, ErrWeakPassword
	}

	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return 0, ErrWeakPassword
	}
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		IsAdmin:      in.IsAdmin,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		return tx.Create(user).Error
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	log.Info().Uint("user_id", user.ID).Bool("is_admin", user.IsAdmin).Msg("user registered")
	if s.Mail != nil {
		go s.welcome(context.WithoutCancel(ctx), user)
	}
	return user.ID, nil
}

func (s *Service) welcome(ctx context.Context, u *domain.User) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.Mail.SendWelcome(ctx, u.Email, u.FirstName, u.IsAdmin); err != nil {
		log.Warn().Err(err).Uint("user_id", u.ID).Msg("welcome email failed")
	}
}

// Login verifies credentials, stamps last_login and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.Tokens.now()
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", u.ID).
		Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("stamp last_login: %w", err)
	}
	u.LastLogin = &now

	access, _, err := s.Tokens.Issue(u.ID, u.Email, u.IsAdmin, TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.Tokens.Issue(u.ID, u.Email, u.IsAdmin, TokenRefresh)
	if err != nil {
		return nil, err
	}
	full, err := s.loadUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.Tokens.AccessTTL.Seconds()),
		User:         NewUserView(full),
	}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.Tokens.Parse(ctx, refreshToken, TokenRefresh)
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).First(&u, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	access, _, err := s.Tokens.Issue(u.ID, u.Email, u.IsAdmin, TokenAccess)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.Tokens.AccessTTL.Seconds()),
	}, nil
}

// Logout revokes the presented access token.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return ErrNotAuthenticated
	}
	return s.Tokens.Revoke(ctx, claims)
}

// CurrentUser loads the user behind a token.
func (s *Service) CurrentUser(ctx context.Context, userID uint) (*UserView, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewUserView(u), nil
}

func (s *Service) loadUser(ctx context.Context, userID uint) (*domain.User, error) {
	var u domain.User
	err := s.DB.WithContext(ctx).
		Preload("OrgProfile").
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("skills_needed.id") }).
		First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}
