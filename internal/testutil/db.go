package testutil

import (
	"testing"

	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/infrastructure/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewRedis starts a miniredis server and returns a client bound to it.
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// CreateUser inserts a user with password "password123".
func CreateUser(t *testing.T, db *gorm.DB, email string, admin bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateOrg inserts an organization owned by userID.
func CreateOrg(t *testing.T, db *gorm.DB, userID uint, name string) *domain.OrgProfile {
	t.Helper()
	org := &domain.OrgProfile{UserID: userID, OrgName: name}
	require.NoError(t, db.Create(org).Error)
	return org
}

// CreateSkill inserts a catalog skill.
func CreateSkill(t *testing.T, db *gorm.DB, name, status string) *domain.SkillNeeded {
	t.Helper()
	s := &domain.SkillNeeded{Skill: name, Status: status}
	require.NoError(t, db.Create(s).Error)
	return s
}
