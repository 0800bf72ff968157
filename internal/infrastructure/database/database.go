package database

import (
	"fmt"
	"strings"
	"time"

	"ngo-connect-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// DefaultSQLitePath is used when DATABASE_URL is empty.
const DefaultSQLitePath = "ngo_connect.db"

// Open opens a GORM DB from DSN. A postgres URL uses the pgx driver with
// PreferSimpleProtocol, which avoids 42P05 ("prepared statement already exists")
// behind poolers (PgBouncer, Supabase, Render). An empty DSN or a "sqlite:" prefix
// opens a local sqlite file instead.
func Open(dsn string) (*gorm.DB, error) {
	// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey.
	cfg := &gorm.Config{Logger: newLogger(), TranslateError: true}
	if dsn == "" || strings.HasPrefix(dsn, sqlitePrefix) {
		path := strings.TrimPrefix(dsn, sqlitePrefix)
		if path == "" {
			path = DefaultSQLitePath
		}
		db, err := gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		// sqlite serialises writers; one connection keeps transactions from tripping SQLITE_BUSY.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func newLogger() logger.Interface {
	return logger.New(&log.Logger, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.SkillNeeded{},
		&domain.UserSkill{},
		&domain.FocusArea{},
		&domain.OrgProfile{},
		&domain.OrgProject{},
		&domain.OrgInitiative{},
		&domain.OrgSkill{},
		&domain.TranslationCache{},
		&domain.DonationQR{},
	}
}

// AutoMigrate creates or updates the schema.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.User{}, "Skills", &domain.UserSkill{}); err != nil {
		return fmt.Errorf("setup user_skills: %w", err)
	}
	return db.AutoMigrate(Models()...)
}

// Ping checks the underlying connection.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Tables lists the tables currently present in the schema.
func Tables(db *gorm.DB) ([]string, error) {
	return db.Migrator().GetTables()
}
