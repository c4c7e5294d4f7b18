package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/registration-service/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// activeRegistrationIndex backs the create-time duplicate check: at most one
// live (not deleted, not canceled) registration per user and event.
const activeRegistrationIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_registration_active
	ON registrations (users_id, events_id)
	WHERE deleted_at IS NULL AND status <> 'CANCELED'
`

func NewPostgresDB(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	if log != nil {
		log.Info("PostgreSQL connection established")
	}
	return db, nil
}

// Migrate creates the registrations table and its partial unique index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Registration{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := db.Exec(activeRegistrationIndex).Error; err != nil {
		return fmt.Errorf("create active registration index: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
