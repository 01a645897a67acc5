package db

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/mediplus/internal/auth"
	"github.com/BruksfildServices01/mediplus/internal/config"
	"github.com/BruksfildServices01/mediplus/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Env == "production" {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLife)
	sqlDB.SetConnMaxIdleTime(cfg.DBConnMaxIdle)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Booking{},
	); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}
	return nil
}

// SeedAdmin creates the configured admin account if it does not exist yet.
// An empty username disables seeding.
func SeedAdmin(ctx context.Context, db *gorm.DB, seed config.AdminSeed, log *zap.Logger) error {
	if seed.Username == "" {
		return nil
	}

	var existing models.User
	err := db.WithContext(ctx).Where("username = ?", seed.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("looking up admin %q: %w", seed.Username, err)
	}

	hashed, err := auth.HashPassword(seed.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: hashed,
		Name:         "Administrator",
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("creating admin %q: %w", seed.Username, err)
	}

	log.Info("admin account seeded", zap.String("username", seed.Username))
	return nil
}
