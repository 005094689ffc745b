package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"mediapost/config"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Connect opens the relational store and configures the connection pool.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Info
	if cfg.IsProduction() {
		logLevel = gormlogger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get generic database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck pings the database within a short deadline.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func prepareGoose(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return sqlDB, nil
}

// MigrateUp applies all pending embedded migrations.
func MigrateUp(db *gorm.DB) error {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return err
	}
	if err := goose.Up(sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *gorm.DB) error {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return err
	}
	if err := goose.Down(sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrateReset rolls back every migration.
func MigrateReset(db *gorm.DB) error {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return err
	}
	if err := goose.Reset(sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migrate reset: %w", err)
	}
	return nil
}

// MigrateStatus prints the applied state of each migration.
func MigrateStatus(db *gorm.DB) error {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return err
	}
	return goose.Status(sqlDB, migrationsDir)
}

// MigrationVersion returns the current schema version.
func MigrationVersion(db *gorm.DB) (int64, error) {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return 0, err
	}
	return goose.GetDBVersion(sqlDB)
}
