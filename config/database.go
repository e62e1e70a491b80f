package config

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens the database selected by DB_DRIVER.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case DriverPostgres:
		dsn, err := cfg.PostgresDSN()
		if err != nil {
			return nil, errors.Wrap(err, "parse DATABASE_URL")
		}
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         utils.GetGormLogger(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return db, nil
}

// InitDB connects and migrates, exiting the process on failure.
func InitDB(cfg *Config) *gorm.DB {
	db, err := ConnectDatabase(cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to connect to database")
	}

	if err := models.Migrate(db); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to migrate database")
	}

	utils.LogInfo("Database connection successful")
	return db
}
