package config

import (
	"fmt"
	"log"
	"time"

	"github.com/kendall-kelly/pedidos-api/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the configured database and stores it as the shared instance
func ConnectDatabase(cfg *Config) error {
	gormLogLevel := logger.Warn
	if cfg.LogLevel == "debug" {
		gormLogLevel = logger.Info
	}

	db, err := Open(cfg.DBDriver, cfg.DatabaseURL, gormLogLevel)
	if err != nil {
		return err
	}

	DB = db
	log.Printf("Database connection established successfully (driver=%s)", cfg.DBDriver)
	return nil
}

// Open returns a gorm DB for the given driver and DSN with driver errors translated
// into gorm's generic errors (duplicated key, foreign key violated)
func Open(driver, dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite serializes writers; a single connection also keeps :memory: databases intact
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return db, nil
	}

	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// Migrate creates or updates the schema for every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Channel{},
		&models.Store{},
		&models.Customer{},
		&models.User{},
		&models.Order{},
		&models.HistoryEntry{},
	)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
