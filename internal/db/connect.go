package db

import (
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/diewo77/go-orders/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const memoryDSN = "file:orders?mode=memory&cache=shared"

var passwordRe = regexp.MustCompile(`(password=)([^\s]+)`)

// Dialector returns the gorm dialector for the configured driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return sqlite.Open(cfg.DSN), nil
	case "memory":
		return sqlite.Open(memoryDSN), nil
	case "postgres":
		dsn := NormalizeDSN(cfg.DSN)
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_DSN is empty, check the environment configuration")
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Connect opens the database, retrying while a server driver comes up.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	attempts := 1
	if cfg.Driver == "postgres" {
		attempts = 5
	}
	var conn *gorm.DB
	for i := 0; i < attempts; i++ {
		conn, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.Printf("Database connection attempt %d/%d failed: %v", i+1, attempts, err)
		if i+1 < attempts {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	if cfg.Driver == "postgres" {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	log.Printf("[DB] driver=%s dsn=%s", driverName(cfg.Driver), MaskDSN(cfg.DSN))
	return conn, nil
}

// MaskDSN hides the password of a key=value DSN.
func MaskDSN(dsn string) string {
	return passwordRe.ReplaceAllString(dsn, `${1}***`)
}

func driverName(d string) string {
	if d == "" {
		return "sqlite"
	}
	return d
}
