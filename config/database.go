package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the MySQL connection described by the DB_* variables.
func InitDB() error {
	dbHost := os.Getenv("DB_HOST")
	dbPort := Getenv("DB_PORT", "3306")
	dbDatabase := os.Getenv("DB_DATABASE")
	dbUsername := os.Getenv("DB_USERNAME")
	dbPassword := os.Getenv("DB_PASSWORD")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		dbUsername,
		dbPassword,
		dbHost,
		dbPort,
		dbDatabase,
	)

	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	logLevel := logger.Info
	if isProduction() && strings.ToLower(os.Getenv("DEBUG_SQL")) != "true" {
		logLevel = logger.Warn
	}

	cfg := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel, IgnoreRecordNotFoundError: true},
		),
	}

	db, err := gorm.Open(mysql.Open(dsn), cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(GetenvInt("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(GetenvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxLifetime(time.Duration(GetenvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute)
	DB = db

	Log.Info("database connected", zap.String("host", dbHost), zap.String("database", dbDatabase))
	return nil
}
