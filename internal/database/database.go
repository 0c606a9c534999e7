package database

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kavas-89/Task-Management-System/internal/config"
	puresqlite "github.com/glebarez/sqlite"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values of DB_DRIVER.
const (
	DriverSQLite     = "sqlite"
	DriverSQLitePure = "sqlite-pure"
	DriverLibSQL     = "libsql"
	DriverMySQL      = "mysql"
	DriverPostgres   = "postgres"
	DriverMemory     = "memory"
)

const defaultSQLitePath = "taskboard.db"

// Dialector returns the gorm dialector for the configured driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.DBDriver) {
	case DriverSQLite, "":
		return sqlite.Open(dsnOr(cfg.DBDSN, defaultSQLitePath)), nil
	case DriverSQLitePure:
		return puresqlite.Open(dsnOr(cfg.DBDSN, defaultSQLitePath)), nil
	case DriverLibSQL:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for the %s driver", DriverLibSQL)
		}
		return sqlite.New(sqlite.Config{
			DriverName: "libsql",
			DSN:        cfg.DBDSN,
		}), nil
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsnOr(cfg.DBDSN, dsn)), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsnOr(cfg.DBDSN, dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Connect opens the configured database.
func Connect(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.DBLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established", "driver", cfg.DBDriver)
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

func dsnOr(dsn, fallback string) string {
	if dsn == "" {
		return fallback
	}
	return dsn
}
