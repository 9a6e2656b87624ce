package repo

import (
	"fmt"
	"strings"

	"casino-service/internal/config"
	"casino-service/internal/model"
	"casino-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	conf := config.GlobalConfig.Database
	var err error
	DB, err = OpenDB(conf.Driver, conf.DSN)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database",
			zap.String("driver", conf.Driver),
			zap.Error(err),
		)
	}

	if err := Migrate(DB); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
}

// OpenDB opens a gorm connection for driver (sqlite, postgres or mysql).
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", "sqlite":
		if dsn == "" {
			dsn = "casino.db"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.SessionState{},
		&model.BillingLog{},
	)
}
