package dbutils

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jiaming2012/quote-builder/src/logger"
)

// InitPostgresWithUrl opens the database and migrates every model passed in.
func InitPostgresWithUrl(url string, models ...interface{}) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.NewLogrusLogger(log.StandardLogger(), gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return nil, fmt.Errorf("failed to migrate %T: %w", m, err)
		}
	}

	return db, nil
}
