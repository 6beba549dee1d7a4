package postgres

import (
	"log"

	"github.com/LavaJover/shvark-ftd-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MustInitDB opens the database; the schema is owned by migrations.
func MustInitDB(cfg *config.FtdConfig) *gorm.DB {
	dsn := cfg.FtdDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	return db
}
