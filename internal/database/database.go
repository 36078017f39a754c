package database

import (
	"log"

	"github.com/osteria-vecchia/reservations-api/internal/config"
	"github.com/osteria-vecchia/reservations-api/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	// TranslateError lets the store detect duplicate-key races as
	// gorm.ErrDuplicatedKey.
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	if err := db.AutoMigrate(&store.Record{}); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
