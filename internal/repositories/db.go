package repositories

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wdg-platform/filestore/internal/config"
	"github.com/wdg-platform/filestore/internal/models"
)

func ConnectDatabase() *gorm.DB {
	dsn := config.Envs.DB_URL
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	// Run migrations
	if err := db.AutoMigrate(&models.FileRecord{}); err != nil {
		log.Fatal("Migration failed:", err)
	}
	log.Println("Successfully connected to database")
	return db
}
