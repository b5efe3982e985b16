package database

import (
	"fmt"
	"log"
	"sync"

	"socketBoard/configs"
	"socketBoard/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db   *gorm.DB
	once sync.Once
)

func GetDB(config *configs.Config) *gorm.DB {
	once.Do(func() {
		initialize(config)
	})
	return db
}

func initialize(config *configs.Config) {
	dsn := fmt.Sprintf(
		"host=%v user=%v password=%v dbname=%v port=%v sslmode=%v TimeZone=%v",
		config.Viper.GetString("database.host"),
		config.Viper.GetString("database.user"),
		config.Viper.GetString("database.password"),
		config.Viper.GetString("database.name"),
		config.Viper.GetInt("database.port"),
		config.Viper.GetString("database.ssl"),
		config.Viper.GetString("database.timezone"),
	)
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	migrate()
}

func migrate() {
	err := db.AutoMigrate(
		&models.User{},
		&models.Whiteboard{},
		&models.Participant{},
		&models.InvitationCode{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrated successfully")
}
