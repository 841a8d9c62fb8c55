package db

import (
	"Gin_postgres_redis_club_tool/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Equipment{},
		&models.EquipmentLog{},
		&models.Artist{},
		&models.Reservation{},
	); err != nil {
		return err
	}

	// fast "who holds what" lookups; only open checkouts carry the column
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_checkouts
	  ON %s (checked_out_by)
	  WHERE checked_out_by IS NOT NULL;
	`, models.EquipmentTable, models.EquipmentTable)).Error; err != nil {
		return err
	}

	// per-item history reads newest-first
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_item_ts_desc
	  ON %s (equipment_id, timestamp DESC);
	`, models.EquipmentLogTable, models.EquipmentLogTable)).Error; err != nil {
		return err
	}

	return nil
}
