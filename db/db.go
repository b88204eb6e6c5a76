package db

import (
	"Gin_postgres_redis_club_equipment/models"
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

	err = Migrate(DB)
	if err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{}, &models.Credential{}, &models.Invite{},
		&models.Equipment{}, &models.Checkout{}, &models.Deficiency{},
	); err != nil {
		return err
	}

	// 同一设备最多一条“未归还”。Races between concurrent checkouts die here.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_equipment
	  ON %s (equipment_id)
	  WHERE returned_at IS NULL;
	`, models.CheckoutTable, models.CheckoutTable)).Error; err != nil {
		return err
	}

	// 查询当前借用更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_equipment_checkedout_desc
	  ON %s (equipment_id, checked_out_at DESC)
	  WHERE returned_at IS NULL;
	`, models.CheckoutTable, models.CheckoutTable)).Error; err != nil {
		return err
	}

	// pending deficiency lookups drive the status recompute
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_pending_by_equipment
	  ON %s (equipment_id, severity)
	  WHERE status = 'pending';
	`, models.DeficiencyTable, models.DeficiencyTable)).Error; err != nil {
		return err
	}

	return nil
}
