package database

import (
	"github.com/xcelrent/xcelrent-backend/internal/models"
	"gorm.io/gorm"
)

// RunMigrations applies schema changes that AutoMigrate alone can't express,
// for databases created by earlier revisions of the service.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Car{},
		&models.Booking{},
		&models.OTP{},
	)
	if err != nil {
		return err
	}

	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS fcm_token text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS user_type text DEFAULT 'renter'",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('renter', 'admin'))`)
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('Pending', 'Confirmed', 'On-going', 'Completed', 'Cancelled'))`)
	}

	if db.Migrator().HasTable(&models.Car{}) {
		db.Exec(`ALTER TABLE cars DROP CONSTRAINT IF EXISTS cars_status_check`)
		db.Exec(`ALTER TABLE cars ADD CONSTRAINT cars_status_check CHECK (status IN ('Live', 'Booked', 'Unavailable'))`)
	}

	return nil
}
