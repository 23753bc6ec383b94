package database

import (
	"hostify/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open opens the sqlite database and migrates the schema. The handle is
// returned, not stored in a package global; callers inject it where needed.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.DomainTld{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
		&models.Invoice{},
		&models.Service{},
		&models.Ticket{},
		&models.TicketReply{},
		&models.Setting{},
		&models.Notification{},
	)
}
