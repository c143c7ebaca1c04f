package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openlance/openlance/internal/models"
)

// Connect opens the database handle. The handle is passed explicitly into
// every component that needs it; there is no package-level singleton.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(gdb *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Bid{},
		&models.BidTracking{},
	}

	migrator := gdb.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := gdb.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
