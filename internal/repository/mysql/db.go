package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

// Dialector picks the gorm dialect for driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates the schema and seeds the given departments.
// Existing departments are left untouched.
func Migrate(ctx context.Context, db *gorm.DB, departments []string) error {
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	repo := NewDepartmentRepository(db)
	for _, name := range departments {
		d := domain.Department{Name: name}
		err := repo.Store(ctx, &d)
		switch {
		case err == nil:
			logrus.Infof("seeded department %q (id %d)", name, d.ID)
		case errors.Is(err, domain.ErrConflict):
			logrus.Debugf("department %q already exists", name)
		default:
			return fmt.Errorf("seed department %q: %w", name, err)
		}
	}
	return nil
}
