package catalog

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opticare/opticare-portal/internal/db/fixtures"
	"github.com/opticare/opticare-portal/internal/db/models"
)

// Seed loads the fixtures into an empty catalog. It returns false when
// doctors already exist.
func Seed(db *gorm.DB) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var n int64
	if err := db.Model(&models.Doctor{}).Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "count doctors")
	}

	if n > 0 {
		return false, nil
	}

	doctors, err := fixtures.Doctors()
	if err != nil {
		return false, err
	}

	locations, err := fixtures.Locations()
	if err != nil {
		return false, err
	}

	schedules, err := fixtures.Schedules()
	if err != nil {
		return false, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doctors).Error; err != nil {
			return errors.Wrap(err, "seed doctors")
		}

		if err := tx.Create(&locations).Error; err != nil {
			return errors.Wrap(err, "seed locations")
		}

		if err := tx.Omit(clause.Associations).Create(&schedules).Error; err != nil {
			return errors.Wrap(err, "seed schedules")
		}

		return nil
	})

	return err == nil, err
}
