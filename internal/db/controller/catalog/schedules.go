package catalog

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/opticare/opticare-portal/internal/db/models"
)

// Locations returns all locations.
func Locations(db *gorm.DB) ([]models.Location, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.Location

	err := db.Order("id").Find(&out).Error

	return out, errors.Wrap(err, "read locations")
}

func schedules(db *gorm.DB, query string, args ...any) ([]models.Schedule, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.Schedule

	q := db.Preload("Doctor").Preload("Location")
	if query != "" {
		q = q.Where(query, args...)
	}

	if err := q.Order("day_of_week, start_time, id").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "read schedules")
	}

	return out, nil
}

// SchedulesWithDetails returns every schedule with its doctor and location.
func SchedulesWithDetails(db *gorm.DB) ([]models.Schedule, error) {
	return schedules(db, "")
}

// DoctorSchedules returns the schedules of one doctor.
func DoctorSchedules(db *gorm.DB, doctorID string) ([]models.Schedule, error) {
	return schedules(db, "doctor_id = ?", doctorID)
}

// LocationSchedules returns the schedules at one location.
func LocationSchedules(db *gorm.DB, locationID string) ([]models.Schedule, error) {
	return schedules(db, "location_id = ?", locationID)
}
