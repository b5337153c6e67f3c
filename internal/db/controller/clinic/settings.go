// Package clinic stores the clinic wide settings.
package clinic

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/opticare/opticare-portal/internal/db/controller/setting"
)

// SettingKey is the name of the settings row.
const SettingKey = "clinic"

// Settings edited on /settings/general.
type Settings struct {
	Name         string `form:"name"          json:"name"          validate:"required,max=128"`
	ContactEmail string `form:"contact_email" json:"contactEmail"  validate:"omitempty,email"`
	ContactPhone string `form:"contact_phone" json:"contactPhone"  validate:"omitempty,max=64"`
	SlotMinutes  int    `form:"slot_minutes"  json:"slotMinutes"   validate:"required,min=5,max=240"`
	Timezone     string `form:"timezone"      json:"timezone"      validate:"required,timezone"`
}

// Defaults are used until the settings are saved once.
func Defaults() Settings {
	return Settings{
		Name:        "OptiCare",
		SlotMinutes: 30,
		Timezone:    "UTC",
	}
}

// Load returns the stored settings or Defaults when none are stored.
func Load(db *gorm.DB) (Settings, error) {
	s := Defaults()

	err := setting.LoadJSON(db, SettingKey, &s)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return Defaults(), nil
	}

	return s, err
}

// Save stores s.
func (s *Settings) Save(db *gorm.DB) error {
	return setting.SaveJSON(db, SettingKey, s)
}
