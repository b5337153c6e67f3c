// Package setting stores named JSON documents in the settings table.
package setting

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/opticare/opticare-portal/internal/db/models"
)

const nameQueryPattern = "name = ?"

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned for an empty setting name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrSettingAlreadyExists is returned by Create for a taken name.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

func check(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	return nil
}

func find(db *gorm.DB, name string) (*models.Setting, error) {
	var s models.Setting

	err := db.Where(nameQueryPattern, name).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}

	if err != nil {
		return nil, errors.Wrapf(err, "read setting %q", name)
	}

	return &s, nil
}

// Get retrieves a setting by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if err := check(db, name); err != nil {
		return nil, err
	}

	return find(db, name)
}

// GetAll retrieves all settings ordered by name.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	if err := db.Order("name").Find(&settings).Error; err != nil {
		return nil, errors.Wrap(err, "read settings")
	}

	return settings, nil
}

// Create inserts a new setting, an existing name is an error.
func Create(db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if err := check(db, name); err != nil {
		return nil, err
	}

	_, err := find(db, name)
	if err == nil {
		return nil, ErrSettingAlreadyExists
	}

	if !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}

	s := &models.Setting{Name: name, Value: value}
	if err = db.Create(s).Error; err != nil {
		return nil, errors.Wrapf(err, "create setting %q", name)
	}

	return s, nil
}

// Set creates or replaces a setting.
func Set(db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if err := check(db, name); err != nil {
		return nil, err
	}

	s, err := find(db, name)
	if errors.Is(err, ErrSettingNotFound) {
		return Create(db, name, value)
	}

	if err != nil {
		return nil, err
	}

	s.Value = value
	if err = db.Save(s).Error; err != nil {
		return nil, errors.Wrapf(err, "update setting %q", name)
	}

	return s, nil
}

// Delete removes a setting by name.
func Delete(db *gorm.DB, name string) error {
	if err := check(db, name); err != nil {
		return err
	}

	res := db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete setting %q", name)
	}

	if res.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// LoadJSON decodes the setting name into out.
func LoadJSON(db *gorm.DB, name string, out any) error {
	s, err := Get(db, name)
	if err != nil {
		return err
	}

	return errors.Wrapf(json.Unmarshal(s.Value, out), "decode setting %q", name)
}

// SaveJSON stores in as the setting name.
func SaveJSON(db *gorm.DB, name string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "encode setting %q", name)
	}

	_, err = Set(db, name, data)

	return err
}
