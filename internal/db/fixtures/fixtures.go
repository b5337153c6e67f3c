// Package fixtures holds the seed data of the clinic catalog.
package fixtures

import (
	_ "embed"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/opticare/opticare-portal/internal/db/models"
)

var (
	//go:embed doctors.json
	doctorsJSON []byte

	//go:embed locations.json
	locationsJSON []byte

	//go:embed schedules.json
	schedulesJSON []byte
)

// Doctors returns the seed doctors.
func Doctors() ([]models.Doctor, error) {
	var out []models.Doctor

	return out, errors.Wrap(json.Unmarshal(doctorsJSON, &out), "decode doctors fixture")
}

// Locations returns the seed locations.
func Locations() ([]models.Location, error) {
	var out []models.Location

	return out, errors.Wrap(json.Unmarshal(locationsJSON, &out), "decode locations fixture")
}

// Schedules returns the seed schedules without their doctor and location.
func Schedules() ([]models.Schedule, error) {
	var out []models.Schedule

	return out, errors.Wrap(json.Unmarshal(schedulesJSON, &out), "decode schedules fixture")
}
