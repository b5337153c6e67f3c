package models

import "time"

// TimeRange is a "HH:MM" to "HH:MM" interval of a day.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours of a location. Either shift may be missing.
type WorkingHours struct {
	Morning   *TimeRange `json:"morning,omitempty"`
	Afternoon *TimeRange `json:"afternoon,omitempty"`
}

// Location is a site of the clinic.
type Location struct {
	ID           string       `gorm:"primaryKey;size:32" json:"id"`
	Name         string       `gorm:"size:255;not null" json:"name"`
	Address      string       `gorm:"size:255" json:"address"`
	Phone        string       `gorm:"size:64" json:"phone"`
	City         string       `gorm:"size:128" json:"city"`
	IsActive     bool         `json:"is_active"`
	WorkingHours WorkingHours `gorm:"serializer:json" json:"working_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
