package models

import "time"

// Schedule is the weekly working slot of a doctor at a location.
// DayOfWeek counts from Monday=1 to Sunday=7.
type Schedule struct {
	ID          string     `gorm:"primaryKey;size:32" json:"id"`
	DoctorID    string     `gorm:"size:32;index;not null" json:"doctor_id"`
	LocationID  string     `gorm:"size:32;index;not null" json:"location_id"`
	DayOfWeek   int        `gorm:"index" json:"day_of_week"`
	StartTime   string     `gorm:"size:5" json:"start_time"`
	EndTime     string     `gorm:"size:5" json:"end_time"`
	IsActive    bool       `json:"is_active"`
	BreakTime   *TimeRange `gorm:"serializer:json" json:"break_time,omitempty"`
	MaxPatients int        `json:"max_patients,omitempty"`

	Doctor   Doctor   `gorm:"foreignKey:DoctorID" json:"doctor"`
	Location Location `gorm:"foreignKey:LocationID" json:"location"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
