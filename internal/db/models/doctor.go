package models

import "time"

// Doctor is a physician of the clinic catalog.
type Doctor struct {
	ID                string   `gorm:"primaryKey;size:32" json:"id"`
	Name              string   `gorm:"size:255;not null" json:"name"`
	Specialization    string   `gorm:"size:64;index" json:"specialization"`
	Phone             string   `gorm:"size:64" json:"phone,omitempty"`
	Email             string   `gorm:"size:255" json:"email,omitempty"`
	IsActive          bool     `gorm:"index" json:"is_active"`
	Avatar            string   `gorm:"size:512" json:"avatar,omitempty"`
	YearsOfExperience int      `json:"years_of_experience,omitempty"`
	Rating            float64  `json:"rating,omitempty"`
	ReviewsCount      int      `json:"reviews_count,omitempty"`
	ConsultationPrice int      `json:"consultation_price,omitempty"`
	Bio               string   `gorm:"type:text" json:"bio,omitempty"`
	Qualifications    []string `gorm:"serializer:json" json:"qualifications,omitempty"`
	Languages         []string `gorm:"serializer:json" json:"languages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
