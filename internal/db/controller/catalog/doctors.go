// Package catalog answers the read queries of the clinic catalog:
// doctors, locations and their weekly schedules.
package catalog

import (
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/opticare/opticare-portal/internal/db/models"
)

const activeQuery = "is_active = ?"

var (
	// ErrDoctorNotFound is returned by DoctorByID.
	ErrDoctorNotFound = errors.New("doctor not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// SpecializationCount is part of Stats.
type SpecializationCount struct {
	Specialization string
	Count          int
}

// Stats summarises the doctors. Averages cover active doctors only.
type Stats struct {
	TotalDoctors        int
	ActiveDoctors       int
	InactiveDoctors     int
	Specializations     int
	AvgRating           float64 // one decimal
	AvgExperience       int
	AvgPrice            int
	SpecializationCount []SpecializationCount
}

func doctors(db *gorm.DB, scope func(*gorm.DB) *gorm.DB) ([]models.Doctor, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.Doctor

	q := db.Model(&models.Doctor{})
	if scope != nil {
		q = scope(q)
	}

	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "read doctors")
	}

	return out, nil
}

func onlyActive(active bool) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB { return q.Where(activeQuery, active) }
}

// Doctors returns all doctors.
func Doctors(db *gorm.DB) ([]models.Doctor, error) {
	return doctors(db, nil)
}

// ActiveDoctors returns the doctors taking patients.
func ActiveDoctors(db *gorm.DB) ([]models.Doctor, error) {
	return doctors(db, onlyActive(true))
}

// InactiveDoctors returns the doctors not taking patients.
func InactiveDoctors(db *gorm.DB) ([]models.Doctor, error) {
	return doctors(db, onlyActive(false))
}

// ActiveDoctorsCount counts the active doctors.
func ActiveDoctorsCount(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64

	err := db.Model(&models.Doctor{}).Where(activeQuery, true).Count(&n).Error

	return n, errors.Wrap(err, "count doctors")
}

// DoctorByID returns one doctor, active or not.
func DoctorByID(db *gorm.DB, id string) (*models.Doctor, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var d models.Doctor

	err := db.Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDoctorNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "read doctor")
	}

	return &d, nil
}

// DoctorsBySpecialization returns the active doctors of one specialization.
func DoctorsBySpecialization(db *gorm.DB, specialization string) ([]models.Doctor, error) {
	return doctors(db, func(q *gorm.DB) *gorm.DB {
		return q.Where(activeQuery, true).Where("specialization = ?", specialization)
	})
}

// Specializations returns the distinct specializations of all doctors, sorted.
func Specializations(db *gorm.DB) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []string

	err := db.Model(&models.Doctor{}).Distinct().Order("specialization").Pluck("specialization", &out).Error

	return out, errors.Wrap(err, "read specializations")
}

// SearchDoctors matches the query against name, specialization and bio of
// the active doctors, ignoring case. An empty query returns all active doctors.
//
// Matching runs in Go, LOWER() of sqlite only folds ASCII.
func SearchDoctors(db *gorm.DB, query string) ([]models.Doctor, error) {
	active, err := ActiveDoctors(db)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return active, nil
	}

	out := make([]models.Doctor, 0, len(active))

	for _, d := range active {
		if strings.Contains(strings.ToLower(d.Name), term) ||
			strings.Contains(strings.ToLower(d.Specialization), term) ||
			strings.Contains(strings.ToLower(d.Bio), term) {
			out = append(out, d)
		}
	}

	return out, nil
}

// Sort orders of SortedDoctors.
const (
	SortByRating     = "rating"
	SortByExperience = "experience"
	SortByPrice      = "price"
)

// SortedDoctors returns the active doctors ordered by rating (best first),
// experience (most first) or price (cheapest first). Any other order keeps
// the catalog order.
func SortedDoctors(db *gorm.DB, order string) ([]models.Doctor, error) {
	out, err := ActiveDoctors(db)
	if err != nil {
		return nil, err
	}

	SortDoctors(out, order)

	return out, nil
}

// SortDoctors sorts list in place, see SortedDoctors.
func SortDoctors(list []models.Doctor, order string) {
	switch order {
	case SortByRating:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rating > list[j].Rating })
	case SortByExperience:
		sort.SliceStable(list, func(i, j int) bool { return list[i].YearsOfExperience > list[j].YearsOfExperience })
	case SortByPrice:
		sort.SliceStable(list, func(i, j int) bool { return list[i].ConsultationPrice < list[j].ConsultationPrice })
	}
}

// DoctorStats computes Stats.
func DoctorStats(db *gorm.DB) (*Stats, error) {
	all, err := Doctors(db)
	if err != nil {
		return nil, err
	}

	st := &Stats{TotalDoctors: len(all)}

	var (
		rating     float64
		experience int
		price      int
		specs      []string
		perSpec    = map[string]int{}
	)

	for _, d := range all {
		if !slices.Contains(specs, d.Specialization) {
			specs = append(specs, d.Specialization)
		}

		if !d.IsActive {
			st.InactiveDoctors++

			continue
		}

		st.ActiveDoctors++
		rating += d.Rating
		experience += d.YearsOfExperience
		price += d.ConsultationPrice
		perSpec[d.Specialization]++
	}

	sort.Strings(specs)

	st.Specializations = len(specs)
	for _, s := range specs {
		st.SpecializationCount = append(st.SpecializationCount, SpecializationCount{Specialization: s, Count: perSpec[s]})
	}

	if st.ActiveDoctors > 0 {
		n := float64(st.ActiveDoctors)
		st.AvgRating = math.Round(rating/n*10) / 10
		st.AvgExperience = int(math.Round(float64(experience) / n))
		st.AvgPrice = int(math.Round(float64(price) / n))
	}

	return st, nil
}
