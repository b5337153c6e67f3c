package schedule

import (
	"slices"

	"github.com/opticare/opticare-portal/internal/db/models"
)

// Filters narrows a schedule list. Empty fields do not filter.
type Filters struct {
	DoctorID       string `query:"doctor"`
	LocationID     string `query:"location"`
	Specialization string `query:"specialization"`
	OnlyActive     bool   `query:"active"`
}

// Apply returns the schedules matching every set filter. OnlyActive also
// drops schedules of inactive doctors, so the doctor must be loaded.
func Apply(schedules []models.Schedule, f Filters) []models.Schedule {
	out := make([]models.Schedule, 0, len(schedules))

	for _, s := range schedules {
		switch {
		case f.DoctorID != "" && s.DoctorID != f.DoctorID,
			f.LocationID != "" && s.LocationID != f.LocationID,
			f.Specialization != "" && s.Doctor.Specialization != f.Specialization,
			f.OnlyActive && (!s.IsActive || !s.Doctor.IsActive):
			continue
		}

		out = append(out, s)
	}

	return out
}

// Conflicts groups schedules that share a weekday and overlap in time.
// Schedules with unparsable times are ignored.
func Conflicts(schedules []models.Schedule) [][]models.Schedule {
	var groups [][]models.Schedule

	contains := func(g []models.Schedule, id string) bool {
		return slices.ContainsFunc(g, func(s models.Schedule) bool { return s.ID == id })
	}

	for i := range schedules {
		for j := i + 1; j < len(schedules); j++ {
			a, b := schedules[i], schedules[j]
			if a.DayOfWeek != b.DayOfWeek || !overlaps(a, b) {
				continue
			}

			gi := slices.IndexFunc(groups, func(g []models.Schedule) bool {
				return contains(g, a.ID) || contains(g, b.ID)
			})
			if gi < 0 {
				groups = append(groups, []models.Schedule{a, b})

				continue
			}

			if !contains(groups[gi], a.ID) {
				groups[gi] = append(groups[gi], a)
			}

			if !contains(groups[gi], b.ID) {
				groups[gi] = append(groups[gi], b)
			}
		}
	}

	return groups
}

func overlaps(a, b models.Schedule) bool {
	as, err1 := ParseClock(a.StartTime)
	ae, err2 := ParseClock(a.EndTime)
	bs, err3 := ParseClock(b.StartTime)
	be, err4 := ParseClock(b.EndTime)

	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return false
	}

	return as < be && bs < ae
}
