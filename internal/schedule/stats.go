package schedule

import (
	"github.com/opticare/opticare-portal/internal/db/models"
)

// WeekStats summarises a WeekView.
type WeekStats struct {
	TotalSchedules      int
	ActiveSchedules     int
	DoctorCount         int
	LocationCount       int
	SpecializationCount int
	Utilization         float64 // percent of active schedules
}

// Stats computes WeekStats of v.
func Stats(v WeekView) WeekStats {
	var (
		st        WeekStats
		doctors   = map[string]struct{}{}
		locations = map[string]struct{}{}
		specs     = map[string]struct{}{}
	)

	for _, d := range v.Days {
		for _, s := range d.Schedules {
			st.TotalSchedules++

			if s.IsActive {
				st.ActiveSchedules++
			}

			doctors[s.DoctorID] = struct{}{}
			locations[s.LocationID] = struct{}{}
			specs[s.Doctor.Specialization] = struct{}{}
		}
	}

	st.DoctorCount = len(doctors)
	st.LocationCount = len(locations)
	st.SpecializationCount = len(specs)

	if st.TotalSchedules > 0 {
		st.Utilization = float64(st.ActiveSchedules) / float64(st.TotalSchedules) * 100
	}

	return st
}

// Slot is a bookable interval of a schedule.
type Slot struct {
	Start string
	End   string
}

// Slots cuts s into intervals of the given minutes, skipping any
// interval that overlaps the break. A trailing partial interval is dropped.
func Slots(s models.Schedule, minutes int) ([]Slot, error) {
	if minutes <= 0 {
		return nil, nil
	}

	start, err := ParseClock(s.StartTime)
	if err != nil {
		return nil, err
	}

	end, err := ParseClock(s.EndTime)
	if err != nil {
		return nil, err
	}

	breakStart, breakEnd := -1, -1

	if s.BreakTime != nil {
		if breakStart, err = ParseClock(s.BreakTime.Start); err != nil {
			return nil, err
		}

		if breakEnd, err = ParseClock(s.BreakTime.End); err != nil {
			return nil, err
		}
	}

	var out []Slot

	for t := start; t+minutes <= end; t += minutes {
		if breakStart >= 0 && t < breakEnd && breakStart < t+minutes {
			continue
		}

		out = append(out, Slot{Start: FormatClock(t), End: FormatClock(t + minutes)})
	}

	return out, nil
}
