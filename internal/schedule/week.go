// Package schedule builds the weekly availability views of the clinic
// from the doctors' recurring schedules.
//
// Weekdays count from Monday=1 to Sunday=7.
package schedule

import (
	"time"

	"github.com/opticare/opticare-portal/internal/db/models"
)

const daysPerWeek = 7

// Day is one column of a WeekView.
type Day struct {
	Date      time.Time
	Name      string // MON, TUE, ...
	Schedules []models.Schedule
}

// WeekView is a Monday to Sunday calendar.
type WeekView struct {
	Start time.Time
	End   time.Time
	Days  []Day
}

// Weekday returns the weekday of t, Monday=1 ... Sunday=7.
func Weekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return daysPerWeek
	}

	return wd
}

// WeekStart returns midnight of the Monday of t's week in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())

	return midnight.AddDate(0, 0, 1-Weekday(t))
}

// WeekNumber returns the ISO 8601 week number of t.
func WeekNumber(t time.Time) int {
	_, w := t.ISOWeek()

	return w
}

// NextWeek returns the start of the week after weekStart.
func NextWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, daysPerWeek)
}

// PreviousWeek returns the start of the week before weekStart.
func PreviousWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, -daysPerWeek)
}

// IsCurrentWeek reports whether weekStart starts the week of now.
func IsCurrentWeek(weekStart, now time.Time) bool {
	return WeekStart(weekStart).Equal(WeekStart(now.In(weekStart.Location())))
}

// BuildWeekView places the active schedules on the days of the week
// starting at the Monday of weekStart.
func BuildWeekView(schedules []models.Schedule, weekStart time.Time) WeekView {
	start := WeekStart(weekStart)

	v := WeekView{
		Start: start,
		End:   start.AddDate(0, 0, daysPerWeek-1),
		Days:  make([]Day, 0, daysPerWeek),
	}

	for i := range daysPerWeek {
		date := start.AddDate(0, 0, i)
		wd := Weekday(date)

		day := Day{
			Date:      date,
			Name:      dayName(date),
			Schedules: []models.Schedule{},
		}

		for _, s := range schedules {
			if s.IsActive && s.DayOfWeek == wd {
				day.Schedules = append(day.Schedules, s)
			}
		}

		v.Days = append(v.Days, day)
	}

	return v
}

func dayName(t time.Time) string {
	const names = "SUNMONTUEWEDTHUFRISAT"

	i := int(t.Weekday()) * 3

	return names[i : i+3]
}

// DayName returns the English name of a weekday, Monday=1 ... Sunday=7,
// and "" outside that range.
func DayName(weekday int) string {
	if weekday < 1 || weekday > daysPerWeek {
		return ""
	}

	// time.Sunday is 0
	return time.Weekday(weekday % daysPerWeek).String()
}
