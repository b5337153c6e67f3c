// Package appointment renders the weekly schedule calendar of the clinic.
package appointment

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/db/controller/catalog"
	"github.com/opticare/opticare-portal/internal/db/controller/clinic"
	"github.com/opticare/opticare-portal/internal/db/models"
	"github.com/opticare/opticare-portal/internal/schedule"
	"github.com/opticare/opticare-portal/internal/web/handler"
)

const (
	// Path is the path to the calendar.
	Path = "/appointment"

	// TemplateName is the name of the calendar template.
	TemplateName = "appointment/week"

	// WeekLayout is the format of the week query parameter.
	WeekLayout = "2006-01-02"
)

// Data is rendered by the calendar template.
type Data struct {
	Week          schedule.WeekView
	Stats         schedule.WeekStats
	Conflicts     [][]models.Schedule
	WeekNumber    int
	IsCurrentWeek bool
	PrevWeek      string
	NextWeek      string
	Filters       schedule.Filters

	Doctors         []models.Doctor
	Locations       []models.Location
	Specializations []string
}

// Service is the calendar handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
	now  func() time.Time
}

// Handler is the calendar handler.
var Handler = Service{}

// Init initializes the calendar handler. The auth middleware requires
// appointments.read.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, true, false); err != nil {
		return err
	}

	s.deps = deps
	if s.now == nil {
		s.now = time.Now
	}

	app.Get(Path, s.Get)

	return nil
}

// weekOf returns the start of the requested week. A missing or invalid
// week parameter selects the current week.
func weekOf(param string, now time.Time) time.Time {
	if param != "" {
		if t, err := time.ParseInLocation(WeekLayout, param, now.Location()); err == nil {
			return schedule.WeekStart(t)
		}

		log.Debug().Str("week", param).Msg("ignoring invalid week parameter")
	}

	return schedule.WeekStart(now)
}

// Get renders the week selected by ?week=YYYY-MM-DD narrowed by the
// doctor, location, specialization and active filters.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := handler.Navigation(c, "Appointments", "appointments", "calendar").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Appointments", Path, true)

	var filters schedule.Filters
	if err := c.QueryParser(&filters); err != nil {
		return fiber.ErrBadRequest
	}

	settings, err := clinic.Load(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load clinic settings")

		return fiber.ErrInternalServerError
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", settings.Timezone).Msg("unknown clinic timezone, using UTC")

		loc = time.UTC
	}

	now := s.now().In(loc)
	start := weekOf(c.Query("week"), now)

	all, err := catalog.SchedulesWithDetails(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load schedules")

		return fiber.ErrInternalServerError
	}

	selected := schedule.Apply(all, filters)
	view := schedule.BuildWeekView(selected, start)

	data := Data{
		Week:          view,
		Stats:         schedule.Stats(view),
		Conflicts:     schedule.Conflicts(selected),
		WeekNumber:    schedule.WeekNumber(start),
		IsCurrentWeek: schedule.IsCurrentWeek(start, now),
		PrevWeek:      schedule.PreviousWeek(start).Format(WeekLayout),
		NextWeek:      schedule.NextWeek(start).Format(WeekLayout),
		Filters:       filters,
	}

	if data.Doctors, err = catalog.Doctors(s.deps.DB); err != nil {
		log.Error().Err(err).Msg("failed to load doctors")

		return fiber.ErrInternalServerError
	}

	if data.Locations, err = catalog.Locations(s.deps.DB); err != nil {
		log.Error().Err(err).Msg("failed to load locations")

		return fiber.ErrInternalServerError
	}

	if data.Specializations, err = catalog.Specializations(s.deps.DB); err != nil {
		log.Error().Err(err).Msg("failed to load specializations")

		return fiber.ErrInternalServerError
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       data,
	}, handler.BaseLayout)
}
