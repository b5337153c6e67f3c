// Package dashboard provides the landing page of signed in users: a
// summary of the doctors and of this week's schedules.
package dashboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/db/controller/catalog"
	"github.com/opticare/opticare-portal/internal/db/models"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/schedule"
	"github.com/opticare/opticare-portal/internal/web/handler"
	"github.com/opticare/opticare-portal/internal/web/middleware/auth"
)

const (
	// Path is the path to the dashboard page.
	Path = routes.DefaultLandingPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	catalogRoute  = "/doctors"
	scheduleRoute = "/appointment"
)

// Data represents the complete dashboard data. The catalog and schedule
// parts stay nil for users who can not open those pages.
type Data struct {
	Greeting        string
	DoctorStats     *catalog.Stats
	WeekStats       *schedule.WeekStats
	Today           []models.Schedule
	WeekNumber      int
	AvailableRoutes []string
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
	now  func() time.Time
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, true, false); err != nil {
		return err
	}

	if deps.Routes == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps
	if s.now == nil {
		s.now = time.Now
	}

	app.Get(Path, auth.RequireUser(), s.Get)

	return nil
}

// Greeting returns the salutation for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := handler.Navigation(c, "Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	user := auth.CurrentUser(c)
	now := s.now()

	data := Data{
		Greeting:        Greeting(now),
		WeekNumber:      schedule.WeekNumber(now),
		AvailableRoutes: s.deps.Routes.AvailableRoutes(user.Permissions),
		Today:           []models.Schedule{},
	}

	if s.deps.Routes.Authorize(user.Role, user.Permissions, catalogRoute) {
		stats, err := catalog.DoctorStats(s.deps.DB)
		if err != nil {
			log.Error().Err(err).Msg("failed to load doctor stats")

			return fiber.ErrInternalServerError
		}

		data.DoctorStats = stats
	}

	if s.deps.Routes.Authorize(user.Role, user.Permissions, scheduleRoute) {
		all, err := catalog.SchedulesWithDetails(s.deps.DB)
		if err != nil {
			log.Error().Err(err).Msg("failed to load schedules")

			return fiber.ErrInternalServerError
		}

		view := schedule.BuildWeekView(all, now)
		stats := schedule.Stats(view)
		data.WeekStats = &stats

		for _, d := range view.Days {
			if schedule.Weekday(d.Date) == schedule.Weekday(now) {
				data.Today = d.Schedules
			}
		}
	}

	log.Debug().
		Str("user_id", user.ID).
		Bool("catalog", data.DoctorStats != nil).
		Bool("schedules", data.WeekStats != nil).
		Int("today", len(data.Today)).
		Msg("dashboard data retrieved")

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       data,
	}, handler.BaseLayout)
}
