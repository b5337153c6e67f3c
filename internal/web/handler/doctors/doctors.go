// Package doctors lists the doctors of the clinic catalog and shows the
// profile and weekly schedule of one doctor.
package doctors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/db/controller/catalog"
	"github.com/opticare/opticare-portal/internal/db/controller/clinic"
	"github.com/opticare/opticare-portal/internal/db/models"
	"github.com/opticare/opticare-portal/internal/schedule"
	"github.com/opticare/opticare-portal/internal/web/handler"
)

const (
	// Path is the path of the doctor list.
	Path = "/doctors"

	// ListTemplateName is the name of the list template.
	ListTemplateName = "doctors/list"

	// DetailTemplateName is the name of the detail template.
	DetailTemplateName = "doctors/detail"
)

// QueryParams holds the list filters and pagination parameters.
type QueryParams struct {
	Search         string `query:"search"`
	Specialization string `query:"specialization"`
	Sort           string `query:"sort"`
	Page           int    `query:"page"`
	PageSize       int    `query:"pageSize"`
}

// ListData is rendered by the list template.
type ListData struct {
	Doctors         []models.Doctor
	Specializations []string
	Params          QueryParams
	Pagination      handler.Pagination
}

// ScheduleSlots is a schedule with its bookable slots.
type ScheduleSlots struct {
	Schedule models.Schedule
	Day      string
	Slots    []schedule.Slot
}

// DetailData is rendered by the detail template.
type DetailData struct {
	Doctor      *models.Doctor
	Schedules   []ScheduleSlots
	SlotMinutes int
}

// Service is the doctors handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the doctors handler.
var Handler = Service{}

// Init initializes the doctors handler. Access is checked by the auth
// middleware, the list needs users.read.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, true, false); err != nil {
		return err
	}

	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.List)
		router.Get("/:id", s.Detail)
	})

	return nil
}

// List renders the active doctors matching the query parameters.
func (s *Service) List(c *fiber.Ctx) error {
	nav := handler.Navigation(c, "Doctors", "catalog", "doctors").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Doctors", Path, true)

	var params QueryParams
	if err := c.QueryParser(&params); err != nil {
		return fiber.ErrBadRequest
	}

	found, err := catalog.SearchDoctors(s.deps.DB, params.Search)
	if err != nil {
		log.Error().Err(err).Msg("failed to search doctors")

		return fiber.ErrInternalServerError
	}

	specs, err := catalog.Specializations(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load specializations")

		return fiber.ErrInternalServerError
	}

	found = filterSpecialization(found, params.Specialization)
	catalog.SortDoctors(found, params.Sort)

	page, pagination := handler.Paginate(found, params.Page, params.PageSize)
	params.Page = pagination.CurrentPage
	params.PageSize = pagination.PageSize

	return c.Render(ListTemplateName, fiber.Map{
		"Navigation": nav,
		"Data": ListData{
			Doctors:         page,
			Specializations: specs,
			Params:          params,
			Pagination:      pagination,
		},
	}, handler.BaseLayout)
}

func filterSpecialization(list []models.Doctor, specialization string) []models.Doctor {
	if specialization == "" {
		return list
	}

	out := make([]models.Doctor, 0, len(list))

	for _, d := range list {
		if d.Specialization == specialization {
			out = append(out, d)
		}
	}

	return out
}

// Detail renders one doctor with the slots of each weekly schedule.
func (s *Service) Detail(c *fiber.Ctx) error {
	doctor, err := catalog.DoctorByID(s.deps.DB, c.Params("id"))
	if errors.Is(err, catalog.ErrDoctorNotFound) {
		return fiber.ErrNotFound
	}

	if err != nil {
		log.Error().Err(err).Str("doctor_id", c.Params("id")).Msg("failed to load doctor")

		return fiber.ErrInternalServerError
	}

	nav := handler.Navigation(c, doctor.Name, "catalog", "doctors").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Doctors", Path, false).
		AddBreadcrumb(doctor.Name, Path+"/"+doctor.ID, true)

	settings, err := clinic.Load(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load clinic settings")

		return fiber.ErrInternalServerError
	}

	list, err := catalog.DoctorSchedules(s.deps.DB, doctor.ID)
	if err != nil {
		log.Error().Err(err).Str("doctor_id", doctor.ID).Msg("failed to load schedules")

		return fiber.ErrInternalServerError
	}

	data := DetailData{
		Doctor:      doctor,
		Schedules:   make([]ScheduleSlots, 0, len(list)),
		SlotMinutes: settings.SlotMinutes,
	}

	for _, sch := range list {
		slots, err := schedule.Slots(sch, settings.SlotMinutes)
		if err != nil {
			log.Warn().Err(err).Str("schedule_id", sch.ID).Msg("skipping schedule with invalid times")

			continue
		}

		data.Schedules = append(data.Schedules, ScheduleSlots{
			Schedule: sch,
			Day:      schedule.DayName(sch.DayOfWeek),
			Slots:    slots,
		})
	}

	return c.Render(DetailTemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       data,
	}, handler.BaseLayout)
}
