// Package general edits the clinic wide settings.
package general

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/db/controller/clinic"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/handler"
	"github.com/opticare/opticare-portal/internal/web/middleware/auth"
	"github.com/opticare/opticare-portal/internal/web/navigation"
)

const (
	// Path is the path to the general settings page.
	Path = "/settings/general"

	// TemplateName is the name of the general settings template.
	TemplateName = "settings/general"

	// MsgSaved is shown after a successful save.
	MsgSaved = "Settings saved successfully"
)

// Service is the general settings handler service.
type Service struct {
	handler.Service
	deps      *handler.Deps
	validator *validator.Validate
}

// Handler is the general settings handler.
var Handler = Service{}

// Init initializes the general settings handler. Reading needs
// settings.read, which the auth middleware checks; saving also needs
// settings.update.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, true, false); err != nil {
		return err
	}

	s.deps = deps
	s.validator = validator.New(validator.WithRequiredStructEnabled())

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, auth.RequirePermission(routes.PermSettingsUpdate), s.Post)
	})

	return nil
}

func (s *Service) navigation(c *fiber.Ctx) *navigation.Context {
	return handler.Navigation(c, "General Settings", "settings", "general").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Settings", "#", false).
		AddBreadcrumb("General", Path, true)
}

// canEdit reports whether the current user may save the form.
func canEdit(c *fiber.Ctx) bool {
	u := auth.CurrentUser(c)

	return u != nil && (u.IsSuperAdmin() || u.HasPermission(routes.PermSettingsUpdate))
}

// Get handles the general settings page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	settings, err := clinic.Load(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load clinic settings")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	return c.Render(TemplateName, fiber.Map{
		"Settings":   settings,
		"CanEdit":    canEdit(c),
		"Navigation": s.navigation(c),
	}, handler.BaseLayout)
}

// Post handles the general settings form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	nav := s.navigation(c)

	settings := clinic.Settings{}
	if err := c.BodyParser(&settings); err != nil {
		log.Error().Err(err).Msg("failed to parse clinic settings form")

		return c.Status(fiber.StatusBadRequest).Render(TemplateName, fiber.Map{
			"Settings":   settings,
			"CanEdit":    true,
			"Navigation": nav,
			"Error":      "Invalid form data",
		}, handler.BaseLayout)
	}

	if err := s.validator.Struct(settings); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)

		errorMessages := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			errorMessages[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		log.Warn().Err(err).Msg("validation failed for clinic settings")

		return c.Status(fiber.StatusBadRequest).Render(TemplateName, fiber.Map{
			"Settings":   settings,
			"CanEdit":    true,
			"Navigation": nav,
			"Errors":     errorMessages,
		}, handler.BaseLayout)
	}

	if err := settings.Save(s.deps.DB); err != nil {
		log.Error().Err(err).Msg("failed to save clinic settings")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, fiber.Map{
			"Settings":   settings,
			"CanEdit":    true,
			"Navigation": nav,
			"Error":      "Failed to save settings",
		}, handler.BaseLayout)
	}

	log.Info().
		Str("user_id", auth.CurrentUser(c).ID).
		Str("name", settings.Name).
		Int("slot_minutes", settings.SlotMinutes).
		Str("timezone", settings.Timezone).
		Msg("clinic settings saved")

	return c.Render(TemplateName, fiber.Map{
		"Settings":   settings,
		"CanEdit":    true,
		"Navigation": nav,
		"Success":    MsgSaved,
	}, handler.BaseLayout)
}
