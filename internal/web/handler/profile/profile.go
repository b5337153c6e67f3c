// Package profile shows the profile of the signed in user and edits the
// basic profile data and the password.
package profile

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/actions"
	"github.com/opticare/opticare-portal/internal/identity"
	"github.com/opticare/opticare-portal/internal/web/handler"
	"github.com/opticare/opticare-portal/internal/web/middleware/auth"
)

const (
	// Path is the path to the profile page.
	Path = "/profile"

	// PasswordPath receives the change password form.
	PasswordPath = Path + "/password"

	// TemplateName is the name of the profile template.
	TemplateName = "profile/profile"
)

// Service is the profile handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, false, true); err != nil {
		return err
	}

	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, auth.RequireUser(), s.Post)
		router.Post("/password", auth.RequireUser(), s.PostPassword)
	})

	return nil
}

// render loads the provider profile and renders the page with extra.
func (s *Service) render(c *fiber.Ctx, status int, extra fiber.Map) error {
	nav := handler.Navigation(c, "My Profile", "account", "profile").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("My Profile", Path, true)

	data := fiber.Map{
		"Navigation": nav,
		"User":       auth.CurrentUser(c),
	}

	res := s.deps.Actions.GetCurrentUserProfile(c.UserContext(), s.deps.Sessions.Session(c))
	if res.Success {
		data["Profile"] = res.Data
	} else {
		data["ProfileError"] = res.Error.Message
	}

	for k, v := range extra {
		data[k] = v
	}

	return c.Status(status).Render(TemplateName, data, handler.BaseLayout)
}

// Get renders the profile page.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, nil)
}

// Post updates names, phone and avatar.
func (s *Service) Post(c *fiber.Ctx) error {
	var in actions.UpdateUserMetadataInput

	if err := c.BodyParser(&in); err != nil {
		log.Debug().Err(err).Msg("can not parse profile form")

		return s.render(c, fiber.StatusBadRequest, fiber.Map{"Error": "Invalid form data"})
	}

	return s.finish(c, s.deps.Actions.UpdateUserMetadata(c.UserContext(), s.deps.Sessions.Session(c), in))
}

// PostPassword changes the password.
func (s *Service) PostPassword(c *fiber.Ctx) error {
	var in actions.UpdatePasswordInput

	if err := c.BodyParser(&in); err != nil {
		log.Debug().Err(err).Msg("can not parse password form")

		return s.render(c, fiber.StatusBadRequest, fiber.Map{"Error": "Invalid form data"})
	}

	return s.finish(c, s.deps.Actions.UpdatePassword(c.UserContext(), s.deps.Sessions.Session(c), in))
}

func (s *Service) finish(c *fiber.Ctx, res actions.Result) error {
	if res.Success {
		return s.render(c, fiber.StatusOK, fiber.Map{"Success": res.Message})
	}

	if res.Error.Code == identity.CodeUnauthorized {
		return fiber.ErrUnauthorized
	}

	return s.render(c, res.HTTPStatus(), fiber.Map{
		"Error":  res.Error.Message,
		"Fields": res.Error.Fields,
	})
}
