// Package login renders the sign in page and posts the sign in form to
// the login action.
package login

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/actions"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/handler"
)

const (
	// Path is the path to the login page.
	Path = routes.LoginPath

	// TemplateName is the name of the login template.
	TemplateName = "auth/login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, false, true); err != nil {
		return err
	}

	s.deps = deps

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title":    s.deps.Config.Title,
		"Redirect": c.Query("redirect"),
		"Message":  Notice(c.Query("message")),
		"Error":    Problem(c.Query("error")),
	}, handler.PublicLayout)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var in actions.LoginInput

	if err := c.BodyParser(&in); err != nil {
		log.Debug().Err(err).Msg("can not parse login form")

		return c.Status(fiber.StatusBadRequest).Render(TemplateName, fiber.Map{
			"Title": s.deps.Config.Title,
			"Error": "Invalid form data",
		}, handler.PublicLayout)
	}

	res := s.deps.Actions.Login(c.UserContext(), s.deps.Sessions.Session(c), in)
	if !res.Success {
		return c.Status(res.HTTPStatus()).Render(TemplateName, fiber.Map{
			"Title":    s.deps.Config.Title,
			"Email":    in.Email,
			"Redirect": in.Redirect,
			"Error":    res.Error.Message,
			"Fields":   res.Error.Fields,
		}, handler.PublicLayout)
	}

	return c.Redirect(res.Redirect(), fiber.StatusSeeOther)
}
