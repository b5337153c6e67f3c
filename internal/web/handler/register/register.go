// Package register renders the sign up page.
package register

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/actions"
	"github.com/opticare/opticare-portal/internal/web/handler"
)

const (
	// Path is the path to the sign up page.
	Path = "/auth/register"

	// TemplateName is the name of the sign up template.
	TemplateName = "auth/register"
)

// Service is the sign up handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the sign up handler.
var Handler = Service{}

// Init initializes the sign up handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, false, true); err != nil {
		return err
	}

	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get renders the empty form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, fiber.Map{"Redirect": c.Query("redirect")})
}

// Post creates the account. Without e-mail confirmation the user is
// signed in right away, otherwise the page asks to check the inbox.
func (s *Service) Post(c *fiber.Ctx) error {
	var in actions.RegisterInput

	if err := c.BodyParser(&in); err != nil {
		log.Debug().Err(err).Msg("can not parse sign up form")

		return s.render(c, fiber.StatusBadRequest, fiber.Map{"Error": "Invalid form data"})
	}

	res := s.deps.Actions.Register(c.UserContext(), s.deps.Sessions.Session(c), in)

	switch {
	case !res.Success:
		return s.render(c, res.HTTPStatus(), fiber.Map{
			"Error":  res.Error.Message,
			"Fields": res.Error.Fields,
			"Form":   formValues(in),
		})
	case res.Redirect() == "":
		return s.render(c, fiber.StatusOK, fiber.Map{
			"Message":   res.Message,
			"Confirmed": false,
		})
	}

	return c.Redirect(res.Redirect(), fiber.StatusSeeOther)
}

func (s *Service) render(c *fiber.Ctx, status int, data fiber.Map) error {
	data["Title"] = s.deps.Config.Title

	return c.Status(status).Render(TemplateName, data, handler.PublicLayout)
}

// formValues echoes the form without the password.
func formValues(in actions.RegisterInput) fiber.Map {
	return fiber.Map{
		"Email":     in.Email,
		"FirstName": in.FirstName,
		"LastName":  in.LastName,
		"Phone":     in.Phone,
		"Redirect":  in.Redirect,
	}
}
