// Package password renders the forgot and reset password pages.
package password

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/actions"
	"github.com/opticare/opticare-portal/internal/identity"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/handler"
)

const (
	// ForgotPath is the path of the recovery request page.
	ForgotPath = "/auth/forgot-password"

	// ResetPath is the path of the new password page.
	ResetPath = "/auth/reset-password"

	// ForgotTemplateName is the name of the recovery request template.
	ForgotTemplateName = "auth/forgot-password"

	// ResetTemplateName is the name of the new password template.
	ResetTemplateName = "auth/reset-password"

	// MsgLinkExpired is shown when a reset is posted without a session.
	MsgLinkExpired = "Your reset link has expired. Please request a new one."

	passwordUpdated = routes.LoginPath + "?message=password-updated"
)

// Service is the password handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the password handler.
var Handler = Service{}

// Init initializes the password handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, false, true); err != nil {
		return err
	}

	s.deps = deps

	app.Get(ForgotPath, s.GetForgot)
	app.Post(ForgotPath, s.PostForgot)
	app.Get(ResetPath, s.GetReset)
	app.Post(ResetPath, s.PostReset)

	return nil
}

func (s *Service) render(c *fiber.Ctx, name string, status int, data fiber.Map) error {
	data["Title"] = s.deps.Config.Title

	return c.Status(status).Render(name, data, handler.PublicLayout)
}

// GetForgot renders the recovery request form.
func (s *Service) GetForgot(c *fiber.Ctx) error {
	return s.render(c, ForgotTemplateName, fiber.StatusOK, fiber.Map{})
}

// PostForgot sends the recovery e-mail.
func (s *Service) PostForgot(c *fiber.Ctx) error {
	var in actions.RecoverPasswordInput

	if err := c.BodyParser(&in); err != nil {
		log.Debug().Err(err).Msg("can not parse recovery form")

		return s.render(c, ForgotTemplateName, fiber.StatusBadRequest, fiber.Map{"Error": "Invalid form data"})
	}

	res := s.deps.Actions.RecoverPassword(c.UserContext(), in)
	if !res.Success {
		return s.render(c, ForgotTemplateName, res.HTTPStatus(), fiber.Map{
			"Error":  res.Error.Message,
			"Fields": res.Error.Fields,
			"Email":  in.Email,
		})
	}

	return s.render(c, ForgotTemplateName, fiber.StatusOK, fiber.Map{"Message": res.Message})
}

// GetReset renders the new password form.
func (s *Service) GetReset(c *fiber.Ctx) error {
	return s.render(c, ResetTemplateName, fiber.StatusOK, fiber.Map{})
}

// PostReset sets the new password of the session user, signs the user
// out and sends them to the login page.
func (s *Service) PostReset(c *fiber.Ctx) error {
	var in actions.UpdatePasswordInput

	if err := c.BodyParser(&in); err != nil {
		log.Debug().Err(err).Msg("can not parse reset form")

		return s.render(c, ResetTemplateName, fiber.StatusBadRequest, fiber.Map{"Error": "Invalid form data"})
	}

	sess := s.deps.Sessions.Session(c)

	res := s.deps.Actions.UpdatePassword(c.UserContext(), sess, in)
	if !res.Success {
		msg := res.Error.Message
		if res.Error.Code == identity.CodeUnauthorized {
			msg = MsgLinkExpired
		}

		return s.render(c, ResetTemplateName, res.HTTPStatus(), fiber.Map{
			"Error":  msg,
			"Fields": res.Error.Fields,
		})
	}

	s.deps.Actions.Logout(c.UserContext(), sess)

	return c.Redirect(passwordUpdated, fiber.StatusSeeOther)
}
