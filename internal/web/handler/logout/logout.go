package logout

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/handler"
)

// Path is the path of the logout endpoint.
const Path = routes.LogoutPath

// Service is the logout handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, false, true); err != nil {
		return err
	}

	s.deps = deps

	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout signs the user out at the provider, destroys the session and
// redirects to the login page.
func (s *Service) Logout(c *fiber.Ctx) error {
	res := s.deps.Actions.Logout(c.UserContext(), s.deps.Sessions.Session(c))

	return c.Redirect(routes.SafeRedirect(res.Redirect(), routes.LoginPath), fiber.StatusSeeOther)
}
