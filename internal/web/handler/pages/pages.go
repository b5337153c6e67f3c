// Package pages serves the pages without data of their own: home,
// unauthorized and the legal texts.
package pages

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/handler"
	"github.com/opticare/opticare-portal/internal/web/middleware/auth"
)

// Page is a route rendered from a single template.
type Page struct {
	Path     string
	Template string
	Title    string
	Status   int
}

// Pages served by the handler.
var Pages = []Page{ //nolint:gochecknoglobals
	{Path: handler.RootPath, Template: "pages/home", Title: "Welcome", Status: fiber.StatusOK},
	{Path: routes.UnauthorizedPath, Template: "pages/unauthorized", Title: "Access denied", Status: fiber.StatusForbidden},
	{Path: "/legal/terms", Template: "pages/terms", Title: "Terms of Service", Status: fiber.StatusOK},
	{Path: "/legal/privacy", Template: "pages/privacy", Title: "Privacy Policy", Status: fiber.StatusOK},
}

// Service is the pages handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the pages handler.
var Handler = Service{}

// Init initializes the pages handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, false, false); err != nil {
		return err
	}

	s.deps = deps

	for _, p := range Pages {
		app.Get(p.Path, s.page(p))
	}

	return nil
}

func (s *Service) page(p Page) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := auth.CurrentUser(c)

		layout := handler.PublicLayout
		if user != nil {
			layout = handler.BaseLayout
		}

		landing := ""
		if user != nil {
			landing = routes.LandingPath(user.Role)
		}

		return c.Status(p.Status).Render(p.Template, fiber.Map{
			"Title":      s.deps.Config.Title,
			"Navigation": handler.Navigation(c, p.Title, "pages", p.Path),
			"User":       user,
			"Landing":    landing,
		}, layout)
	}
}
