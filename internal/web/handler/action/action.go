// Package action exposes the actions as JSON endpoints under
// /_actions/<name>. Bodies may be JSON or form encoded.
package action

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/actions"
	"github.com/opticare/opticare-portal/internal/web/handler"
	"github.com/opticare/opticare-portal/internal/web/session"
)

// Path is the route of the action endpoint.
const Path = "/_actions/:name"

// Names of the actions.
const (
	Register              = "register"
	Login                 = "login"
	Logout                = "logout"
	RecoverPassword       = "recoverPassword"
	UpdatePassword        = "updatePassword"
	UpdateUserMetadata    = "updateUserMetadata"
	UpdateCompleteProfile = "updateCompleteProfile"
	GetCurrentUserProfile = "getCurrentUserProfile"
	GetUserPermissions    = "getUserPermissions"
)

type runner func(c *fiber.Ctx, svc *actions.Service, sess session.Session) actions.Result

// withInput parses the body into In before running fn.
func withInput[In any](fn func(svc *actions.Service, c *fiber.Ctx, sess session.Session, in In) actions.Result) runner {
	return func(c *fiber.Ctx, svc *actions.Service, sess session.Session) actions.Result {
		var in In

		if err := c.BodyParser(&in); err != nil {
			log.Debug().Err(err).Str("action", c.Params("name")).Msg("can not parse action body")

			return actions.BadRequest()
		}

		return fn(svc, c, sess, in)
	}
}

var runners = map[string]runner{ //nolint:gochecknoglobals
	Register: withInput(func(svc *actions.Service, c *fiber.Ctx, sess session.Session, in actions.RegisterInput) actions.Result {
		return svc.Register(c.UserContext(), sess, in)
	}),
	Login: withInput(func(svc *actions.Service, c *fiber.Ctx, sess session.Session, in actions.LoginInput) actions.Result {
		return svc.Login(c.UserContext(), sess, in)
	}),
	Logout: func(c *fiber.Ctx, svc *actions.Service, sess session.Session) actions.Result {
		return svc.Logout(c.UserContext(), sess)
	},
	RecoverPassword: withInput(func(svc *actions.Service, c *fiber.Ctx, _ session.Session, in actions.RecoverPasswordInput) actions.Result {
		return svc.RecoverPassword(c.UserContext(), in)
	}),
	UpdatePassword: withInput(func(svc *actions.Service, c *fiber.Ctx, sess session.Session, in actions.UpdatePasswordInput) actions.Result {
		return svc.UpdatePassword(c.UserContext(), sess, in)
	}),
	UpdateUserMetadata: withInput(func(svc *actions.Service, c *fiber.Ctx, sess session.Session, in actions.UpdateUserMetadataInput) actions.Result {
		return svc.UpdateUserMetadata(c.UserContext(), sess, in)
	}),
	UpdateCompleteProfile: withInput(func(svc *actions.Service, c *fiber.Ctx, sess session.Session, in actions.UpdateCompleteProfileInput) actions.Result {
		return svc.UpdateCompleteProfile(c.UserContext(), sess, in)
	}),
	GetCurrentUserProfile: func(c *fiber.Ctx, svc *actions.Service, sess session.Session) actions.Result {
		return svc.GetCurrentUserProfile(c.UserContext(), sess)
	},
	GetUserPermissions: func(c *fiber.Ctx, svc *actions.Service, sess session.Session) actions.Result {
		return svc.GetUserPermissions(c.UserContext(), sess)
	},
}

// Service is the action endpoint service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the action endpoint.
var Handler = Service{}

// Init initializes the action endpoint.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := handler.Check(app, deps, false, true); err != nil {
		return err
	}

	s.deps = deps

	app.Post(Path, s.Post)

	return nil
}

// Post runs the named action and answers with its Result.
func (s *Service) Post(c *fiber.Ctx) error {
	run, ok := runners[c.Params("name")]
	if !ok {
		res := actions.UnknownAction()

		return c.Status(res.HTTPStatus()).JSON(res)
	}

	res := run(c, s.deps.Actions, s.deps.Sessions.Session(c))

	return c.Status(res.HTTPStatus()).JSON(res)
}
