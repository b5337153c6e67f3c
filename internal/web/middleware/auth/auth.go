package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/identity"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/session"
)

// DefaultRefreshBuffer refreshes tokens five minutes before they expire.
const DefaultRefreshBuffer = 300 * time.Second

// Template locals set for every request.
const (
	LocalCurrentUser     = "CurrentUser"
	LocalIsAuthenticated = "IsAuthenticated"
	LocalPermissions     = "Permissions"
	LocalUserID          = "UserID"

	localState = "auth.state"
)

// ErrPanic wraps a panic recovered inside the pipeline.
var ErrPanic = errors.New("auth pipeline panic")

// errStaleRefresh is returned when the provider hands out an already expired session.
var errStaleRefresh = errors.New("refreshed session is already expired")

// Outcome of the pipeline for one request.
type Outcome string

const (
	OutcomeForwarded            Outcome = "forwarded"
	OutcomeRedirectLogin        Outcome = "redirect_login"
	OutcomeRedirectLanding      Outcome = "redirect_landing"
	OutcomeRedirectUnauthorized Outcome = "redirect_unauthorized"
	OutcomeSessionError         Outcome = "session_error"

	// refresh results, counted next to the request outcome
	OutcomeRefreshed     Outcome = "refreshed"
	OutcomeRefreshFailed Outcome = "refresh_failed"
)

// TokenService is the part of the identity client the middleware needs.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (*identity.AuthSession, error)
	FetchPermissions(ctx context.Context, accessToken string) (*identity.Permissions, error)
}

// Config of the middleware. Sessions, Identity and Routes are required.
type Config struct {
	Sessions session.Provider
	Identity TokenService
	Routes   *routes.Classifier

	// Now defaults to time.Now.
	Now func() time.Time

	// RefreshBuffer defaults to DefaultRefreshBuffer.
	RefreshBuffer time.Duration

	// Skip bypasses the middleware, e.g. for static files.
	Skip func(c *fiber.Ctx) bool
}

// State is the request scoped authentication context.
type State struct {
	Authenticated bool
	User          *session.User
	Route         routes.Classification
	Outcome       Outcome
}

// FromContext returns the state of the request, never nil.
func FromContext(c *fiber.Ctx) *State {
	if s, ok := c.Locals(localState).(*State); ok {
		return s
	}

	return &State{}
}

// CurrentUser returns the signed in user or nil.
func CurrentUser(c *fiber.Ctx) *session.User {
	return FromContext(c).User
}

func publish(c *fiber.Ctx, s *State) {
	c.Locals(localState, s)
	c.Locals(LocalIsAuthenticated, s.Authenticated)

	if s.User == nil {
		c.Locals(LocalCurrentUser, nil)
		c.Locals(LocalPermissions, []string{})
		c.Locals(LocalUserID, "")

		return
	}

	c.Locals(LocalCurrentUser, s.User)
	c.Locals(LocalPermissions, s.User.Permissions)
	c.Locals(LocalUserID, s.User.ID)
}

func isSafe(method string) bool {
	return method == fiber.MethodGet || method == fiber.MethodHead
}

type middleware struct {
	cfg Config
}

// New creates the auth middleware.
func New(cfg Config) fiber.Handler {
	if cfg.Sessions == nil || cfg.Identity == nil || cfg.Routes == nil {
		panic("auth middleware: sessions, identity and routes are required")
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if cfg.RefreshBuffer <= 0 {
		cfg.RefreshBuffer = DefaultRefreshBuffer
	}

	m := &middleware{cfg: cfg}

	return m.handle
}

func (m *middleware) handle(c *fiber.Ctx) error {
	if m.cfg.Skip != nil && m.cfg.Skip(c) {
		return c.Next()
	}

	state := &State{}
	publish(c, state)

	sess := m.cfg.Sessions.Session(c)

	target, err := m.evaluate(c, sess, state)
	if err != nil {
		return m.recoverSession(c, sess, state, err)
	}

	observe(state.Outcome)

	if target != "" {
		log.Debug().
			Str("path", state.Route.Path).
			Str("outcome", string(state.Outcome)).
			Str("target", target).
			Msg("auth redirect")

		return c.Redirect(target)
	}

	return c.Next()
}

// evaluate runs the pipeline up to the routing decision and returns the
// redirect target, empty to forward the request.
func (m *middleware) evaluate(c *fiber.Ctx, sess session.Session, state *State) (target string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	user, err := sess.User()
	if err != nil {
		return "", err
	}

	if user != nil && user.Expired(m.cfg.Now(), m.cfg.RefreshBuffer) {
		if user, err = m.refresh(c.UserContext(), sess, user); err != nil {
			return "", err
		}
	}

	if user != nil {
		state.Authenticated = true
		state.User = user
	}

	publish(c, state)

	state.Route = m.cfg.Routes.Classify(c.Path())
	state.Outcome = OutcomeForwarded

	if !isSafe(c.Method()) {
		return "", nil
	}

	route := state.Route

	switch {
	case route.IsAuthOnly && state.Authenticated:
		state.Outcome = OutcomeRedirectLanding

		return routes.LandingPath(user.Role), nil

	case route.RequiresAuth() && !state.Authenticated:
		state.Outcome = OutcomeRedirectLogin

		return routes.LoginPath + "?redirect=" + url.QueryEscape(route.Path), nil

	case route.RequiresAuth() && !m.cfg.Routes.Authorize(user.Role, user.Permissions, route.Path):
		state.Outcome = OutcomeRedirectUnauthorized

		log.Info().
			Str("user_id", user.ID).
			Str("path", route.Path).
			Strs("required", route.RequiredPermissions).
			Msg("user lacks permission for route")

		return routes.UnauthorizedPath, nil
	}

	return "", nil
}

// refresh swaps the tokens of an expiring user. A refused refresh destroys
// the session and yields no user; only a failing session store is an error.
func (m *middleware) refresh(ctx context.Context, sess session.Session, old *session.User) (*session.User, error) {
	fresh, err := m.fetchFreshUser(ctx, old)
	if err != nil {
		observe(OutcomeRefreshFailed)

		log.Warn().
			Err(err).
			Str("user_id", old.ID).
			Msg("token refresh failed, signing out")

		if dErr := sess.Destroy(); dErr != nil {
			return nil, fmt.Errorf("destroy session after failed refresh: %w", dErr)
		}

		return nil, nil
	}

	if err := sess.SetUser(fresh); err != nil {
		return nil, fmt.Errorf("store refreshed session: %w", err)
	}

	observe(OutcomeRefreshed)
	log.Debug().Str("user_id", fresh.ID).Msg("token refreshed")

	return fresh, nil
}

func (m *middleware) fetchFreshUser(ctx context.Context, old *session.User) (*session.User, error) {
	as, err := m.cfg.Identity.Refresh(ctx, old.RefreshToken)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	perms, err := m.cfg.Identity.FetchPermissions(ctx, as.AccessToken)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	fresh := session.FromAuthSession(as, perms)
	if fresh.Expired(m.cfg.Now(), 0) {
		return nil, errStaleRefresh
	}

	return fresh, nil
}

// recoverSession handles any unexpected failure of the pipeline.
func (m *middleware) recoverSession(c *fiber.Ctx, sess session.Session, state *State, cause error) error {
	log.Error().Err(cause).Str("path", c.Path()).Msg("auth pipeline failed, destroying session")

	*state = State{}

	if err := safeDestroy(sess); err != nil {
		log.Error().Err(err).Msg("can't destroy session")
	}

	state.Route = m.cfg.Routes.Classify(c.Path())
	publish(c, state)

	if state.Route.RequiresAuth() && isSafe(c.Method()) {
		state.Outcome = OutcomeSessionError
		observe(state.Outcome)

		return c.Redirect(routes.SessionErrorPath)
	}

	state.Outcome = OutcomeForwarded
	observe(state.Outcome)

	return c.Next()
}

func safeDestroy(sess session.Session) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	return sess.Destroy()
}
