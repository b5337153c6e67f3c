// Package webtest holds the fakes shared by the handler tests: a
// recording view engine, an in-memory session and an identity provider
// stub.
package webtest

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/opticare/opticare-portal/internal/actions"
	"github.com/opticare/opticare-portal/internal/config"
	"github.com/opticare/opticare-portal/internal/db/controller/catalog"
	"github.com/opticare/opticare-portal/internal/db/models"
	"github.com/opticare/opticare-portal/internal/identity"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/handler"
	"github.com/opticare/opticare-portal/internal/web/middleware/auth"
	"github.com/opticare/opticare-portal/internal/web/session"
)

// Render is one call of Views.Render.
type Render struct {
	Name    string
	Data    fiber.Map
	Layouts []string
}

// Views is a fiber view engine that records what was rendered. It writes
// the template name and the "Error" value, if any.
type Views struct {
	mu      sync.Mutex
	renders []Render
}

// Load implements fiber.Views.
func (v *Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data any, layouts ...string) error {
	m, _ := data.(fiber.Map)

	v.mu.Lock()
	v.renders = append(v.renders, Render{Name: name, Data: m, Layouts: layouts})
	v.mu.Unlock()

	_, _ = io.WriteString(w, name)

	if e, ok := m["Error"].(string); ok && e != "" {
		_, _ = io.WriteString(w, "\n"+e)
	}

	return nil
}

// Last returns the latest render. It fails the test if nothing was rendered.
func (v *Views) Last(t *testing.T) Render {
	t.Helper()

	v.mu.Lock()
	defer v.mu.Unlock()

	require.NotEmpty(t, v.renders, "nothing was rendered")

	return v.renders[len(v.renders)-1]
}

// Session is an in-memory session.Session shared by all requests.
type Session struct {
	mu        sync.Mutex
	user      *session.User
	Destroyed bool
}

// User implements session.Session.
func (s *Session) User() (*session.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, nil
	}

	u := *s.user

	return &u, nil
}

// SetUser implements session.Session.
func (s *Session) SetUser(u *session.User) error {
	if u == nil {
		return session.ErrNoUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *u
	s.user = &cp

	return nil
}

// Destroy implements session.Session.
func (s *Session) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.Destroyed = true

	return nil
}

// Session implements session.Provider.
func (s *Session) Session(*fiber.Ctx) session.Session { return s }

// User returns a signed in user with tokens valid for an hour.
func User(role string, perms ...string) *session.User {
	if perms == nil {
		perms = []string{}
	}

	return &session.User{
		ID:           "user-1",
		Email:        "ana@example.com",
		FirstName:    "Ana",
		LastName:     "Lopez",
		Role:         role,
		Permissions:  perms,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
}

// Identity is a programmable identity provider.
type Identity struct {
	mu    sync.Mutex
	calls []string

	Session    *identity.AuthSession
	Perms      *identity.Permissions
	Profile    *identity.Profile
	Err        error
	RecoverErr error
}

func (f *Identity) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, name)

	return f.Err
}

// Calls returns the names of the called methods.
func (f *Identity) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func (f *Identity) session() (*identity.AuthSession, error) {
	if f.Session == nil {
		return &identity.AuthSession{}, nil
	}

	s := *f.Session

	return &s, nil
}

// Register implements actions.Identity.
func (f *Identity) Register(context.Context, identity.RegisterRequest) (*identity.AuthSession, error) {
	if err := f.record("Register"); err != nil {
		return nil, err
	}

	return f.session()
}

// Login implements actions.Identity.
func (f *Identity) Login(context.Context, identity.LoginRequest) (*identity.AuthSession, error) {
	if err := f.record("Login"); err != nil {
		return nil, err
	}

	return f.session()
}

// Refresh implements auth.TokenService.
func (f *Identity) Refresh(context.Context, string) (*identity.AuthSession, error) {
	if err := f.record("Refresh"); err != nil {
		return nil, err
	}

	return f.session()
}

// Logout implements actions.Identity.
func (f *Identity) Logout(context.Context, string) error {
	return f.record("Logout")
}

// RecoverPassword implements actions.Identity.
func (f *Identity) RecoverPassword(context.Context, string) error {
	_ = f.record("RecoverPassword")

	return f.RecoverErr
}

// UpdatePassword implements actions.Identity.
func (f *Identity) UpdatePassword(context.Context, string, string) error {
	return f.record("UpdatePassword")
}

// UpdateUserMetadata implements actions.Identity.
func (f *Identity) UpdateUserMetadata(_ context.Context, _ string, md identity.UserMetadata) (*identity.User, error) {
	if err := f.record("UpdateUserMetadata"); err != nil {
		return nil, err
	}

	return &identity.User{ID: "user-1", UserMetadata: md}, nil
}

// UpdateCompleteProfile implements actions.Identity.
func (f *Identity) UpdateCompleteProfile(context.Context, string, identity.CompleteProfile) error {
	return f.record("UpdateCompleteProfile")
}

// FetchProfile implements actions.Identity.
func (f *Identity) FetchProfile(context.Context, string) (*identity.Profile, error) {
	if err := f.record("FetchProfile"); err != nil {
		return nil, err
	}

	if f.Profile == nil {
		return &identity.Profile{ID: "user-1"}, nil
	}

	return f.Profile, nil
}

// FetchPermissions implements actions.Identity and auth.TokenService.
func (f *Identity) FetchPermissions(context.Context, string) (*identity.Permissions, error) {
	if err := f.record("FetchPermissions"); err != nil {
		return nil, err
	}

	if f.Perms == nil {
		return &identity.Permissions{Permissions: []string{}}, nil
	}

	return f.Perms, nil
}

// Env is a test application with the auth middleware installed.
type Env struct {
	App      *fiber.App
	Views    *Views
	Session  *Session
	Identity *Identity
	Deps     *handler.Deps
}

// New returns an Env whose session holds user, nil for an anonymous
// visitor. The database is migrated and seeded with the fixtures.
func New(t *testing.T, user *session.User) *Env {
	t.Helper()

	e := &Env{
		Views:    &Views{},
		Session:  &Session{},
		Identity: &Identity{},
	}

	if user != nil {
		require.NoError(t, e.Session.SetUser(user))
	}

	classifier := routes.NewClassifier(routes.DefaultTable())

	e.App = fiber.New(fiber.Config{Views: e.Views})
	e.App.Use(auth.New(auth.Config{
		Sessions: e.Session,
		Identity: e.Identity,
		Routes:   classifier,
	}))

	e.Deps = &handler.Deps{
		Config:   &config.Config{Title: "OptiCare"},
		DB:       NewDB(t),
		Sessions: e.Session,
		Actions:  actions.New(e.Identity, nil),
		Routes:   classifier,
	}

	return e
}

// NewDB opens a seeded in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// every pooled connection would get its own in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	_, err = catalog.Seed(db)
	require.NoError(t, err)

	return db
}
