// Package session keeps the signed in user in the fiber session store.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	// UserKey is the session key of the signed in user.
	UserKey = "user"

	// CookieName of the session cookie.
	CookieName = "opticare_session"
)

var (
	// ErrCorruptUser is returned if the stored user can't be decoded.
	ErrCorruptUser = errors.New("session user can't be decoded")

	// ErrNoUser is returned by SetUser for a nil user.
	ErrNoUser = errors.New("session user is nil")
)

// Session is the session of one browser.
type Session interface {
	// User returns the stored user or nil if nobody is signed in.
	User() (*User, error)
	// SetUser stores u and saves the session immediately.
	SetUser(u *User) error
	// Destroy removes the session and its cookie.
	Destroy() error
}

// Provider hands out the session of a request.
type Provider interface {
	Session(c *fiber.Ctx) Session
}

// Config of the Store.
type Config struct {
	Expiration time.Duration
	Secure     bool
	Domain     string
}

// Store is the Provider backed by a fiber session store.
type Store struct {
	store *session.Store
}

// NewStore creates the session store. A nil storage keeps the sessions in memory.
func NewStore(storage fiber.Storage, cfg Config) *Store {
	return &Store{
		store: session.New(session.Config{
			Expiration:     cfg.Expiration,
			Storage:        storage,
			KeyLookup:      "cookie:" + CookieName,
			CookieDomain:   cfg.Domain,
			CookiePath:     "/",
			CookieSecure:   cfg.Secure,
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
			KeyGenerator:   uuid.NewString,
		}),
	}
}

// Session implements Provider.
func (s *Store) Session(c *fiber.Ctx) Session {
	return &fiberSession{store: s.store, c: c}
}

// fiberSession loads the fiber session on every call, fiber releases a
// session once it was saved.
type fiberSession struct {
	store *session.Store
	c     *fiber.Ctx
}

func (s *fiberSession) User() (*User, error) {
	sess, err := s.store.Get(s.c)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	raw, ok := sess.Get(UserKey).(string)
	if !ok || raw == "" {
		return nil, nil //nolint:nilnil
	}

	u := &User{}
	if err := json.Unmarshal([]byte(raw), u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptUser, err)
	}

	return u, nil
}

func (s *fiberSession) SetUser(u *User) error {
	if u == nil {
		return ErrNoUser
	}

	out, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	sess, err := s.store.Get(s.c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	sess.Set(UserKey, string(out))

	return sess.Save() //nolint:wrapcheck
}

// Destroy also removes sessions fiber can no longer decode.
func (s *fiberSession) Destroy() error {
	sess, err := s.store.Get(s.c)
	if err != nil {
		if id := s.c.Cookies(CookieName); id != "" {
			if delErr := s.store.Storage.Delete(id); delErr != nil {
				return fmt.Errorf("delete session: %w", delErr)
			}
		}

		s.c.ClearCookie(CookieName)

		return nil
	}

	return sess.Destroy() //nolint:wrapcheck
}
