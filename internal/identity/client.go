package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout is applied to every call unless Config.Timeout is set.
	DefaultTimeout = 15 * time.Second

	DefaultProfileRPC     = "get_current_user_profile"
	DefaultPermissionsRPC = "debug_user_permissions"

	completeProfileRPC = "update_complete_profile"
	maxBodySize        = 1 << 20
)

// Config of the identity client.
type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	ProfileRPC     string
	PermissionsRPC string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithNow replaces the clock used to compute token expiry.
func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client talks to the identity provider. It is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time
}

// New returns a Client for cfg.
func New(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.ProfileRPC == "" {
		cfg.ProfileRPC = DefaultProfileRPC
	}

	if cfg.PermissionsRPC == "" {
		cfg.PermissionsRPC = DefaultPermissionsRPC
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{},
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register creates an account. Depending on the provider settings the
// returned session has no tokens until the e-mail address is confirmed.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthSession, error) {
	body, err := c.do(ctx, "register", http.MethodPost, "/auth/v1/signup", "", req)
	if err != nil {
		return nil, err
	}

	sess, err := c.decodeSession("register", body)
	if err != nil {
		return nil, err
	}

	// without auto confirmation the provider answers with the bare user
	if sess.User.ID == "" {
		var u User
		if err := json.Unmarshal(body, &u); err == nil {
			sess.User = u
		}
	}

	return sess, nil
}

// Login signs the user in with e-mail and password.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthSession, error) {
	body, err := c.do(ctx, "login", http.MethodPost, "/auth/v1/token?grant_type=password", "", req)
	if err != nil {
		return nil, err
	}

	return c.decodeSession("login", body)
}

// Refresh exchanges a refresh token for a new session.
// A refresh token the provider rejects is reported as UNAUTHORIZED.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	in := struct {
		RefreshToken string `json:"refresh_token"`
	}{refreshToken}

	body, err := c.do(ctx, "refresh", http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", in)
	if err != nil {
		var ae *AuthError
		if errors.As(err, &ae) && (ae.Code == CodeInvalidCredentials || ae.Code == CodeBadRequest) {
			ae.Code = CodeUnauthorized
			ae.UserMessage = DefaultUserMessage(CodeSessionExpired)
		}

		return nil, err
	}

	return c.decodeSession("refresh", body)
}

// Logout revokes the access token. An empty answer is success.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, "logout", http.MethodPost, "/auth/v1/logout", accessToken, struct{}{})

	return err
}

// RecoverPassword sends a password reset mail.
func (c *Client) RecoverPassword(ctx context.Context, email string) error {
	in := struct {
		Email string `json:"email"`
	}{email}

	_, err := c.do(ctx, "recover_password", http.MethodPost, "/auth/v1/recover", "", in)

	return err
}

// UpdatePassword sets a new password for the signed in user.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, password string) error {
	in := struct {
		Password string `json:"password"`
	}{password}

	_, err := c.do(ctx, "update_password", http.MethodPut, "/auth/v1/user", accessToken, in)

	return err
}

// UpdateUserMetadata replaces the user metadata and returns the updated user.
func (c *Client) UpdateUserMetadata(ctx context.Context, accessToken string, md UserMetadata) (*User, error) {
	in := struct {
		Data UserMetadata `json:"data"`
	}{md}

	body, err := c.do(ctx, "update_user_metadata", http.MethodPut, "/auth/v1/user", accessToken, in)
	if err != nil {
		return nil, err
	}

	u := &User{}
	if len(body) == 0 {
		u.UserMetadata = md

		return u, nil
	}

	if err := decode("update_user_metadata", body, u); err != nil {
		return nil, err
	}

	return u, nil
}

// UpdateCompleteProfile stores the extended profile.
func (c *Client) UpdateCompleteProfile(ctx context.Context, accessToken string, p CompleteProfile) error {
	_, err := c.do(ctx, "update_complete_profile", http.MethodPost, rpcPath(completeProfileRPC), accessToken, p)

	return err
}

// FetchProfile returns the profile of the signed in user.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	body, err := c.do(ctx, "fetch_profile", http.MethodPost, rpcPath(c.cfg.ProfileRPC), accessToken, struct{}{})
	if err != nil {
		return nil, err
	}

	p := &Profile{}
	if err := decode("fetch_profile", body, p); err != nil {
		return nil, err
	}

	return p, nil
}

// FetchPermissions returns the permission set of the signed in user.
func (c *Client) FetchPermissions(ctx context.Context, accessToken string) (*Permissions, error) {
	body, err := c.do(ctx, "fetch_permissions", http.MethodPost, rpcPath(c.cfg.PermissionsRPC), accessToken, struct{}{})
	if err != nil {
		return nil, err
	}

	p := &Permissions{}
	if err := decode("fetch_permissions", body, p); err != nil {
		return nil, err
	}

	if p.Permissions == nil {
		p.Permissions = []string{}
	}

	return p, nil
}

func rpcPath(name string) string {
	return "/rest/v1/rpc/" + name
}

func (c *Client) decodeSession(op string, body []byte) (*AuthSession, error) {
	sess := &AuthSession{}
	if err := decode(op, body, sess); err != nil {
		return nil, err
	}

	if sess.ExpiresAt == 0 && sess.AccessToken != "" {
		switch exp, ok := tokenExpiry(sess.AccessToken); {
		case sess.ExpiresIn > 0:
			sess.ExpiresAt = c.now().Unix() + sess.ExpiresIn
		case ok:
			sess.ExpiresAt = exp
		}
	}

	return sess, nil
}

func decode(op string, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return NewAuthError(CodeParseError, http.StatusOK, op+": empty response")
	}

	if err := json.Unmarshal(body, out); err != nil {
		ae := NewAuthError(CodeParseError, http.StatusOK, op+": undecodable response")
		ae.Err = err

		return ae
	}

	return nil
}

// do performs one call and returns the raw success body.
// A 204 or an empty body yields a nil slice.
func (c *Client) do(ctx context.Context, op, method, path, token string, in any) ([]byte, error) {
	start := time.Now()

	body, err := c.roundTrip(ctx, method, path, token, in)

	var code Code
	if err != nil {
		ae := AsAuthError(err)
		code = ae.Code

		log.Warn().
			Str("operation", op).
			Str("code", string(ae.Code)).
			Int("status", ae.Status).
			Str("reason", ae.Message).
			Msg("identity call failed")
	} else {
		log.Debug().Str("operation", op).Msg("identity call succeeded")
	}

	observe(op, code, time.Since(start).Seconds())

	return body, err
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, in any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	payload, err := json.Marshal(in)
	if err != nil {
		ae := NewAuthError(CodeBadRequest, http.StatusBadRequest, "can't encode request")
		ae.Err = err

		return nil, ae
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		ae := NewAuthError(CodeNetworkError, 0, "can't create request")
		ae.Err = err

		return nil, ae
	}

	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var pe providerError
		if jsonErr := json.Unmarshal(body, &pe); jsonErr != nil {
			pe = providerError{Msg: http.StatusText(resp.StatusCode)}
		}

		return nil, mapProviderError(pe, resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return nil, nil
	}

	return body, nil
}

func transportError(ctx context.Context, err error) *AuthError {
	var netErr net.Error

	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		ae := NewAuthError(CodeTimeout, http.StatusRequestTimeout, "request timeout")
		ae.UserMessage = "The request is taking too long. Please check your internet connection."
		ae.Err = err

		return ae
	}

	ae := NewAuthError(CodeNetworkError, 0, "network error")
	ae.UserMessage = "Could not connect to the server. Please check your internet connection."
	ae.Err = err

	return ae
}
