package login

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opticare/opticare-portal/internal/identity"
	"github.com/opticare/opticare-portal/internal/web/webtest"
)

func newEnv(t *testing.T) *webtest.Env {
	t.Helper()

	env := webtest.New(t, nil)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	return env
}

func postForm(t *testing.T, env *webtest.Env, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := env.App.Test(req)
	require.NoError(t, err)

	return resp
}

func TestGetRendersNotices(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantMessage string
		wantError   string
		wantTarget  string
	}{
		{name: "plain", query: ""},
		{name: "logged out", query: "?message=logged-out", wantMessage: Notice("logged-out")},
		{name: "session error", query: "?error=session-error", wantError: Problem("session-error")},
		{name: "unknown keys are ignored", query: "?message=nope&error=nope"},
		{name: "redirect is kept", query: "?redirect=%2Fdoctors", wantTarget: "/doctors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)

			resp, err := env.App.Test(httptest.NewRequest(http.MethodGet, Path+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			r := env.Views.Last(t)
			assert.Equal(t, TemplateName, r.Name)
			assert.Equal(t, tt.wantMessage, r.Data["Message"])
			assert.Equal(t, tt.wantError, r.Data["Error"])
			assert.Equal(t, tt.wantTarget, r.Data["Redirect"])
		})
	}
}

func TestPostSignsIn(t *testing.T) {
	env := newEnv(t)
	env.Identity.Session = &identity.AuthSession{
		AccessToken:  "a",
		RefreshToken: "r",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		User:         identity.User{ID: "u-1", Email: "ana@example.com"},
	}
	env.Identity.Perms = &identity.Permissions{
		UserData:    identity.PermissionUser{Role: "receptionist"},
		Permissions: []string{"appointments.read"},
	}

	resp := postForm(t, env, url.Values{"email": {"ana@example.com"}, "password": {"secret1"}})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/appointment", resp.Header.Get("Location"))

	u, err := env.Session.User()
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "receptionist", u.Role)
}

func TestPostHonoursSafeRedirect(t *testing.T) {
	tests := []struct {
		name     string
		redirect string
		want     string
	}{
		{name: "local path", redirect: "/doctors?page=2", want: "/doctors?page=2"},
		{name: "absolute url falls back", redirect: "https://evil.example/", want: "/dashboard"},
		{name: "protocol relative falls back", redirect: "//evil.example", want: "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			env.Identity.Session = &identity.AuthSession{
				AccessToken:  "a",
				RefreshToken: "r",
				ExpiresAt:    time.Now().Add(time.Hour).Unix(),
				User:         identity.User{ID: "u-1"},
			}

			resp := postForm(t, env, url.Values{
				"email":    {"ana@example.com"},
				"password": {"secret1"},
				"redirect": {tt.redirect},
			})

			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, tt.want, resp.Header.Get("Location"))
		})
	}
}

func TestPostRendersErrors(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid email",
			form:       url.Values{"email": {"nope"}, "password": {"x"}},
			wantStatus: http.StatusBadRequest,
			wantError:  identity.DefaultUserMessage(identity.CodeValidationError),
		},
		{
			name:       "wrong password",
			form:       url.Values{"email": {"ana@example.com"}, "password": {"x"}},
			err:        identity.NewAuthError(identity.CodeInvalidCredentials, http.StatusBadRequest, "invalid_grant"),
			wantStatus: http.StatusBadRequest,
			wantError:  identity.DefaultUserMessage(identity.CodeInvalidCredentials),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			env.Identity.Err = tt.err

			resp := postForm(t, env, tt.form)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			r := env.Views.Last(t)
			assert.Equal(t, TemplateName, r.Name)
			assert.Equal(t, tt.wantError, r.Data["Error"])
			assert.Equal(t, tt.form.Get("email"), r.Data["Email"])

			u, err := env.Session.User()
			require.NoError(t, err)
			assert.Nil(t, u)
		})
	}
}

func TestSignedInUserIsSentToLanding(t *testing.T) {
	env := webtest.New(t, webtest.User("patient"))

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	resp, err := env.App.Test(httptest.NewRequest(http.MethodGet, Path, nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestInitRejectsMissingDeps(t *testing.T) {
	var s Service
	assert.Error(t, s.Init(nil, nil))
}
