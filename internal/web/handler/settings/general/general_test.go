package general

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opticare/opticare-portal/internal/db/controller/clinic"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/session"
	"github.com/opticare/opticare-portal/internal/web/webtest"
)

func newEnv(t *testing.T, user *session.User) *webtest.Env {
	t.Helper()

	env := webtest.New(t, user)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	return env
}

func post(t *testing.T, env *webtest.Env, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := env.App.Test(req)
	require.NoError(t, err)

	return resp
}

func validForm() url.Values {
	return url.Values{
		"name":          {"OptiCare Norte"},
		"contact_email": {"info@opticare.example"},
		"slot_minutes":  {"20"},
		"timezone":      {"UTC"},
	}
}

func TestGetShowsDefaults(t *testing.T) {
	env := newEnv(t, webtest.User("admin", routes.PermSettingsRead))

	resp, err := env.App.Test(httptest.NewRequest(http.MethodGet, Path, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := env.Views.Last(t)
	assert.Equal(t, TemplateName, r.Name)
	assert.Equal(t, clinic.Defaults(), r.Data["Settings"])
	assert.Equal(t, false, r.Data["CanEdit"])
}

func TestGetNeedsSettingsRead(t *testing.T) {
	env := newEnv(t, webtest.User("doctor"))

	resp, err := env.App.Test(httptest.NewRequest(http.MethodGet, Path, nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, routes.UnauthorizedPath, resp.Header.Get("Location"))
}

func TestPost(t *testing.T) {
	tests := []struct {
		name       string
		user       *session.User
		mutate     func(url.Values)
		wantStatus int
		wantSaved  bool
	}{
		{
			name:       "saves",
			user:       webtest.User("admin", routes.PermSettingsRead, routes.PermSettingsUpdate),
			mutate:     func(url.Values) {},
			wantStatus: http.StatusOK,
			wantSaved:  true,
		},
		{
			name:       "super admin saves",
			user:       webtest.User(routes.RoleSuperAdmin),
			mutate:     func(url.Values) {},
			wantStatus: http.StatusOK,
			wantSaved:  true,
		},
		{
			name:       "read only user is refused",
			user:       webtest.User("admin", routes.PermSettingsRead),
			mutate:     func(url.Values) {},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "anonymous is refused",
			mutate:     func(url.Values) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown timezone",
			user:       webtest.User("admin", routes.PermSettingsUpdate),
			mutate:     func(v url.Values) { v.Set("timezone", "Mars/Olympus") },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "slot too short",
			user:       webtest.User("admin", routes.PermSettingsUpdate),
			mutate:     func(v url.Values) { v.Set("slot_minutes", "1") },
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, tt.user)

			form := validForm()
			tt.mutate(form)

			resp := post(t, env, form)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			stored, err := clinic.Load(env.Deps.DB)
			require.NoError(t, err)

			if !tt.wantSaved {
				assert.Equal(t, clinic.Defaults(), stored)

				return
			}

			assert.Equal(t, MsgSaved, env.Views.Last(t).Data["Success"])
			assert.Equal(t, "OptiCare Norte", stored.Name)
			assert.Equal(t, 20, stored.SlotMinutes)
			assert.Equal(t, "UTC", stored.Timezone)
		})
	}
}
