package routes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opticare/opticare-portal/internal/routes"
)

func TestClassify(t *testing.T) {
	c := routes.NewClassifier(routes.DefaultTable())

	tests := []struct {
		path          string
		wantPublic    bool
		wantAuthOnly  bool
		wantProtected bool
		wantPerms     []string
	}{
		{path: "/", wantPublic: true, wantPerms: []string{}},
		{path: "/auth/login", wantPublic: true, wantAuthOnly: true, wantPerms: []string{}},
		{path: "/auth/login/", wantPublic: true, wantAuthOnly: true, wantPerms: []string{}},
		{path: "/auth/logout", wantProtected: true, wantPerms: []string{}},
		{path: "/dashboard", wantProtected: true, wantPerms: []string{}},
		{path: "/legal/terms", wantPublic: true, wantPerms: []string{}},
		{path: "/api/health", wantPublic: true, wantPerms: []string{}},
		{path: "/profile", wantProtected: true, wantPerms: []string{}},
		{path: "/settings/users", wantProtected: true, wantPerms: []string{"users.read", "admin.access"}},
		{path: "/settings/users/12", wantProtected: true, wantPerms: []string{"users.read", "admin.access"}},
		{path: "/settings/general", wantProtected: true, wantPerms: []string{"settings.read"}},
		{path: "/settings/mail", wantProtected: true, wantPerms: []string{"settings.read"}},
		{path: "/appointment", wantProtected: true, wantPerms: []string{"appointments.read"}},
		{path: "/appointment/check-in", wantProtected: true, wantPerms: []string{"appointments.check_in"}},
		{path: "/users", wantPerms: []string{"users.read"}},
		{path: "/users/create", wantPerms: []string{"users.create"}},
		{path: "/usersettings", wantPerms: []string{}},
		{path: "/doctors/dr-001", wantProtected: true, wantPerms: []string{"users.read"}},
		{path: "/doctors/schedules", wantProtected: true, wantPerms: []string{"schedules.read"}},
		{path: "/nowhere", wantPerms: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := c.Classify(tt.path)

			assert.Equal(t, tt.wantPublic, got.IsPublic, "public")
			assert.Equal(t, tt.wantAuthOnly, got.IsAuthOnly, "auth only")
			assert.Equal(t, tt.wantProtected, got.IsProtected, "protected")
			assert.Equal(t, tt.wantPerms, got.RequiredPermissions)

			// same input, same answer
			assert.Equal(t, got, c.Classify(tt.path))
		})
	}
}

func TestRequiresAuth(t *testing.T) {
	c := routes.NewClassifier(routes.DefaultTable())

	assert.True(t, c.Classify("/users").RequiresAuth())
	assert.True(t, c.Classify("/dashboard").RequiresAuth())
	assert.False(t, c.Classify("/legal/privacy").RequiresAuth())
	assert.False(t, c.Classify("/nowhere").RequiresAuth())
}

func TestUnrestrictedPathsAreOpenToEveryone(t *testing.T) {
	c := routes.NewClassifier(routes.DefaultTable())

	for _, p := range []string{"/", "/dashboard", "/profile", "/auth/logout", "/nowhere", "/legal/terms"} {
		assert.Empty(t, c.RequiredPermissions(p), p)
		assert.True(t, c.CanAccess(nil, p), p)
	}
}

func TestCanAccessIsOr(t *testing.T) {
	c := routes.NewClassifier(routes.DefaultTable())

	assert.True(t, c.CanAccess([]string{"admin.access"}, "/settings/users"))
	assert.True(t, c.CanAccess([]string{"users.read"}, "/settings/users"))
	assert.False(t, c.CanAccess([]string{"appointments.read"}, "/settings/users"))
	assert.False(t, c.CanAccess(nil, "/reports/financial"))
}

func TestAuthorizeSuperAdmin(t *testing.T) {
	c := routes.NewClassifier(routes.DefaultTable())

	for path := range routes.DefaultTable().Restricted {
		assert.True(t, c.Authorize(routes.RoleSuperAdmin, nil, path), path)
		assert.False(t, c.Authorize("doctor", nil, path), path)
	}
}

func TestWildcardPattern(t *testing.T) {
	c := routes.NewClassifier(routes.Table{
		Public:     []string{"/static*"},
		Restricted: map[string][]string{"/billing*": {"billing.read"}},
	})

	assert.True(t, c.IsPublic("/static/app.css"))
	assert.True(t, c.IsPublic("/staticfiles"))
	assert.Equal(t, []string{"billing.read"}, c.RequiredPermissions("/billing-report"))
}

func TestClassifierCopiesTable(t *testing.T) {
	table := routes.DefaultTable()
	c := routes.NewClassifier(table)

	table.Restricted["/settings/users"][0] = "changed"
	table.Public = nil

	assert.Equal(t, []string{"users.read", "admin.access"}, c.RequiredPermissions("/settings/users"))
	assert.True(t, c.IsPublic("/"))

	perms := c.RequiredPermissions("/reports")
	perms[0] = "changed"
	assert.Equal(t, []string{"reports.read"}, c.RequiredPermissions("/reports"))
}

func TestOverride(t *testing.T) {
	table := routes.DefaultTable().Override(routes.Table{
		Restricted: map[string][]string{"/reports": {"reports.export"}},
	})

	require.Len(t, table.Restricted, 1)
	assert.Equal(t, routes.DefaultTable().Public, table.Public)

	c := routes.NewClassifier(table)
	assert.Equal(t, []string{"reports.export"}, c.RequiredPermissions("/reports/financial"))
	assert.Empty(t, c.RequiredPermissions("/settings/users"))
}

func TestLandingPath(t *testing.T) {
	tests := map[string]string{
		"super_admin":   "/dashboard",
		"doctor":        "/dashboard",
		"patient":       "/dashboard",
		"receptionist":  "/appointment",
		"coordinator":   "/appointment",
		"technician":    "/appointment",
		"authenticated": "/dashboard",
		"":              "/dashboard",
	}

	for role, want := range tests {
		assert.Equal(t, want, routes.LandingPath(role), role)
	}
}

func TestAvailableRoutes(t *testing.T) {
	c := routes.NewClassifier(routes.DefaultTable())

	got := c.AvailableRoutes([]string{"appointments.read", "settings.read"})

	assert.Contains(t, got, "/dashboard")
	assert.Contains(t, got, "/appointment")
	assert.Contains(t, got, "/settings/general")
	assert.NotContains(t, got, "/doctors")
	assert.NotContains(t, got, "/settings/users")
	assert.NotContains(t, got, "/appointment/new")

	seen := map[string]bool{}
	for _, r := range got {
		assert.False(t, seen[r], "duplicate %s", r)
		seen[r] = true
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"/dashboard":             "/dashboard",
		"/appointment?week=2025": "/appointment?week=2025",
		"":                       "/fallback",
		"https://evil.test":      "/fallback",
		"//evil.test":            "/fallback",
		"/\\evil.test":           "/fallback",
		"dashboard":              "/fallback",
		"/a\r\nSet-Cookie: x":    "/fallback",
	}

	for in, want := range tests {
		assert.Equal(t, want, routes.SafeRedirect(in, "/fallback"), in)
	}
}
