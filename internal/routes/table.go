package routes

import (
	"slices"
)

// Redirect targets of the auth middleware and the action handlers.
const (
	LoginPath          = "/auth/login"
	LogoutPath         = "/auth/logout"
	UnauthorizedPath   = "/unauthorized"
	DefaultLandingPath = "/dashboard"
	SessionErrorPath   = "/auth/login?error=session-error"
	LoggedOutPath      = "/auth/login?message=logged-out"
)

// Table lists the route patterns of each class.
//
// A pattern is matched exactly, by raw prefix when it ends with "*",
// and otherwise also matches every path below it ("/users" matches
// "/users/7" but not "/usersettings"). "/" only matches itself.
type Table struct {
	Public     []string
	Auth       []string
	Protected  []string
	Restricted map[string][]string
}

// DefaultTable returns the route table of the portal.
func DefaultTable() Table {
	return Table{
		Public: []string{
			"/",
			"/auth/login",
			"/auth/register",
			"/auth/forgot-password",
			"/auth/reset-password",
			"/unauthorized",
			"/api",
			"/legal/terms",
			"/legal/privacy",
		},
		Auth: []string{
			"/auth/login",
			"/auth/register",
			"/auth/forgot-password",
			"/auth/reset-password",
		},
		Protected: []string{
			"/dashboard",
			"/appointment",
			"/doctors",
			"/auth/logout",
			"/services",
			"/patients",
			"/histories",
			"/reports",
			"/settings",
			"/profile",
		},
		Restricted: map[string][]string{
			"/settings/users":       {PermUsersRead, PermAdminAccess},
			"/settings/roles":       {PermRolesRead, PermAdminAccess},
			"/settings/permissions": {PermPermissionsRead, PermAdminAccess},

			"/users":        {PermUsersRead},
			"/users/create": {PermUsersCreate},
			"/users/edit":   {PermUsersUpdate},
			"/users/delete": {PermUsersDelete},

			"/appointment":            {PermAppointmentsRead},
			"/appointment/new":        {PermAppointmentsCreate},
			"/appointment/edit":       {PermAppointmentsUpdate},
			"/appointment/delete":     {PermAppointmentsDelete},
			"/appointment/confirm":    {PermAppointmentsConfirm},
			"/appointment/cancel":     {PermAppointmentsCancel},
			"/appointment/reschedule": {PermAppointmentsReschedule},
			"/appointment/check-in":   {PermAppointmentsCheckIn},

			"/doctors":              {PermUsersRead},
			"/doctors/schedules":    {PermSchedulesRead},
			"/doctors/availability": {PermSchedulesRead},

			"/services":        {PermServicesRead},
			"/services/create": {PermServicesCreate},
			"/services/edit":   {PermServicesUpdate},
			"/services/delete": {PermServicesDelete},

			"/patients":        {PermProfilesRead},
			"/patients/new":    {PermProfilesCreate},
			"/patients/edit":   {PermProfilesUpdate},
			"/patients/delete": {PermProfilesDelete},

			"/histories":        {PermProfilesRead},
			"/histories/create": {PermProfilesCreate},
			"/histories/edit":   {PermProfilesUpdate},

			"/reports":           {PermReportsRead},
			"/reports/create":    {PermReportsCreate},
			"/reports/financial": {PermReportsRead},

			"/settings":         {PermSettingsRead},
			"/settings/general": {PermSettingsRead},
			"/settings/update":  {PermSettingsUpdate},
		},
	}
}

// Override returns a copy of t where every non-empty list of o replaces
// the list of t.
func (t Table) Override(o Table) Table {
	out := t.clone()

	if len(o.Public) > 0 {
		out.Public = slices.Clone(o.Public)
	}

	if len(o.Auth) > 0 {
		out.Auth = slices.Clone(o.Auth)
	}

	if len(o.Protected) > 0 {
		out.Protected = slices.Clone(o.Protected)
	}

	if len(o.Restricted) > 0 {
		out.Restricted = cloneRestricted(o.Restricted)
	}

	return out
}

func (t Table) clone() Table {
	return Table{
		Public:     slices.Clone(t.Public),
		Auth:       slices.Clone(t.Auth),
		Protected:  slices.Clone(t.Protected),
		Restricted: cloneRestricted(t.Restricted),
	}
}

func cloneRestricted(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}

	return out
}
