package navigation

import (
	"slices"
	"sort"
	"strings"

	"github.com/opticare/opticare-portal/internal/routes"
)

// Item is a sidebar link. Empty Permissions or Roles do not restrict it.
type Item struct {
	Label       string
	Href        string
	Icon        string
	Permissions []string
	Roles       []string
}

// Group is a titled block of sidebar items.
type Group struct {
	ID          string
	Title       string
	Order       int
	Permissions []string
	Roles       []string
	Items       []Item
}

// DefaultSidebar returns the sidebar of the portal.
func DefaultSidebar() []Group {
	return []Group{
		{
			ID: "dashboard", Title: "Dashboard", Order: 1,
			Permissions: []string{routes.PermDashboardAccess},
			Items: []Item{
				{Label: "Overview", Href: "/dashboard", Icon: "dashboard", Permissions: []string{routes.PermDashboardAccess}},
			},
		},
		{
			ID: "appointments", Title: "Appointments", Order: 2,
			Permissions: []string{routes.PermAppointmentsRead},
			Items: []Item{
				{Label: "All appointments", Href: "/appointment", Icon: "calendar", Permissions: []string{routes.PermAppointmentsRead}},
				{Label: "New appointment", Href: "/appointment/new", Icon: "calendar-plus", Permissions: []string{routes.PermAppointmentsCreate}},
				{Label: "Today", Href: "/appointment/today", Icon: "clock", Permissions: []string{routes.PermAppointmentsRead}},
				{Label: "Calendar", Href: "/appointment/calendar", Icon: "calendar-check", Permissions: []string{routes.PermAppointmentsRead}},
			},
		},
		{
			ID: "patients", Title: "Patients", Order: 3,
			Permissions: []string{routes.PermProfilesRead},
			Items: []Item{
				{Label: "All patients", Href: "/patients", Icon: "users", Permissions: []string{routes.PermProfilesRead}},
				{Label: "Register patient", Href: "/patients/new", Icon: "user-check", Permissions: []string{routes.PermProfilesCreate}},
			},
		},
		{
			ID: "doctors", Title: "Doctors", Order: 4,
			Permissions: []string{routes.PermUsersRead},
			Items: []Item{
				{Label: "Specialists", Href: "/doctors", Icon: "stethoscope", Permissions: []string{routes.PermUsersRead}},
				{Label: "Availability", Href: "/doctors/availability", Icon: "user-check", Permissions: []string{routes.PermSchedulesRead}},
			},
		},
		{
			ID: "services", Title: "Services", Order: 5,
			Permissions: []string{routes.PermServicesRead},
			Items: []Item{
				{Label: "General consultation", Href: "/services", Icon: "activity", Permissions: []string{routes.PermServicesRead}},
			},
		},
		{
			ID: "histories", Title: "Histories", Order: 6,
			Permissions: []string{routes.PermProfilesRead},
			Items: []Item{
				{Label: "Medical histories", Href: "/histories", Icon: "stethoscope", Permissions: []string{routes.PermProfilesRead}},
			},
		},
		{
			ID: "reports", Title: "Reports", Order: 7,
			Permissions: []string{routes.PermReportsRead},
			Items: []Item{
				{Label: "Statistics", Href: "/reports", Icon: "bar-chart", Permissions: []string{routes.PermReportsRead}},
				{Label: "Financial", Href: "/reports/financial", Icon: "dollar-sign", Permissions: []string{routes.PermReportsRead}},
			},
		},
		{
			ID: "settings", Title: "Settings", Order: 8,
			Permissions: []string{routes.PermSettingsRead},
			Items: []Item{
				{Label: "General", Href: "/settings/general", Icon: "settings", Permissions: []string{routes.PermSettingsRead}},
				{Label: "Users", Href: "/settings/users", Icon: "users", Permissions: []string{routes.PermUsersRead, routes.PermAdminAccess}},
			},
		},
	}
}

func visible(required, roles []string, role string, perms []string) bool {
	if role == routes.RoleSuperAdmin {
		return true
	}

	if len(roles) > 0 && !slices.Contains(roles, role) {
		return false
	}

	if len(required) == 0 {
		return true
	}

	return slices.ContainsFunc(required, func(p string) bool { return slices.Contains(perms, p) })
}

// SidebarFor returns the groups and items the user may see, ordered by
// Group.Order. One matching permission is enough, super_admin sees all.
// Groups left without items are dropped.
func SidebarFor(groups []Group, role string, perms []string) []Group {
	out := make([]Group, 0, len(groups))

	for _, g := range groups {
		if !visible(g.Permissions, g.Roles, role, perms) {
			continue
		}

		items := make([]Item, 0, len(g.Items))

		for _, it := range g.Items {
			if visible(it.Permissions, it.Roles, role, perms) {
				items = append(items, it)
			}
		}

		if len(items) == 0 {
			continue
		}

		g.Items = items
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })

	return out
}

// IsActiveRoute reports whether the link href is active on path. Links
// stay active on the pages below them, the dashboard only on itself.
func IsActiveRoute(path, href string) bool {
	path = routes.Normalize(path)

	if path == href {
		return true
	}

	if href == routes.DefaultLandingPath || href == "/" {
		return false
	}

	return strings.HasPrefix(path, href+"/")
}

// ActiveItem returns the most specific item active on path, nil if none.
func ActiveItem(groups []Group, path string) *Item {
	var best *Item

	for gi := range groups {
		for ii := range groups[gi].Items {
			it := &groups[gi].Items[ii]
			if IsActiveRoute(path, it.Href) && (best == nil || len(it.Href) > len(best.Href)) {
				best = it
			}
		}
	}

	return best
}
