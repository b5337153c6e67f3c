package routes

// Permission constants used by the default route table and the sidebar.
// The identity provider is the source of truth, these are only names.
const (
	// PermDashboardAccess shows the dashboard entry of the sidebar.
	PermDashboardAccess = "dashboard.access"

	// PermAdminAccess grants every administrative settings page.
	PermAdminAccess = "admin.access"

	PermUsersRead   = "users.read"
	PermUsersCreate = "users.create"
	PermUsersUpdate = "users.update"
	PermUsersDelete = "users.delete"

	PermRolesRead       = "roles.read"
	PermPermissionsRead = "permissions.read"

	PermAppointmentsRead       = "appointments.read"
	PermAppointmentsCreate     = "appointments.create"
	PermAppointmentsUpdate     = "appointments.update"
	PermAppointmentsDelete     = "appointments.delete"
	PermAppointmentsConfirm    = "appointments.confirm"
	PermAppointmentsCancel     = "appointments.cancel"
	PermAppointmentsReschedule = "appointments.reschedule"
	PermAppointmentsCheckIn    = "appointments.check_in"

	// PermSchedulesRead allows viewing doctor schedules and availability.
	PermSchedulesRead = "schedules.read"

	PermServicesRead   = "services.read"
	PermServicesCreate = "services.create"
	PermServicesUpdate = "services.update"
	PermServicesDelete = "services.delete"

	// PermProfilesRead allows viewing patients and their medical histories.
	PermProfilesRead   = "profiles.read"
	PermProfilesCreate = "profiles.create"
	PermProfilesUpdate = "profiles.update"
	PermProfilesDelete = "profiles.delete"

	PermReportsRead   = "reports.read"
	PermReportsCreate = "reports.create"

	// PermSettingsRead allows viewing the clinic settings.
	PermSettingsRead = "settings.read"
	// PermSettingsUpdate allows changing the clinic settings.
	PermSettingsUpdate = "settings.update"
)

// RoleSuperAdmin passes every permission check.
const RoleSuperAdmin = "super_admin"
