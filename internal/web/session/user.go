package session

import (
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/opticare/opticare-portal/internal/identity"
)

// User is the signed in user kept in the session under UserKey.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
}

// FromAuthSession builds the session user of a fresh provider session.
// The role of the permission record wins over the token role, the
// provider usually reports "authenticated" there.
func FromAuthSession(s *identity.AuthSession, perms *identity.Permissions) *User {
	u := &User{
		ID:           s.User.ID,
		Email:        s.User.Email,
		FirstName:    s.User.UserMetadata.FirstName,
		LastName:     s.User.UserMetadata.LastName,
		Role:         s.User.Role,
		Permissions:  []string{},
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
	}

	if perms == nil {
		return u
	}

	u.Permissions = slices.Clone(perms.Permissions)
	if u.Permissions == nil {
		u.Permissions = []string{}
	}

	if perms.UserData.Role != "" {
		u.Role = perms.UserData.Role
	}

	if perms.IsSuperAdmin {
		u.Role = "super_admin"
	}

	return u
}

// Expired reports whether the access token expires within buffer of now.
func (u *User) Expired(now time.Time, buffer time.Duration) bool {
	return now.Unix() >= u.ExpiresAt-int64(buffer/time.Second)
}

// IsSuperAdmin reports whether u bypasses permission checks.
func (u *User) IsSuperAdmin() bool {
	return u.Role == "super_admin"
}

// HasPermission reports whether u holds perm.
func (u *User) HasPermission(perm string) bool {
	return slices.Contains(u.Permissions, perm)
}

// HasAny reports whether u holds at least one of perms.
func (u *User) HasAny(perms ...string) bool {
	return slices.ContainsFunc(perms, u.HasPermission)
}

// HasAll reports whether u holds every one of perms.
func (u *User) HasAll(perms ...string) bool {
	for _, p := range perms {
		if !u.HasPermission(p) {
			return false
		}
	}

	return true
}

// CanPerformCRUD checks the "<resource>.<action>" permission.
func (u *User) CanPerformCRUD(resource, action string) bool {
	return u.HasPermission(resource + "." + action)
}

// DisplayName is first and last name.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Initials returns the upper case initials of the user, "?" without a name.
func (u *User) Initials() string {
	out := initial(u.FirstName) + initial(u.LastName)
	if out == "" {
		return "?"
	}

	return out
}

func initial(s string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	if r == utf8.RuneError {
		return ""
	}

	return string(unicode.ToUpper(r))
}

// PermissionsByCategory groups permissions by the part before the first dot.
func (u *User) PermissionsByCategory() map[string][]string {
	out := map[string][]string{}

	for _, p := range u.Permissions {
		category, _, _ := strings.Cut(p, ".")
		out[category] = append(out[category], p)
	}

	return out
}
