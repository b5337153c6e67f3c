package session_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opticare/opticare-portal/internal/identity"
	"github.com/opticare/opticare-portal/internal/web/session"
)

func authSession() *identity.AuthSession {
	return &identity.AuthSession{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresAt:    1741600000,
		User: identity.User{
			ID:    "u-1",
			Email: "ana@opticare.test",
			Role:  "authenticated",
			UserMetadata: identity.UserMetadata{
				FirstName: "Ana",
				LastName:  "Ruiz",
			},
		},
	}
}

func TestFromAuthSession(t *testing.T) {
	tests := []struct {
		name      string
		perms     *identity.Permissions
		wantRole  string
		wantPerms []string
	}{
		{
			name:      "no permission record",
			wantRole:  "authenticated",
			wantPerms: []string{},
		},
		{
			name: "role from permission record",
			perms: &identity.Permissions{
				UserData:    identity.PermissionUser{Role: "doctor"},
				Permissions: []string{"appointments.read"},
			},
			wantRole:  "doctor",
			wantPerms: []string{"appointments.read"},
		},
		{
			name: "super admin flag",
			perms: &identity.Permissions{
				UserData:     identity.PermissionUser{Role: "admin"},
				IsSuperAdmin: true,
			},
			wantRole:  "super_admin",
			wantPerms: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := session.FromAuthSession(authSession(), tt.perms)

			assert.Equal(t, "u-1", u.ID)
			assert.Equal(t, "ana@opticare.test", u.Email)
			assert.Equal(t, "Ana", u.FirstName)
			assert.Equal(t, "Ruiz", u.LastName)
			assert.Equal(t, "at-1", u.AccessToken)
			assert.Equal(t, "rt-1", u.RefreshToken)
			assert.Equal(t, int64(1741600000), u.ExpiresAt)
			assert.Equal(t, tt.wantRole, u.Role)
			assert.Equal(t, tt.wantPerms, u.Permissions)
		})
	}
}

func TestUserJSONFieldNames(t *testing.T) {
	u := session.FromAuthSession(authSession(), &identity.Permissions{Permissions: []string{"a.b"}})

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	for _, k := range []string{
		"id", "email", "first_name", "last_name", "role",
		"permissions", "access_token", "refresh_token", "expires_at",
	} {
		assert.Contains(t, m, k)
	}

	var back session.User
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, *u, back)
}

func TestExpired(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	buffer := 300 * time.Second

	tests := []struct {
		expiresAt int64
		want      bool
	}{
		{now.Unix() - 1, true},
		{now.Unix(), true},
		{now.Unix() + 299, true},
		{now.Unix() + 300, true},
		{now.Unix() + 301, false},
		{now.Unix() + 3600, false},
	}

	for _, tt := range tests {
		u := &session.User{ExpiresAt: tt.expiresAt}
		assert.Equal(t, tt.want, u.Expired(now, buffer), "expires_at=%d", tt.expiresAt)
	}
}

func TestPermissionHelpers(t *testing.T) {
	u := &session.User{
		FirstName:   "ana",
		LastName:    "ruiz",
		Permissions: []string{"appointments.read", "appointments.create", "users.read"},
	}

	assert.True(t, u.HasPermission("users.read"))
	assert.False(t, u.HasPermission("users.delete"))
	assert.True(t, u.HasAny("users.delete", "users.read"))
	assert.False(t, u.HasAny())
	assert.True(t, u.HasAll("appointments.read", "users.read"))
	assert.False(t, u.HasAll("appointments.read", "reports.read"))
	assert.True(t, u.CanPerformCRUD("appointments", "create"))
	assert.False(t, u.CanPerformCRUD("appointments", "delete"))
	assert.False(t, u.IsSuperAdmin())

	assert.Equal(t, "ana ruiz", u.DisplayName())
	assert.Equal(t, "AR", u.Initials())
	assert.Equal(t, "?", (&session.User{}).Initials())
	assert.Equal(t, "É", (&session.User{FirstName: "élia"}).Initials())

	assert.Equal(t, map[string][]string{
		"appointments": {"appointments.read", "appointments.create"},
		"users":        {"users.read"},
	}, u.PermissionsByCategory())
}
