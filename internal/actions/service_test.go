package actions

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opticare/opticare-portal/internal/identity"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/session"
)

type fakeSession struct {
	user      *session.User
	userErr   error
	setErr    error
	destroyed bool
}

func (f *fakeSession) User() (*session.User, error) { return f.user, f.userErr }

func (f *fakeSession) SetUser(u *session.User) error {
	if f.setErr != nil {
		return f.setErr
	}

	f.user = u

	return nil
}

func (f *fakeSession) Destroy() error {
	f.destroyed = true
	f.user = nil

	return nil
}

type fakeIdentity struct {
	session   *identity.AuthSession
	perms     *identity.Permissions
	profile   *identity.Profile
	err       error
	permsErr  error
	logoutErr error

	calls      []string
	tokens     []string
	metadata   identity.UserMetadata
	complete   identity.CompleteProfile
	registered identity.RegisterRequest
}

func (f *fakeIdentity) record(name, token string) {
	f.calls = append(f.calls, name)
	f.tokens = append(f.tokens, token)
}

func (f *fakeIdentity) Register(_ context.Context, req identity.RegisterRequest) (*identity.AuthSession, error) {
	f.record("register", "")
	f.registered = req

	return f.session, f.err
}

func (f *fakeIdentity) Login(context.Context, identity.LoginRequest) (*identity.AuthSession, error) {
	f.record("login", "")

	return f.session, f.err
}

func (f *fakeIdentity) Logout(_ context.Context, token string) error {
	f.record("logout", token)

	return f.logoutErr
}

func (f *fakeIdentity) RecoverPassword(context.Context, string) error {
	f.record("recover", "")

	return f.err
}

func (f *fakeIdentity) UpdatePassword(_ context.Context, token, _ string) error {
	f.record("update_password", token)

	return f.err
}

func (f *fakeIdentity) UpdateUserMetadata(_ context.Context, token string, md identity.UserMetadata) (*identity.User, error) {
	f.record("update_metadata", token)
	f.metadata = md

	if f.err != nil {
		return nil, f.err
	}

	return &identity.User{ID: "u1", UserMetadata: md}, nil
}

func (f *fakeIdentity) UpdateCompleteProfile(_ context.Context, token string, p identity.CompleteProfile) error {
	f.record("update_complete_profile", token)
	f.complete = p

	return f.err
}

func (f *fakeIdentity) FetchProfile(_ context.Context, token string) (*identity.Profile, error) {
	f.record("profile", token)

	return f.profile, f.err
}

func (f *fakeIdentity) FetchPermissions(_ context.Context, token string) (*identity.Permissions, error) {
	f.record("permissions", token)

	if f.permsErr != nil {
		return nil, f.permsErr
	}

	return f.perms, nil
}

func authSession() *identity.AuthSession {
	return &identity.AuthSession{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		User: identity.User{
			ID:           "u1",
			Email:        "ana@example.com",
			Role:         "authenticated",
			UserMetadata: identity.UserMetadata{FirstName: "Ana", LastName: "Diaz"},
		},
	}
}

func signedIn() *session.User {
	return &session.User{ID: "u1", Email: "ana@example.com", FirstName: "Ana", LastName: "Diaz", Role: "doctor", AccessToken: "access"}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name         string
		input        LoginInput
		identity     *fakeIdentity
		wantSuccess  bool
		wantCode     identity.Code
		wantStatus   int
		wantRedirect string
		wantRole     string
	}{
		{
			name:         "doctor lands on dashboard",
			input:        LoginInput{Email: "ana@example.com", Password: "secret"},
			identity:     &fakeIdentity{session: authSession(), perms: &identity.Permissions{UserData: identity.PermissionUser{Role: "doctor"}, Permissions: []string{"dashboard.read"}}},
			wantSuccess:  true,
			wantStatus:   http.StatusOK,
			wantRedirect: "/dashboard",
			wantRole:     "doctor",
		},
		{
			name:         "patient lands on landing page",
			input:        LoginInput{Email: "ana@example.com", Password: "secret"},
			identity:     &fakeIdentity{session: authSession(), perms: &identity.Permissions{UserData: identity.PermissionUser{Role: "patient"}}},
			wantSuccess:  true,
			wantStatus:   http.StatusOK,
			wantRedirect: routes.LandingPath("patient"),
			wantRole:     "patient",
		},
		{
			name:         "safe redirect is honored",
			input:        LoginInput{Email: "ana@example.com", Password: "secret", Redirect: "/doctors"},
			identity:     &fakeIdentity{session: authSession(), perms: &identity.Permissions{UserData: identity.PermissionUser{Role: "doctor"}}},
			wantSuccess:  true,
			wantStatus:   http.StatusOK,
			wantRedirect: "/doctors",
			wantRole:     "doctor",
		},
		{
			name:         "external redirect is ignored",
			input:        LoginInput{Email: "ana@example.com", Password: "secret", Redirect: "//evil.example.com"},
			identity:     &fakeIdentity{session: authSession(), perms: &identity.Permissions{UserData: identity.PermissionUser{Role: "doctor"}}},
			wantSuccess:  true,
			wantStatus:   http.StatusOK,
			wantRedirect: "/dashboard",
			wantRole:     "doctor",
		},
		{
			name:       "invalid input",
			input:      LoginInput{Email: "not-an-email"},
			identity:   &fakeIdentity{},
			wantCode:   identity.CodeValidationError,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong password",
			input:      LoginInput{Email: "ana@example.com", Password: "bad"},
			identity:   &fakeIdentity{err: identity.NewAuthError(identity.CodeInvalidCredentials, http.StatusBadRequest, "Invalid login credentials")},
			wantCode:   identity.CodeInvalidCredentials,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "provider unreachable",
			input:      LoginInput{Email: "ana@example.com", Password: "secret"},
			identity:   &fakeIdentity{err: identity.NewAuthError(identity.CodeNetworkError, 0, "dial tcp")},
			wantCode:   identity.CodeNetworkError,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "permissions fail",
			input:      LoginInput{Email: "ana@example.com", Password: "secret"},
			identity:   &fakeIdentity{session: authSession(), permsErr: identity.NewAuthError(identity.CodeServerError, http.StatusInternalServerError, "boom")},
			wantCode:   identity.CodeServerError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &fakeSession{}
			res := New(tt.identity, nil).Login(context.Background(), sess, tt.input)

			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantStatus, res.HTTPStatus())

			if !tt.wantSuccess {
				require.NotNil(t, res.Error)
				assert.Equal(t, tt.wantCode, res.Error.Code)
				assert.NotEmpty(t, res.Error.Message)
				assert.Nil(t, sess.user)

				return
			}

			assert.Equal(t, tt.wantRedirect, res.Redirect())
			require.NotNil(t, sess.user)
			assert.Equal(t, tt.wantRole, sess.user.Role)
			assert.Equal(t, "access", sess.user.AccessToken)
			assert.Equal(t, []string{"login", "permissions"}, tt.identity.calls)
		})
	}
}

func TestLoginDoesNotLeakProviderText(t *testing.T) {
	id := &fakeIdentity{err: errors.New("pq: relation auth.users does not exist")}

	res := New(id, nil).Login(context.Background(), &fakeSession{}, LoginInput{Email: "ana@example.com", Password: "x"})

	require.NotNil(t, res.Error)
	assert.Equal(t, identity.CodeUnknown, res.Error.Code)
	assert.NotContains(t, res.Error.Message, "pq:")
}

func TestLoginThrottled(t *testing.T) {
	id := &fakeIdentity{err: identity.ErrInvalidCredentials}
	svc := New(id, NewLoginLimiter(1, 2))
	in := LoginInput{Email: "ana@example.com", Password: "bad"}

	for range 2 {
		res := svc.Login(context.Background(), &fakeSession{}, in)
		assert.Equal(t, identity.CodeInvalidCredentials, res.Error.Code)
	}

	res := svc.Login(context.Background(), &fakeSession{}, LoginInput{Email: "ANA@example.com", Password: "bad"})
	require.NotNil(t, res.Error)
	assert.Equal(t, identity.CodeTooManyRequests, res.Error.Code)
	assert.Equal(t, http.StatusTooManyRequests, res.HTTPStatus())
	assert.Len(t, id.calls, 2)

	res = svc.Login(context.Background(), &fakeSession{}, LoginInput{Email: "other@example.com", Password: "bad"})
	assert.Equal(t, identity.CodeInvalidCredentials, res.Error.Code)
}

func TestRegister(t *testing.T) {
	valid := RegisterInput{Email: "ana@example.com", Password: "secret", FirstName: "Ana", LastName: "Diaz", Phone: "555"}

	t.Run("signed in right away", func(t *testing.T) {
		id := &fakeIdentity{session: authSession(), perms: &identity.Permissions{UserData: identity.PermissionUser{Role: "patient"}}}
		sess := &fakeSession{}

		res := New(id, nil).Register(context.Background(), sess, valid)

		require.True(t, res.Success)
		assert.Equal(t, MsgRegistered, res.Message)
		assert.Equal(t, routes.LandingPath("patient"), res.Redirect())
		require.NotNil(t, sess.user)
		assert.Equal(t, "Ana", id.registered.Data.FirstName)
		assert.Equal(t, "555", id.registered.Data.Phone)
	})

	t.Run("confirmation required", func(t *testing.T) {
		id := &fakeIdentity{session: &identity.AuthSession{User: identity.User{ID: "u1"}}}
		sess := &fakeSession{}

		res := New(id, nil).Register(context.Background(), sess, valid)

		require.True(t, res.Success)
		assert.Equal(t, MsgConfirmEmail, res.Message)
		assert.Empty(t, res.Redirect())
		assert.Nil(t, sess.user)
		assert.Equal(t, []string{"register"}, id.calls)
	})

	t.Run("short password", func(t *testing.T) {
		in := valid
		in.Password = "12345"

		res := New(&fakeIdentity{}, nil).Register(context.Background(), &fakeSession{}, in)

		require.NotNil(t, res.Error)
		assert.Equal(t, identity.CodeValidationError, res.Error.Code)
		assert.Contains(t, res.Error.Fields, "password")
	})

	t.Run("already registered", func(t *testing.T) {
		id := &fakeIdentity{err: identity.NewAuthError(identity.CodeEmailAlreadyExists, http.StatusUnprocessableEntity, "")}

		res := New(id, nil).Register(context.Background(), &fakeSession{}, valid)

		require.NotNil(t, res.Error)
		assert.Equal(t, identity.CodeEmailAlreadyExists, res.Error.Code)
		assert.Equal(t, http.StatusUnprocessableEntity, res.HTTPStatus())
	})

	t.Run("session store fails", func(t *testing.T) {
		id := &fakeIdentity{session: authSession(), perms: &identity.Permissions{}}

		res := New(id, nil).Register(context.Background(), &fakeSession{setErr: errors.New("disk full")}, valid)

		require.NotNil(t, res.Error)
		assert.Equal(t, identity.CodeServerError, res.Error.Code)
	})
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name      string
		sess      *fakeSession
		logoutErr error
		wantCalls []string
	}{
		{
			name:      "signed in",
			sess:      &fakeSession{user: signedIn()},
			wantCalls: []string{"logout"},
		},
		{
			name:      "provider fails",
			sess:      &fakeSession{user: signedIn()},
			logoutErr: identity.ErrNetwork,
			wantCalls: []string{"logout"},
		},
		{
			name: "anonymous",
			sess: &fakeSession{},
		},
		{
			name: "corrupt session",
			sess: &fakeSession{userErr: session.ErrCorruptUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := &fakeIdentity{logoutErr: tt.logoutErr}

			res := New(id, nil).Logout(context.Background(), tt.sess)

			assert.True(t, res.Success)
			assert.Equal(t, routes.LoggedOutPath, res.Redirect())
			assert.True(t, tt.sess.destroyed)
			assert.Equal(t, tt.wantCalls, id.calls)
		})
	}
}

func TestAuthenticatedActionsRequireUser(t *testing.T) {
	svc := New(&fakeIdentity{}, nil)
	ctx := context.Background()
	sess := &fakeSession{}

	results := map[string]Result{
		"update password": svc.UpdatePassword(ctx, sess, UpdatePasswordInput{Password: "secret1"}),
		"metadata":        svc.UpdateUserMetadata(ctx, sess, UpdateUserMetadataInput{FirstName: "A", LastName: "B", Phone: "1"}),
		"profile":         svc.GetCurrentUserProfile(ctx, sess),
		"permissions":     svc.GetUserPermissions(ctx, sess),
	}

	for name, res := range results {
		t.Run(name, func(t *testing.T) {
			require.NotNil(t, res.Error)
			assert.Equal(t, identity.CodeUnauthorized, res.Error.Code)
			assert.Equal(t, http.StatusUnauthorized, res.HTTPStatus())
		})
	}
}

func TestUpdateUserMetadataRefreshesSessionNames(t *testing.T) {
	id := &fakeIdentity{}
	sess := &fakeSession{user: signedIn()}

	res := New(id, nil).UpdateUserMetadata(context.Background(), sess, UpdateUserMetadataInput{
		FirstName: "Anabel",
		LastName:  "Ruiz",
		Phone:     "555",
		AvatarURL: "https://cdn.example.com/a.png",
	})

	require.True(t, res.Success)
	assert.Equal(t, "Anabel", sess.user.FirstName)
	assert.Equal(t, "Ruiz", sess.user.LastName)
	assert.Equal(t, "https://cdn.example.com/a.png", id.metadata.AvatarURL)
	assert.Equal(t, []string{"access"}, id.tokens)
}

func TestUpdateUserMetadataRejectsBadAvatar(t *testing.T) {
	res := New(&fakeIdentity{}, nil).UpdateUserMetadata(context.Background(), &fakeSession{user: signedIn()}, UpdateUserMetadataInput{
		FirstName: "A", LastName: "B", Phone: "1", AvatarURL: "not a url",
	})

	require.NotNil(t, res.Error)
	assert.Equal(t, "Invalid URL", res.Error.Fields["avatar_url"])
}

func TestUpdateCompleteProfile(t *testing.T) {
	valid := UpdateCompleteProfileInput{
		FirstName:                "Ana",
		LastName:                 "Diaz",
		Phone:                    "555",
		AvatarURL:                "https://cdn.example.com/a.png",
		Timezone:                 "America/Mexico_City",
		Language:                 "es",
		DateOfBirth:              "1990-04-12",
		Gender:                   "F",
		EmergencyContactName:     "Luis",
		EmergencyContactPhone:    "556",
		EmergencyContactRelation: "brother",
		InsuranceInfo:            InsuranceInfoInput{Provider: "ACME", PolicyNumber: "P-1"},
		PreferredLanguage:        "es",
	}

	t.Run("valid", func(t *testing.T) {
		id := &fakeIdentity{}

		res := New(id, nil).UpdateCompleteProfile(context.Background(), &fakeSession{user: signedIn()}, valid)

		require.True(t, res.Success)
		assert.Equal(t, "ACME", id.complete.InsuranceInfo.Provider)
		assert.NotNil(t, id.complete.Allergies)
		assert.NotNil(t, id.complete.MedicalHistory.Surgeries)
	})

	t.Run("invalid fields", func(t *testing.T) {
		in := valid
		in.Gender = "X"
		in.DateOfBirth = "12/04/1990"
		in.InsuranceInfo.Provider = ""

		res := New(&fakeIdentity{}, nil).UpdateCompleteProfile(context.Background(), &fakeSession{user: signedIn()}, in)

		require.NotNil(t, res.Error)
		assert.Equal(t, identity.CodeValidationError, res.Error.Code)
		assert.Contains(t, res.Error.Fields, "gender")
		assert.Contains(t, res.Error.Fields, "date_of_birth")
		assert.Contains(t, res.Error.Fields, "insurance_info.provider")
	})
}

func TestRecoverPassword(t *testing.T) {
	res := New(&fakeIdentity{}, nil).RecoverPassword(context.Background(), RecoverPasswordInput{Email: "ana@example.com"})
	assert.True(t, res.Success)
	assert.Equal(t, MsgRecoverySent, res.Message)

	res = New(&fakeIdentity{}, nil).RecoverPassword(context.Background(), RecoverPasswordInput{})
	require.NotNil(t, res.Error)
	assert.Equal(t, "This field is required", res.Error.Fields["email"])
}

func TestGetCurrentUserProfile(t *testing.T) {
	id := &fakeIdentity{profile: &identity.Profile{ID: "u1", Role: "doctor"}}

	res := New(id, nil).GetCurrentUserProfile(context.Background(), &fakeSession{user: signedIn()})

	require.True(t, res.Success)
	assert.Equal(t, "doctor", res.Data.(*identity.Profile).Role)
	assert.Equal(t, []string{"access"}, id.tokens)
}
