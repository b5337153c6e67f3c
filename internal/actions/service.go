// Package actions implements the form and JSON actions of the portal:
// sign up, sign in, sign out, password recovery and profile updates.
//
// Actions never return errors. Every outcome is a Result carrying a
// stable code and a message that is safe to show to the user.
package actions

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/identity"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/session"
)

// Identity is the part of the identity client the actions use.
type Identity interface {
	Register(ctx context.Context, req identity.RegisterRequest) (*identity.AuthSession, error)
	Login(ctx context.Context, req identity.LoginRequest) (*identity.AuthSession, error)
	Logout(ctx context.Context, accessToken string) error
	RecoverPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, accessToken, password string) error
	UpdateUserMetadata(ctx context.Context, accessToken string, md identity.UserMetadata) (*identity.User, error)
	UpdateCompleteProfile(ctx context.Context, accessToken string, p identity.CompleteProfile) error
	FetchProfile(ctx context.Context, accessToken string) (*identity.Profile, error)
	FetchPermissions(ctx context.Context, accessToken string) (*identity.Permissions, error)
}

// Messages of successful actions.
const (
	MsgRegistered           = "Account created successfully"
	MsgConfirmEmail         = "Account created. Check your e-mail to confirm your account"
	MsgLoggedIn             = "Signed in successfully"
	MsgLoggedOut            = "Signed out successfully"
	MsgRecoverySent         = "If the address exists you will receive an e-mail with instructions"
	MsgPasswordUpdated      = "Password updated successfully"
	MsgProfileUpdated       = "Profile updated successfully"
	MsgCompleteProfileSaved = "Complete profile updated successfully"
)

// Service runs the actions against the identity provider.
type Service struct {
	identity Identity
	validate *validator.Validate
	limiter  *LoginLimiter
}

// New returns a Service. limiter may be nil.
func New(id Identity, limiter *LoginLimiter) *Service {
	return &Service{
		identity: id,
		validate: newValidator(),
		limiter:  limiter,
	}
}

// Register creates an account and signs the user in when the provider
// returns tokens right away.
func (s *Service) Register(ctx context.Context, sess session.Session, in RegisterInput) Result {
	if fields := check(s.validate, in); fields != nil {
		return invalid(fields)
	}

	as, err := s.identity.Register(ctx, identity.RegisterRequest{
		Email:    in.Email,
		Password: in.Password,
		Data: identity.UserMetadata{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Phone:     in.Phone,
		},
	})
	if err != nil {
		return s.failed("register", err)
	}

	if !as.HasTokens() {
		return ok(MsgConfirmEmail, map[string]any{"confirmation_required": true})
	}

	return s.signIn(ctx, sess, "register", as, in.Redirect, MsgRegistered)
}

// Login signs the user in and stores the session user.
func (s *Service) Login(ctx context.Context, sess session.Session, in LoginInput) Result {
	if fields := check(s.validate, in); fields != nil {
		return invalid(fields)
	}

	if !s.limiter.Allow(in.Email) {
		log.Warn().Str("action", "login").Msg("too many login attempts")

		return failCode(identity.CodeTooManyRequests, http.StatusTooManyRequests)
	}

	as, err := s.identity.Login(ctx, identity.LoginRequest{Email: in.Email, Password: in.Password})
	if err != nil {
		return s.failed("login", err)
	}

	return s.signIn(ctx, sess, "login", as, in.Redirect, MsgLoggedIn)
}

func (s *Service) signIn(ctx context.Context, sess session.Session, action string, as *identity.AuthSession, redirect, msg string) Result {
	perms, err := s.identity.FetchPermissions(ctx, as.AccessToken)
	if err != nil {
		return s.failed(action, err)
	}

	u := session.FromAuthSession(as, perms)

	if err = sess.SetUser(u); err != nil {
		log.Error().Err(err).Str("action", action).Msg("can not store session user")

		return failCode(identity.CodeServerError, http.StatusInternalServerError)
	}

	log.Info().Str("action", action).Str("user_id", u.ID).Str("role", u.Role).Msg("user signed in")

	return ok(msg, map[string]any{
		"redirect": routes.SafeRedirect(redirect, routes.LandingPath(u.Role)),
		"user": map[string]any{
			"id":         u.ID,
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"role":       u.Role,
		},
	})
}

// Logout signs the user out. It always succeeds and always clears the
// local session, a provider failure is only logged.
func (s *Service) Logout(ctx context.Context, sess session.Session) Result {
	u, err := sess.User()
	if err != nil {
		log.Warn().Err(err).Str("action", "logout").Msg("unreadable session user")
	}

	if u != nil && u.AccessToken != "" {
		if err = s.identity.Logout(ctx, u.AccessToken); err != nil {
			log.Warn().Err(err).Str("action", "logout").Str("user_id", u.ID).Msg("provider sign out failed")
		}
	}

	if err = sess.Destroy(); err != nil {
		log.Error().Err(err).Str("action", "logout").Msg("can not destroy session")
	}

	return ok(MsgLoggedOut, map[string]any{"redirect": routes.LoggedOutPath})
}

// RecoverPassword sends a recovery e-mail. The answer does not reveal
// whether the address exists.
func (s *Service) RecoverPassword(ctx context.Context, in RecoverPasswordInput) Result {
	if fields := check(s.validate, in); fields != nil {
		return invalid(fields)
	}

	if err := s.identity.RecoverPassword(ctx, in.Email); err != nil {
		return s.failed("recover_password", err)
	}

	return ok(MsgRecoverySent, nil)
}

// UpdatePassword changes the password of the signed in user.
func (s *Service) UpdatePassword(ctx context.Context, sess session.Session, in UpdatePasswordInput) Result {
	if fields := check(s.validate, in); fields != nil {
		return invalid(fields)
	}

	u, res := s.requireUser(sess)
	if u == nil {
		return res
	}

	if err := s.identity.UpdatePassword(ctx, u.AccessToken, in.Password); err != nil {
		return s.failed("update_password", err)
	}

	return ok(MsgPasswordUpdated, nil)
}

// UpdateUserMetadata updates the basic profile and the names kept in
// the session.
func (s *Service) UpdateUserMetadata(ctx context.Context, sess session.Session, in UpdateUserMetadataInput) Result {
	if fields := check(s.validate, in); fields != nil {
		return invalid(fields)
	}

	u, res := s.requireUser(sess)
	if u == nil {
		return res
	}

	updated, err := s.identity.UpdateUserMetadata(ctx, u.AccessToken, identity.UserMetadata{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		AvatarURL: in.AvatarURL,
	})
	if err != nil {
		return s.failed("update_user_metadata", err)
	}

	u.FirstName = in.FirstName
	u.LastName = in.LastName

	if err = sess.SetUser(u); err != nil {
		log.Error().Err(err).Str("action", "update_user_metadata").Msg("can not store session user")
	}

	return ok(MsgProfileUpdated, updated)
}

// UpdateCompleteProfile stores the extended profile.
func (s *Service) UpdateCompleteProfile(ctx context.Context, sess session.Session, in UpdateCompleteProfileInput) Result {
	if fields := check(s.validate, in); fields != nil {
		return invalid(fields)
	}

	u, res := s.requireUser(sess)
	if u == nil {
		return res
	}

	if err := s.identity.UpdateCompleteProfile(ctx, u.AccessToken, completeProfile(in)); err != nil {
		return s.failed("update_complete_profile", err)
	}

	return ok(MsgCompleteProfileSaved, nil)
}

// GetCurrentUserProfile returns the profile of the signed in user.
func (s *Service) GetCurrentUserProfile(ctx context.Context, sess session.Session) Result {
	u, res := s.requireUser(sess)
	if u == nil {
		return res
	}

	p, err := s.identity.FetchProfile(ctx, u.AccessToken)
	if err != nil {
		return s.failed("get_current_user_profile", err)
	}

	return ok("", p)
}

// GetUserPermissions returns the permission record of the signed in user.
func (s *Service) GetUserPermissions(ctx context.Context, sess session.Session) Result {
	u, res := s.requireUser(sess)
	if u == nil {
		return res
	}

	p, err := s.identity.FetchPermissions(ctx, u.AccessToken)
	if err != nil {
		return s.failed("get_user_permissions", err)
	}

	return ok("", p)
}

func (s *Service) requireUser(sess session.Session) (*session.User, Result) {
	u, err := sess.User()
	if err != nil {
		log.Warn().Err(err).Msg("unreadable session user")
	}

	if u == nil || u.AccessToken == "" {
		return nil, failCode(identity.CodeUnauthorized, http.StatusUnauthorized)
	}

	return u, Result{}
}

func (s *Service) failed(action string, err error) Result {
	r := fail(err)

	log.Warn().Err(err).Str("action", action).Str("code", string(r.Error.Code)).Msg("action failed")

	return r
}

func completeProfile(in UpdateCompleteProfileInput) identity.CompleteProfile {
	return identity.CompleteProfile{
		FirstName:                in.FirstName,
		LastName:                 in.LastName,
		Phone:                    in.Phone,
		AvatarURL:                in.AvatarURL,
		Timezone:                 in.Timezone,
		Language:                 in.Language,
		DateOfBirth:              in.DateOfBirth,
		Gender:                   in.Gender,
		EmergencyContactName:     in.EmergencyContactName,
		EmergencyContactPhone:    in.EmergencyContactPhone,
		EmergencyContactRelation: in.EmergencyContactRelation,
		Allergies:                nonNil(in.Allergies),
		CurrentMedications:       nonNil(in.CurrentMedications),
		MedicalHistory: identity.MedicalHistory{
			Conditions: nonNil(in.MedicalHistory.Conditions),
			Surgeries:  nonNil(in.MedicalHistory.Surgeries),
		},
		InsuranceInfo: identity.InsuranceInfo{
			Provider:     in.InsuranceInfo.Provider,
			PolicyNumber: in.InsuranceInfo.PolicyNumber,
		},
		PreferredLanguage: in.PreferredLanguage,
		Bio:               in.Bio,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
