// Package identity is the HTTP client of the external identity provider.
//
// It performs the sign up, sign in, token refresh, sign out and password
// exchanges plus the two RPC calls that return the profile and the
// permission set of the signed in user. Every failure is returned as an
// *AuthError carrying one of the Code values; the client never retries.
//
//	c := identity.New(identity.Config{BaseURL: url, APIKey: key})
//	sess, err := c.Login(ctx, identity.LoginRequest{Email: e, Password: p})
//	if err != nil {
//	    ae := identity.AsAuthError(err)
//	    ...
//	}
package identity
