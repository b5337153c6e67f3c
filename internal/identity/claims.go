package identity

import (
	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry reads the exp claim of an access token without verifying it.
// The token was just issued by the provider, the claim is only used when the
// response carries neither expires_at nor expires_in.
func tokenExpiry(accessToken string) (int64, bool) {
	if accessToken == "" {
		return 0, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return 0, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}

	return exp.Unix(), true
}
