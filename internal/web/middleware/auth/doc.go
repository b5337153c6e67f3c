// Package auth is the request pipeline that authenticates and authorizes
// every page request.
//
// For each request the middleware:
//   - loads the signed in user from the session
//   - refreshes the tokens when they expire within the refresh buffer,
//     destroying the session if the provider refuses
//   - classifies the path with the route classifier
//   - redirects safe reads (GET, HEAD): signed in users away from the sign
//     in pages, anonymous users to the login page and users without the
//     required permission to the unauthorized page
//
// State changing requests are never redirected, their handlers check
// authorization themselves and answer with a structured error.
//
// Any unexpected failure destroys the session. Protected reads are then
// sent to the login page with error=session-error, everything else is
// forwarded anonymously.
//
// Usage:
//
//	app.Use(auth.New(auth.Config{
//	    Sessions: store,
//	    Identity: identityClient,
//	    Routes:   routes.NewClassifier(routes.DefaultTable()),
//	}))
package auth
