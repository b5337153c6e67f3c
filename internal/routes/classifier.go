// Package routes classifies request paths into public, auth-only,
// protected and permission restricted routes.
package routes

import (
	"cmp"
	"maps"
	"slices"
	"strings"
)

// landing is the page a role is sent to after sign in.
var landing = map[string]string{ //nolint:gochecknoglobals
	"super_admin":  DefaultLandingPath,
	"admin":        DefaultLandingPath,
	"doctor":       DefaultLandingPath,
	"nurse":        DefaultLandingPath,
	"patient":      DefaultLandingPath,
	"receptionist": "/appointment",
	"coordinator":  "/appointment",
	"technician":   "/appointment",
}

// Classification is the result of Classify.
type Classification struct {
	Path                string
	IsPublic            bool
	IsAuthOnly          bool
	IsProtected         bool
	RequiredPermissions []string
}

// RequiresAuth reports whether an anonymous visitor has to sign in first.
// A path with required permissions needs a user even if it is missing
// from the protected list.
func (c Classification) RequiresAuth() bool {
	return c.IsProtected || len(c.RequiredPermissions) > 0
}

// Classifier answers route questions for one immutable Table.
type Classifier struct {
	table Table
	// restricted keys, longest first
	restrictedKeys []string
}

// NewClassifier copies t. Later changes to t have no effect.
func NewClassifier(t Table) *Classifier {
	c := &Classifier{table: t.clone()}

	c.restrictedKeys = slices.SortedFunc(maps.Keys(c.table.Restricted), func(a, b string) int {
		if n := cmp.Compare(len(b), len(a)); n != 0 {
			return n
		}

		return strings.Compare(a, b)
	})

	return c
}

// Table returns a copy of the classifier table.
func (c *Classifier) Table() Table {
	return c.table.clone()
}

// Normalize strips a trailing slash, an empty path becomes "/".
func Normalize(path string) string {
	if path == "" {
		return "/"
	}

	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}

	return path
}

func matchPattern(path, pattern string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}

	pattern = Normalize(pattern)

	if path == pattern {
		return true
	}

	if pattern == "/" {
		return false
	}

	return strings.HasPrefix(path, pattern+"/")
}

func matchAny(path string, patterns []string) bool {
	path = Normalize(path)

	return slices.ContainsFunc(patterns, func(p string) bool { return matchPattern(path, p) })
}

// IsPublic reports whether path needs no user.
func (c *Classifier) IsPublic(path string) bool {
	return matchAny(path, c.table.Public)
}

// IsAuthOnly reports whether path is a sign in page that signed in users skip.
func (c *Classifier) IsAuthOnly(path string) bool {
	return matchAny(path, c.table.Auth)
}

// IsProtected reports whether path is in the protected list.
func (c *Classifier) IsProtected(path string) bool {
	return matchAny(path, c.table.Protected)
}

// RequiredPermissions returns the permissions of which a user needs at
// least one. Exact entries win, otherwise the longest matching entry.
// An empty result means any signed in user may pass.
func (c *Classifier) RequiredPermissions(path string) []string {
	path = Normalize(path)

	if perms, ok := c.table.Restricted[path]; ok {
		return slices.Clone(perms)
	}

	for _, key := range c.restrictedKeys {
		if matchPattern(path, key) {
			return slices.Clone(c.table.Restricted[key])
		}
	}

	return []string{}
}

// CanAccess reports whether perms satisfy the requirement of path.
func (c *Classifier) CanAccess(perms []string, path string) bool {
	required := c.RequiredPermissions(path)
	if len(required) == 0 {
		return true
	}

	return slices.ContainsFunc(required, func(p string) bool { return slices.Contains(perms, p) })
}

// Authorize is CanAccess with the super admin bypass.
func (c *Classifier) Authorize(role string, perms []string, path string) bool {
	if role == RoleSuperAdmin {
		return true
	}

	return c.CanAccess(perms, path)
}

// Classify computes every class of path at once.
func (c *Classifier) Classify(path string) Classification {
	path = Normalize(path)

	return Classification{
		Path:                path,
		IsPublic:            c.IsPublic(path),
		IsAuthOnly:          c.IsAuthOnly(path),
		IsProtected:         c.IsProtected(path),
		RequiredPermissions: c.RequiredPermissions(path),
	}
}

// LandingPath returns the page role lands on after sign in.
func LandingPath(role string) string {
	if p, ok := landing[role]; ok {
		return p
	}

	return DefaultLandingPath
}

// AvailableRoutes lists the protected and restricted entries perms can open,
// protected entries first, restricted ones sorted.
func (c *Classifier) AvailableRoutes(perms []string) []string {
	restricted := slices.Sorted(maps.Keys(c.table.Restricted))

	var out []string

	for _, route := range slices.Concat(c.table.Protected, restricted) {
		if !slices.Contains(out, route) && c.CanAccess(perms, route) {
			out = append(out, route)
		}
	}

	return out
}

// SafeRedirect returns target if it is a local path, fallback otherwise.
func SafeRedirect(target, fallback string) string {
	if target == "" ||
		!strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") ||
		strings.HasPrefix(target, "/\\") ||
		strings.ContainsAny(target, "\r\n") {
		return fallback
	}

	return target
}
