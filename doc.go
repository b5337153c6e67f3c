// Package main provides the entry point of the OptiCare portal.
// It runs a Fiber web server that signs users in against an external
// identity provider, keeps their session and permissions, guards every
// route by role and permission, and renders the clinic dashboard,
// specialists, weekly schedules and profile pages.
package main
