// Package handler holds what the page handlers share: their
// dependencies, layouts and rendering helpers.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/opticare/opticare-portal/internal/actions"
	"github.com/opticare/opticare-portal/internal/config"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web/session"
)

// ErrNilDeps is returned by Init when app or deps are missing.
var ErrNilDeps = errors.New(ErrNilACDFatalLogMsg)

// Deps are the dependencies handed to every handler.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions session.Provider
	Actions  *actions.Service
	Routes   *routes.Classifier
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

// Check returns ErrNilDeps unless app and the named parts of deps are set.
func Check(app *fiber.App, deps *Deps, needDB, needActions bool) error {
	switch {
	case app == nil || deps == nil || deps.Config == nil:
		return ErrNilDeps
	case needDB && deps.DB == nil:
		return ErrNilDeps
	case needActions && (deps.Actions == nil || deps.Sessions == nil):
		return ErrNilDeps
	}

	return nil
}
