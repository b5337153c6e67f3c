// Package web assembles the fiber application of the portal: middleware,
// templates, static files and the page handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/actions"
	"github.com/opticare/opticare-portal/internal/config"
	fiberlog "github.com/opticare/opticare-portal/internal/logger/adapter/fiber"
	"github.com/opticare/opticare-portal/internal/schedule"
	"github.com/opticare/opticare-portal/internal/web/handler"
	"github.com/opticare/opticare-portal/internal/web/handler/action"
	"github.com/opticare/opticare-portal/internal/web/handler/appointment"
	"github.com/opticare/opticare-portal/internal/web/handler/dashboard"
	"github.com/opticare/opticare-portal/internal/web/handler/doctors"
	"github.com/opticare/opticare-portal/internal/web/handler/login"
	"github.com/opticare/opticare-portal/internal/web/handler/logout"
	"github.com/opticare/opticare-portal/internal/web/handler/pages"
	"github.com/opticare/opticare-portal/internal/web/handler/password"
	"github.com/opticare/opticare-portal/internal/web/handler/profile"
	"github.com/opticare/opticare-portal/internal/web/handler/register"
	"github.com/opticare/opticare-portal/internal/web/handler/settings/general"
	"github.com/opticare/opticare-portal/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	// StaticPath serves the embedded static files.
	StaticPath = "/static"

	// ErrorTemplateName is rendered by the error handler.
	ErrorTemplateName = "errors/error"

	// CSRFCookieName is the cookie of the csrf middleware.
	CSRFCookieName = "opticare_csrf"

	// CSRFFormField is the hidden form field carrying the csrf token.
	CSRFFormField = "_csrf"

	// CSRFLocal names the template local holding the csrf token.
	CSRFLocal = "CSRFToken"

	actionsPrefix = "/_actions/"
)

// ErrNilTokens is returned by New without a token service.
var ErrNilTokens = errors.New("token service is nil")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for an interrupt and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers 200 while the service is alive and 503 while it
// shuts down.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// newTemplateEngine returns the embedded templates, or the files on disk
// with reloading in dev mode.
func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("join", strings.Join)
	templateEngine.AddFunc("dayName", schedule.DayName)
	templateEngine.AddFunc("date", func(t time.Time, layout string) string {
		return t.Format(layout)
	})
	templateEngine.AddFunc("fieldError", func(fields map[string]string, name string) string {
		return fields[name]
	})

	return templateEngine
}

// isJSONRequest reports whether the client should get a JSON error.
func isJSONRequest(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), actionsPrefix) ||
		c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

// errorHandler renders errors without internal details, as an action
// result for JSON clients and as the error page otherwise.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Int("status", code).Msg("request failed")
	}

	if isJSONRequest(c) {
		return c.Status(code).JSON(actions.FromStatus(code))
	}

	layout := handler.PublicLayout
	if auth.CurrentUser(c) != nil {
		layout = handler.BaseLayout
	}

	renderErr := c.Status(code).Render(ErrorTemplateName, fiber.Map{
		"Status":     code,
		"Message":    utils.StatusMessage(code),
		"Navigation": handler.Navigation(c, utils.StatusMessage(code), "", ""),
	}, layout)
	if renderErr != nil {
		log.Error().Err(renderErr).Msg("can not render error page")

		return c.Status(code).SendString(utils.StatusMessage(code))
	}

	return nil
}

// csrfToken reads the token from the header of JSON clients or from the
// hidden form field.
func csrfToken(c *fiber.Ctx) (string, error) {
	if token, err := csrf.CsrfFromHeader(csrf.HeaderName)(c); err == nil {
		return token, nil
	}

	return csrf.CsrfFromForm(CSRFFormField)(c) //nolint:wrapcheck
}

func skipAuth(c *fiber.Ctx) bool {
	p := c.Path()

	return strings.HasPrefix(p, StaticPath+"/") || p == MetricsPath || p == CheckAlivePath
}

// New creates the web service. deps must be complete, tokens refreshes
// expiring sessions. storage keeps the csrf tokens, nil keeps them in memory.
func New(cfg *config.Config, deps *handler.Deps, tokens auth.TokenService, storage fiber.Storage) (*Service, error) {
	if cfg == nil || deps == nil || deps.DB == nil || deps.Actions == nil ||
		deps.Sessions == nil || deps.Routes == nil {
		return nil, handler.ErrNilDeps
	}

	if tokens == nil {
		return nil, ErrNilTokens
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:    8192,
			AppName:           cfg.Title,
			CaseSensitive:     true,
			Prefork:           false,
			Immutable:         true,
			Views:             newTemplateEngine(cfg),
			PassLocalsToViews: true,
			ErrorHandler:      errorHandler,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
	}

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	app.Use(fiberlog.New(fiberlog.Config{
		Config:    cfg.Log,
		UserLocal: auth.LocalUserID,
	}))

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{
			Key:    cfg.Webserver.CookieEncryptionKey,
			Except: []string{CSRFCookieName},
		}))
	}

	// serve embedded static files
	app.Use(StaticPath,
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     false,
			},
		),
	)

	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(auth.New(auth.Config{
		Sessions: deps.Sessions,
		Identity: tokens,
		Routes:   deps.Routes,
		Skip:     skipAuth,
	}))

	app.Use(csrf.New(csrf.Config{
		CookieName:     CSRFCookieName,
		CookieSecure:   !cfg.DevMode,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		Expiration:     cfg.Webserver.Session.ExpiryTime,
		KeyGenerator:   uuid.NewString,
		Storage:        storage,
		ContextKey:     CSRFLocal,
		Extractor:      csrfToken,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Warn().Err(err).Str("path", c.Path()).Msg("csrf check failed")

			return fiber.ErrForbidden
		},
	}))

	handlers := []handler.Service{
		&pages.Handler,
		&login.Handler,
		&register.Handler,
		&password.Handler,
		&logout.Handler,
		&action.Handler,
		&dashboard.Handler,
		&profile.Handler,
		&doctors.Handler,
		&appointment.Handler,
		&general.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, deps); err != nil {
			return nil, err
		}
	}

	return service, nil
}
