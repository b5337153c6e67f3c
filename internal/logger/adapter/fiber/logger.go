// Package fiber provides a zerolog based access log middleware for fiber.
package fiber

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/logger"
)

// Config of the access log middleware.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError max-age caching on chain errors.
	CacheControlError string

	// CheckAliveURI is not logged if Config.DisableCheckAlive is set.
	CheckAliveURI string

	// UserLocal names the fiber local holding the signed in user id, if any.
	UserLocal string

	// Output replaces the configured writers. Used in tests.
	Output io.Writer
}

// ConfigDefault is the default config.
var ConfigDefault = Config{ //nolint:gochecknoglobals
	CacheControlError: "max-age=0",
	CheckAliveURI:     "/checkalive",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	if cfg.CheckAliveURI == "" {
		cfg.CheckAliveURI = ConfigDefault.CheckAliveURI
	}

	return cfg
}

// accessWriters collects the access log targets enabled by cfg.
func accessWriters(cfg Config) []io.Writer {
	if cfg.Output != nil {
		return []io.Writer{cfg.Output}
	}

	var writers []io.Writer

	if cfg.Config.File.Enabled {
		if err := os.MkdirAll(cfg.Config.File.Path, 0o750); err != nil { //nolint: mnd
			log.Error().Err(err).Str("path", cfg.Config.File.Path).Msg("can't create log directory")
		} else {
			writers = append(writers, logger.NewRollingFile(cfg.Config.File.Path, cfg.Config.File.Access()))
		}
	}

	if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		if cfg.Config.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	return writers
}

// New creates the access log middleware.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	writers := accessWriters(cfg)
	if len(writers) == 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	accessLog := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if errH := c.App().ErrorHandler(c, chainErr); errH != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
				c.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		logRequest(accessLog, cfg, c, start, chainErr)

		return nil
	}
}

func logRequest(l zerolog.Logger, cfg Config, c *fiber.Ctx, start time.Time, chainErr error) {
	elapsed := time.Since(start).Seconds()
	c.Response().Header.Set("X-Performance", strconv.FormatFloat(elapsed, 'f', 6, 64))

	// fasthttp normalises c.Path(), the raw request URI keeps what the client sent.
	uri := string(c.Request().RequestURI())
	if cfg.Config.DisableCheckAlive && c.Path() == cfg.CheckAliveURI {
		return
	}

	ev := l.Log().
		Str("ip", c.IP()).
		Int("status", c.Response().StatusCode()).
		Float64("latency", elapsed).
		Str("uri", uri).
		Str("method", c.Method()).
		Str("host", c.Hostname()).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("user_agent", c.Get(fiber.HeaderUserAgent)).
		Str("referer", c.Get(fiber.HeaderReferer))

	if cfg.UserLocal != "" {
		if uid, ok := c.Locals(cfg.UserLocal).(string); ok && uid != "" {
			ev = ev.Str("user_id", uid)
		}
	}

	if chainErr != nil {
		ev = ev.Err(chainErr)
	}

	ev.Send()
}
