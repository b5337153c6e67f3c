package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/opticare/opticare-portal/internal/logger/adapter/fiber"
	"github.com/opticare/opticare-portal/internal/logger"
)

type accessLine struct {
	IP        string `json:"ip"`
	Status    int    `json:"status"`
	URI       string `json:"uri"`
	Method    string `json:"method"`
	Host      string `json:"host"`
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
	Error     string `json:"error"`
}

func newTestApp(cfg adapter.Config) *fiber.App {
	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})

	app.Use(func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXRequestID, "req-1")
		c.Locals("uid", "user-1")

		return c.Next()
	})
	app.Use(adapter.New(cfg))

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("hello") })
	app.Get("/checkalive", func(c *fiber.Ctx) error { return c.SendString("OK") })
	app.Get("/boom", func(*fiber.Ctx) error { return errors.New("boom") })

	return app
}

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		disableAlive bool
		want         *accessLine
	}{
		{
			name:   "plain get",
			target: "/",
			want:   &accessLine{Status: 200, URI: "/", Method: fiber.MethodGet},
		},
		{
			name:   "raw uri with query is kept",
			target: "/?week=2025-01-06",
			want:   &accessLine{Status: 200, URI: "/?week=2025-01-06", Method: fiber.MethodGet},
		},
		{
			name:   "double slash is not normalised",
			target: "//dashboard",
			want:   &accessLine{Status: 404, URI: "//dashboard", Method: fiber.MethodGet},
		},
		{
			name:   "handler error is logged",
			target: "/boom",
			want:   &accessLine{Status: 500, URI: "/boom", Method: fiber.MethodGet, Error: "boom"},
		},
		{
			name:   "checkalive logged by default",
			target: "/checkalive",
			want:   &accessLine{Status: 200, URI: "/checkalive", Method: fiber.MethodGet},
		},
		{
			name:         "checkalive suppressed",
			target:       "/checkalive",
			disableAlive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			app := newTestApp(adapter.Config{
				Config:    logger.Log{DisableCheckAlive: tt.disableAlive},
				UserLocal: "uid",
				Output:    &out,
			})

			_, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.target, nil), -1)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, out.String())
				return
			}

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &got))

			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.Error, got.Error)
			assert.Equal(t, "example.com", got.Host)
			assert.Equal(t, "0.0.0.0", got.IP)
			assert.Equal(t, "req-1", got.RequestID)
			assert.Equal(t, "user-1", got.UserID)
		})
	}
}

func TestAccessLogWithoutWritersIsPassThrough(t *testing.T) {
	app := fiber.New()
	app.Use(adapter.New())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("hello") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Performance"))
}
