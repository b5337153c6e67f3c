package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opticare/opticare-portal/internal/logger"
)

func TestInitErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logger.Log
		wantErr error
	}{
		{
			name: "unknown level",
			cfg:  logger.Log{LogLevel: "loud", ServiceName: "s", AppName: "a"},
		},
		{
			name:    "missing service name",
			cfg:     logger.Log{LogLevel: "info", AppName: "a"},
			wantErr: logger.ErrServiceNameIsEmpty,
		},
		{
			name:    "missing app name",
			cfg:     logger.Log{LogLevel: "info", ServiceName: "s"},
			wantErr: logger.ErrAppNameIsEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logger.Init(tt.cfg)
			require.Error(t, err)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestInitConsole(t *testing.T) {
	tests := []struct {
		name       string
		cfg        logger.Log
		wantOutput bool
		wantJSON   bool
	}{
		{
			name:       "no writer enabled",
			cfg:        logger.Log{LogLevel: "info", ServiceName: "portal", AppName: "opticare"},
			wantOutput: false,
		},
		{
			name: "console writer",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "portal", AppName: "opticare",
				Console: logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			wantOutput: true,
		},
		{
			name: "json lines",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "portal", AppName: "opticare",
				Console: logger.Console{Enabled: true},
			},
			wantOutput: true,
			wantJSON:   true,
		},
		{
			name: "json lines trace with caller",
			cfg: logger.Log{
				LogLevel: "trace", ServiceName: "portal", AppName: "opticare", ReportCaller: true,
				Console: logger.Console{Enabled: true},
			},
			wantOutput: true,
			wantJSON:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureInit(t, tt.cfg)

			if !tt.wantOutput {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if !tt.wantJSON {
				return
			}

			for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
				var entry struct {
					Level   string `json:"level"`
					App     string `json:"app"`
					Message string `json:"message"`
				}

				require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
				assert.Equal(t, "opticare", entry.App)
				assert.NotEmpty(t, entry.Message)
			}
		})
	}
}

func TestLevelWriterRouting(t *testing.T) {
	var errBuf, infoBuf, traceBuf, warnBuf bytes.Buffer

	lw := &logger.LevelWriter{
		ErrorWriter: &errBuf,
		InfoWriter:  &infoBuf,
		TraceWriter: &traceBuf,
		WarnWriter:  &warnBuf,
	}

	tests := []struct {
		level zerolog.Level
		want  *bytes.Buffer
	}{
		{zerolog.TraceLevel, &traceBuf},
		{zerolog.DebugLevel, &infoBuf},
		{zerolog.InfoLevel, &infoBuf},
		{zerolog.WarnLevel, &warnBuf},
		{zerolog.ErrorLevel, &errBuf},
		{zerolog.FatalLevel, &errBuf},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			for _, b := range []*bytes.Buffer{&errBuf, &infoBuf, &traceBuf, &warnBuf} {
				b.Reset()
			}

			n, err := lw.WriteLevel(tt.level, []byte("x"))
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, "x", tt.want.String())
		})
	}

	n, err := lw.WriteLevel(zerolog.Disabled, []byte("x"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func captureInit(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	defer func() { os.Stdout, os.Stderr = stdout, stderr }()

	require.NoError(t, logger.Init(cfg))

	log.Info().Msg("patient list loaded")
	log.Error().Err(errors.New("identity service down")).Msg("refresh failed")

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()

	return <-outC
}
