// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	// EnvConfigJSON names the environment variable holding a JSON config override.
	EnvConfigJSON = "OPTICARE_PORTAL_CONFIG_JSON"

	defaultShutDownTime    = 5
	defaultIdentityTimeout = 15 * time.Second
	defaultSessionExpiry   = 24 * time.Hour
	defaultSessionTable    = "sessions"
	defaultProfileRPC      = "get_current_user_profile"
	defaultPermissionsRPC  = "debug_user_permissions"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)
	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	t := toml.NewEncoder(&buffer)
	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the portal can not start without and fills defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Identity.BaseURL == "" {
		return errors.Wrap(ErrEmptyIdentityURL, invalidErrMessage)
	}

	if c.Identity.APIKey == "" {
		return errors.Wrap(ErrEmptyIdentityAPIKey, invalidErrMessage)
	}

	switch c.DB.Engine {
	case "":
		c.DB.Engine = EngineSQLite
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownDBEngine, invalidErrMessage)
	}

	switch c.Webserver.Session.Storage {
	case "":
		c.Webserver.Session.Storage = SessionStorageMemory
	case SessionStorageMemory, SessionStorageMySQL, SessionStoragePostgres, SessionStorageRedis:
	default:
		return errors.Wrap(ErrUnknownSessionStorage, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.Session.Table == "" {
		c.Webserver.Session.Table = defaultSessionTable
	}

	if c.Identity.Timeout == 0 {
		c.Identity.Timeout = defaultIdentityTimeout
	}

	if c.Identity.ProfileRPC == "" {
		c.Identity.ProfileRPC = defaultProfileRPC
	}

	if c.Identity.PermissionsRPC == "" {
		c.Identity.PermissionsRPC = defaultPermissionsRPC
	}

	return nil
}
