package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")
	// ErrEmptyIdentityURL error if config identity.baseURL is empty.
	ErrEmptyIdentityURL = errors.New("toml config identity.baseURL can not be empty")
	// ErrEmptyIdentityAPIKey error if config identity.apiKey is empty.
	ErrEmptyIdentityAPIKey = errors.New("toml config identity.apiKey can not be empty")
	// ErrUnknownDBEngine error if config db.engine is not one of mysql, postgres or sqlite.
	ErrUnknownDBEngine = errors.New("toml config db.engine must be mysql, postgres or sqlite")
	// ErrUnknownSessionStorage error if config webserver.session.storage is not supported.
	ErrUnknownSessionStorage = errors.New("toml config webserver.session.storage must be memory, mysql, postgres or redis")
)
