package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/opticare/opticare-portal/internal/config"
)

const (
	gcInterval  = 10 * time.Minute
	redisPrefix = "opticare:session:"
)

// ErrUnknownStorage is returned for an unsupported session storage name.
var ErrUnknownStorage = errors.New("unknown session storage")

// NewStorage returns the session storage selected by the config.
// The memory backend is returned as nil, fiber falls back to its own
// in-memory storage then.
func NewStorage(cfg *config.Config) (fiber.Storage, error) {
	sc := cfg.Webserver.Session

	log.Info().Str("storage", sc.Storage).Msg("session storage")

	switch sc.Storage {
	case "", config.SessionStorageMemory:
		return nil, nil //nolint:nilnil

	case config.SessionStorageMySQL:
		return mysqlstorage.New(mysqlstorage.Config{
			Host:       cfg.DB.Host,
			Port:       cfg.DB.Port,
			Username:   cfg.DB.User,
			Password:   cfg.DB.Password,
			Database:   cfg.DB.Name,
			Table:      sc.Table,
			GCInterval: gcInterval,
		}), nil

	case config.SessionStoragePostgres:
		return postgresstorage.New(postgresstorage.Config{
			Host:       cfg.DB.Host,
			Port:       cfg.DB.Port,
			Username:   cfg.DB.User,
			Password:   cfg.DB.Password,
			Database:   cfg.DB.Name,
			Table:      sc.Table,
			GCInterval: gcInterval,
		}), nil

	case config.SessionStorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		return NewRedisStorage(client, redisPrefix), nil
	}

	return nil, errors.Wrap(ErrUnknownStorage, sc.Storage)
}
