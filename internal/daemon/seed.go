package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/opticare/opticare-portal/internal/db/controller/catalog"
	"github.com/opticare/opticare-portal/internal/db/controller/clinic"
)

// seed loads the catalog fixtures into an empty database and stores the
// default clinic settings on first start.
func seed(db *gorm.DB) error {
	seeded, err := catalog.Seed(db)
	if err != nil {
		return err
	}

	if !seeded {
		return nil
	}

	log.Info().Msg("catalog seeded with fixtures")

	settings, err := clinic.Load(db)
	if err != nil {
		return err
	}

	return settings.Save(db)
}
