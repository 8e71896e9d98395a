package daemon

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

// seed creates the configured default organisation on an empty database.
func seed(cfg *config.Config, db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Organisation{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count organisations")
	}

	if count > 0 {
		return nil
	}

	org := models.Organisation{Slug: cfg.Organisation.Slug, Name: cfg.Organisation.Name}

	return errors.Wrap(db.Where(models.Organisation{Slug: org.Slug}).FirstOrCreate(&org).Error, "failed to seed organisation")
}
