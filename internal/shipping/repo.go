package shipping

import (
	"context"

	"gorm.io/gorm"

	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
)

// Repository reads the regional reference data (zones and ranges) the
// engine resolves against. Product rules come from the catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds the engine's read-only reference data store.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ActiveZonesByState(ctx context.Context, state string) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	err := r.db.WithContext(ctx).
		Where("state = ? AND is_active = ?", state, true).
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *Repository) ActiveRangesContaining(ctx context.Context, cep CEP) ([]models.CepRange, error) {
	var ranges []models.CepRange
	err := r.db.WithContext(ctx).
		Where("cep_start <= ? AND cep_end >= ? AND is_active = ?", cep.String(), cep.String(), true).
		Find(&ranges).Error
	if err != nil {
		return nil, err
	}
	return ranges, nil
}
