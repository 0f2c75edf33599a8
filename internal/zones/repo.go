package zones

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
)

// Repository is the write side of the regional reference data the shipping
// engine reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateZone(ctx context.Context, zone *models.DeliveryZone) (*models.DeliveryZone, error) {
	if err := r.db.WithContext(ctx).Create(zone).Error; err != nil {
		return nil, err
	}
	return zone, nil
}

func (r *Repository) FindZone(ctx context.Context, id int64) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery zone not found")
		}
		return nil, err
	}
	return &zone, nil
}

func (r *Repository) SaveZone(ctx context.Context, zone *models.DeliveryZone) (*models.DeliveryZone, error) {
	if err := r.db.WithContext(ctx).Save(zone).Error; err != nil {
		return nil, err
	}
	return zone, nil
}

// ListZones returns every zone, retired ones included, newest first.
func (r *Repository) ListZones(ctx context.Context) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *Repository) CreateRange(ctx context.Context, cepRange *models.CepRange) (*models.CepRange, error) {
	if err := r.db.WithContext(ctx).Create(cepRange).Error; err != nil {
		return nil, err
	}
	return cepRange, nil
}

func (r *Repository) FindRange(ctx context.Context, id int64) (*models.CepRange, error) {
	var cepRange models.CepRange
	if err := r.db.WithContext(ctx).First(&cepRange, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cep range not found")
		}
		return nil, err
	}
	return &cepRange, nil
}

func (r *Repository) SaveRange(ctx context.Context, cepRange *models.CepRange) (*models.CepRange, error) {
	if err := r.db.WithContext(ctx).Save(cepRange).Error; err != nil {
		return nil, err
	}
	return cepRange, nil
}

func (r *Repository) ListRanges(ctx context.Context) ([]models.CepRange, error) {
	var ranges []models.CepRange
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&ranges).Error
	if err != nil {
		return nil, err
	}
	return ranges, nil
}
