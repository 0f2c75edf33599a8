package products

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vitrine-commerce/vitrine-backend/internal/shipping"
	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
)

// Repository is the read surface of the product catalog. The shipping
// engine and the checkout flow both depend on it; neither writes through
// it.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a single active product.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		First(&product, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

// ActiveByIDs loads the active products among the given ids, keyed by id.
// Missing or inactive ids are simply absent from the result.
func (r *Repository) ActiveByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	out := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// ShippingRulesByProductIDs projects the shipping rule configuration of
// the active products among the given ids.
func (r *Repository) ShippingRulesByProductIDs(ctx context.Context, ids []int64) (map[int64]shipping.ProductRule, error) {
	rows, err := r.ActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	rules := make(map[int64]shipping.ProductRule, len(rows))
	for id, row := range rows {
		rules[id] = shipping.ProductRule{
			ProductID:    row.ID,
			FreeShipping: row.FreeShipping,
			FreeFromQty:  row.FreeFromQty,
			LeadTimeDays: row.LeadTimeDays,
		}
	}
	return rules, nil
}
