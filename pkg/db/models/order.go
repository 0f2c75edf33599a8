package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrine-commerce/vitrine-backend/pkg/enums"
	"github.com/vitrine-commerce/vitrine-backend/pkg/types"
)

// Order persists a checkout. Shipping fields are always copied from the
// rate engine output, never from the client payload.
type Order struct {
	ID                   uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName         string                  `gorm:"column:customer_name;not null"`
	CustomerEmail        string                  `gorm:"column:customer_email;not null"`
	Cep                  string                  `gorm:"column:cep;type:char(8);not null"`
	Status               enums.OrderStatus       `gorm:"column:status;type:text;not null;default:'pending'"`
	Subtotal             decimal.Decimal         `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingPrice        decimal.Decimal         `gorm:"column:shipping_price;type:numeric(10,2);not null"`
	ShippingIsFree       bool                    `gorm:"column:shipping_is_free;not null;default:false"`
	ShippingLeadTimeDays *int                    `gorm:"column:shipping_lead_time_days"`
	ShippingRule         enums.AppliedRule       `gorm:"column:shipping_rule;type:text;not null"`
	ShippingFreeItems    types.FreeShippingItems `gorm:"column:shipping_free_items;type:jsonb;serializer:json"`
	DeliveryZoneID       *int64                  `gorm:"column:delivery_zone_id"`
	Total                decimal.Decimal         `gorm:"column:total;type:numeric(12,2);not null"`
	Items                []OrderItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
