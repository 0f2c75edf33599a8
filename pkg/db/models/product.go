package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog listing together with its shipping rule
// configuration. The shipping engine reads FreeShipping, FreeFromQty and
// LeadTimeDays; it never writes them.
type Product struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	SKU          string          `gorm:"column:sku;not null;uniqueIndex"`
	Name         string          `gorm:"column:name;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	FreeShipping bool            `gorm:"column:free_shipping;not null;default:false"`
	FreeFromQty  *int            `gorm:"column:free_from_qty"`
	LeadTimeDays *int            `gorm:"column:lead_time_days"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
