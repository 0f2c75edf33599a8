package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DeliveryZone is an admin-configured shipping rule scoped to a state and
// optionally narrowed to specific cities. Cities is only meaningful when
// AllCities is false.
type DeliveryZone struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string          `gorm:"column:name;not null;uniqueIndex"`
	State        string          `gorm:"column:state;type:char(2);not null"`
	AllCities    bool            `gorm:"column:all_cities;not null;default:false"`
	Cities       pq.StringArray  `gorm:"column:cities;type:text[]"`
	IsFree       bool            `gorm:"column:is_free;not null;default:false"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	LeadTimeDays *int            `gorm:"column:lead_time_days"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
