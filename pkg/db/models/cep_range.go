package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CepRange is a fallback shipping rule covering a closed interval of
// zero-padded 8-digit postal codes. CepStart <= CepEnd lexicographically.
type CepRange struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string          `gorm:"column:name;not null;uniqueIndex"`
	CepStart     string          `gorm:"column:cep_start;type:char(8);not null"`
	CepEnd       string          `gorm:"column:cep_end;type:char(8);not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	LeadTimeDays *int            `gorm:"column:lead_time_days"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
