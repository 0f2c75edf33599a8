package shipping

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vitrine-commerce/vitrine-backend/pkg/enums"
)

// CEP is a normalized Brazilian postal code: exactly 8 ASCII digits.
type CEP string

// String implements fmt.Stringer.
func (c CEP) String() string {
	return string(c)
}

// CartItem is a normalized cart line. Both fields are strictly positive.
type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ProductRule is the per-product free-shipping configuration owned by the
// catalog. The engine never mutates it.
type ProductRule struct {
	ProductID    int64
	FreeShipping bool
	FreeFromQty  *int
	LeadTimeDays *int
}

// Location is a resolved postal-code destination.
type Location struct {
	State string `json:"state"`
	City  string `json:"city"`
}

// Locator resolves a postal code to a location. A nil location (with nil
// error) means the code could not be resolved; the engine turns that into a
// validation error and does not retry.
type Locator interface {
	Locate(ctx context.Context, cep CEP) (*Location, error)
}

// FreeItem records a cart line that qualified for free shipping.
type FreeItem struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// ZoneRef is the zone metadata attached to a quote for UI and debugging.
type ZoneRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
	City  string `json:"city"`
}

// Quote is the resolved output of the engine. It is built fresh on every
// call and has no persisted identity.
type Quote struct {
	Cep          CEP               `json:"cep"`
	Price        decimal.Decimal   `json:"price"`
	LeadTimeDays *int              `json:"lead_time_days,omitempty"`
	IsFree       bool              `json:"is_free"`
	AppliedRule  enums.AppliedRule `json:"applied_rule"`
	FreeItems    []FreeItem        `json:"free_items"`
	Zone         *ZoneRef          `json:"zone,omitempty"`
}

// baseQuote is the regional price/lead-time pair produced by the zone or
// range resolver before the product overlay is applied.
type baseQuote struct {
	price        decimal.Decimal
	leadTimeDays *int
	isFree       bool
	source       enums.AppliedRule
	zone         *ZoneRef
}
