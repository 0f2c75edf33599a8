package orders

import (
	"github.com/shopspring/decimal"
)

// CheckoutItem is one cart line in the checkout payload.
type CheckoutItem struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest is the public checkout payload. The shipping fields are
// accepted for wire compatibility with older clients but are never trusted;
// the rate engine recomputes them before the order is persisted.
type CheckoutRequest struct {
	CustomerName         string           `json:"customer_name" validate:"required"`
	CustomerEmail        string           `json:"customer_email" validate:"required,email"`
	Cep                  string           `json:"cep" validate:"required"`
	Items                []CheckoutItem   `json:"items" validate:"required,min=1,dive"`
	ShippingPrice        *decimal.Decimal `json:"shipping_price,omitempty"`
	ShippingIsFree       *bool            `json:"shipping_is_free,omitempty"`
	ShippingLeadTimeDays *int             `json:"shipping_lead_time_days,omitempty"`
}
