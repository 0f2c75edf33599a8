package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrine-commerce/vitrine-backend/api/responses"
	"github.com/vitrine-commerce/vitrine-backend/api/validators"
	"github.com/vitrine-commerce/vitrine-backend/internal/orders"
	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	"github.com/vitrine-commerce/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
	"github.com/vitrine-commerce/vitrine-backend/pkg/types"
)

// Checkout places an order. The shipping figures in the response come from
// the rate engine, never from the request.
func Checkout(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload orders.CheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

type orderItemResponse struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID                   uuid.UUID               `json:"id"`
	CustomerName         string                  `json:"customer_name"`
	CustomerEmail        string                  `json:"customer_email"`
	Cep                  string                  `json:"cep"`
	Status               enums.OrderStatus       `json:"status"`
	Subtotal             decimal.Decimal         `json:"subtotal"`
	ShippingPrice        decimal.Decimal         `json:"shipping_price"`
	ShippingIsFree       bool                    `json:"shipping_is_free"`
	ShippingLeadTimeDays *int                    `json:"shipping_lead_time_days,omitempty"`
	ShippingRule         enums.AppliedRule       `json:"shipping_rule"`
	ShippingFreeItems    types.FreeShippingItems `json:"shipping_free_items"`
	DeliveryZoneID       *int64                  `json:"delivery_zone_id,omitempty"`
	Total                decimal.Decimal         `json:"total"`
	Items                []orderItemResponse     `json:"items"`
	CreatedAt            time.Time               `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return orderResponse{
		ID:                   order.ID,
		CustomerName:         order.CustomerName,
		CustomerEmail:        order.CustomerEmail,
		Cep:                  order.Cep,
		Status:               order.Status,
		Subtotal:             order.Subtotal,
		ShippingPrice:        order.ShippingPrice,
		ShippingIsFree:       order.ShippingIsFree,
		ShippingLeadTimeDays: order.ShippingLeadTimeDays,
		ShippingRule:         order.ShippingRule,
		ShippingFreeItems:    order.ShippingFreeItems,
		DeliveryZoneID:       order.DeliveryZoneID,
		Total:                order.Total,
		Items:                items,
		CreatedAt:            order.CreatedAt,
	}
}
