package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/vitrine-commerce/vitrine-backend/api/responses"
	"github.com/vitrine-commerce/vitrine-backend/api/validators"
	"github.com/vitrine-commerce/vitrine-backend/internal/shipping"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
)

type quoteRequest struct {
	Cep string `json:"cep" validate:"required"`
	// Items stays raw so the engine can apply its alias normalization to
	// whatever shape the storefront sends.
	Items json.RawMessage `json:"items" validate:"required"`
}

// ShippingQuote previews the shipping price for a destination and cart.
func ShippingQuote(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithCEP(r.Context(), payload.Cep)
		quote, err := svc.Quote(ctx, payload.Cep, string(payload.Items))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
