package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitrine-commerce/vitrine-backend/api/responses"
	"github.com/vitrine-commerce/vitrine-backend/api/validators"
	"github.com/vitrine-commerce/vitrine-backend/internal/zones"
	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
)

func AdminListRanges(svc *zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listed, err := svc.ListRanges(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRangeResponses(listed))
	}
}

func AdminCreateRange(svc *zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload zones.RangePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cepRange, err := svc.CreateRange(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newRangeResponse(cepRange))
	}
}

func AdminUpdateRange(svc *zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "rangeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload zones.RangePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cepRange, err := svc.UpdateRange(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRangeResponse(cepRange))
	}
}

func AdminDeactivateRange(svc *zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "rangeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateRange(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

type rangeResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	CepStart     string          `json:"cep_start"`
	CepEnd       string          `json:"cep_end"`
	Price        decimal.Decimal `json:"price"`
	LeadTimeDays *int            `json:"lead_time_days,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newRangeResponse(cepRange *models.CepRange) rangeResponse {
	return rangeResponse{
		ID:           cepRange.ID,
		Name:         cepRange.Name,
		CepStart:     cepRange.CepStart,
		CepEnd:       cepRange.CepEnd,
		Price:        cepRange.Price,
		LeadTimeDays: cepRange.LeadTimeDays,
		IsActive:     cepRange.IsActive,
		CreatedAt:    cepRange.CreatedAt,
	}
}

func newRangeResponses(listed []models.CepRange) []rangeResponse {
	out := make([]rangeResponse, 0, len(listed))
	for i := range listed {
		out = append(out, newRangeResponse(&listed[i]))
	}
	return out
}
