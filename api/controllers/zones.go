package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vitrine-commerce/vitrine-backend/api/responses"
	"github.com/vitrine-commerce/vitrine-backend/api/validators"
	"github.com/vitrine-commerce/vitrine-backend/internal/zones"
	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
)

func AdminListZones(svc *zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listed, err := svc.ListZones(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newZoneResponses(listed))
	}
}

func AdminCreateZone(svc *zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload zones.ZonePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zone, err := svc.CreateZone(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newZoneResponse(zone))
	}
}

func AdminUpdateZone(svc *zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload zones.ZonePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zone, err := svc.UpdateZone(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newZoneResponse(zone))
	}
}

func AdminDeactivateZone(svc *zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateZone(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").
			WithDetails(map[string]any{param: raw})
	}
	return id, nil
}

type zoneResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	State        string          `json:"state"`
	AllCities    bool            `json:"all_cities"`
	Cities       []string        `json:"cities"`
	IsFree       bool            `json:"is_free"`
	Price        decimal.Decimal `json:"price"`
	LeadTimeDays *int            `json:"lead_time_days,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newZoneResponse(zone *models.DeliveryZone) zoneResponse {
	return zoneResponse{
		ID:           zone.ID,
		Name:         zone.Name,
		State:        zone.State,
		AllCities:    zone.AllCities,
		Cities:       []string(zone.Cities),
		IsFree:       zone.IsFree,
		Price:        zone.Price,
		LeadTimeDays: zone.LeadTimeDays,
		IsActive:     zone.IsActive,
		CreatedAt:    zone.CreatedAt,
	}
}

func newZoneResponses(listed []models.DeliveryZone) []zoneResponse {
	out := make([]zoneResponse, 0, len(listed))
	for i := range listed {
		out = append(out, newZoneResponse(&listed[i]))
	}
	return out
}
