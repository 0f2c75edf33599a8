package zones

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/vitrine-commerce/vitrine-backend/internal/shipping"
	"github.com/vitrine-commerce/vitrine-backend/pkg/db"
	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
)

type repository interface {
	CreateZone(ctx context.Context, zone *models.DeliveryZone) (*models.DeliveryZone, error)
	FindZone(ctx context.Context, id int64) (*models.DeliveryZone, error)
	SaveZone(ctx context.Context, zone *models.DeliveryZone) (*models.DeliveryZone, error)
	ListZones(ctx context.Context) ([]models.DeliveryZone, error)
	CreateRange(ctx context.Context, cepRange *models.CepRange) (*models.CepRange, error)
	FindRange(ctx context.Context, id int64) (*models.CepRange, error)
	SaveRange(ctx context.Context, cepRange *models.CepRange) (*models.CepRange, error)
	ListRanges(ctx context.Context) ([]models.CepRange, error)
}

// Service is the admin surface for delivery zones and CEP ranges. Writes
// here become visible to the shipping engine on its next read; there is no
// cache to invalidate.
type Service struct {
	repo repository
	log  *logger.Logger
}

// NewService builds the admin zone/range service.
func NewService(repo repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) CreateZone(ctx context.Context, payload ZonePayload) (*models.DeliveryZone, error) {
	if err := payload.validate(); err != nil {
		return nil, err
	}
	zone, err := s.repo.CreateZone(ctx, zoneFromPayload(&models.DeliveryZone{}, payload))
	if err != nil {
		return nil, writeError(err, "create delivery zone")
	}
	s.log.Info(s.log.WithField(ctx, "zone_id", zone.ID), "delivery zone created")
	return zone, nil
}

func (s *Service) UpdateZone(ctx context.Context, id int64, payload ZonePayload) (*models.DeliveryZone, error) {
	if err := payload.validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindZone(ctx, id)
	if err != nil {
		return nil, err
	}
	zone, err := s.repo.SaveZone(ctx, zoneFromPayload(existing, payload))
	if err != nil {
		return nil, writeError(err, "update delivery zone")
	}
	return zone, nil
}

// DeactivateZone retires the zone without deleting it; existing orders keep
// their zone reference.
func (s *Service) DeactivateZone(ctx context.Context, id int64) error {
	zone, err := s.repo.FindZone(ctx, id)
	if err != nil {
		return err
	}
	zone.IsActive = false
	if _, err := s.repo.SaveZone(ctx, zone); err != nil {
		return writeError(err, "deactivate delivery zone")
	}
	return nil
}

func (s *Service) ListZones(ctx context.Context) ([]models.DeliveryZone, error) {
	zones, err := s.repo.ListZones(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list delivery zones")
	}
	return zones, nil
}

func (s *Service) CreateRange(ctx context.Context, payload RangePayload) (*models.CepRange, error) {
	start, end, err := payload.validate()
	if err != nil {
		return nil, err
	}
	cepRange, err := s.repo.CreateRange(ctx, rangeFromPayload(&models.CepRange{}, payload, start, end))
	if err != nil {
		return nil, writeError(err, "create cep range")
	}
	s.log.Info(s.log.WithField(ctx, "range_id", cepRange.ID), "cep range created")
	return cepRange, nil
}

func (s *Service) UpdateRange(ctx context.Context, id int64, payload RangePayload) (*models.CepRange, error) {
	start, end, err := payload.validate()
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindRange(ctx, id)
	if err != nil {
		return nil, err
	}
	cepRange, err := s.repo.SaveRange(ctx, rangeFromPayload(existing, payload, start, end))
	if err != nil {
		return nil, writeError(err, "update cep range")
	}
	return cepRange, nil
}

func (s *Service) DeactivateRange(ctx context.Context, id int64) error {
	cepRange, err := s.repo.FindRange(ctx, id)
	if err != nil {
		return err
	}
	cepRange.IsActive = false
	if _, err := s.repo.SaveRange(ctx, cepRange); err != nil {
		return writeError(err, "deactivate cep range")
	}
	return nil
}

func (s *Service) ListRanges(ctx context.Context) ([]models.CepRange, error) {
	ranges, err := s.repo.ListRanges(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cep ranges")
	}
	return ranges, nil
}

func zoneFromPayload(zone *models.DeliveryZone, payload ZonePayload) *models.DeliveryZone {
	zone.Name = strings.TrimSpace(payload.Name)
	zone.State = strings.ToUpper(strings.TrimSpace(payload.State))
	zone.AllCities = payload.AllCities
	zone.Cities = pq.StringArray(payload.trimmedCities())
	if payload.AllCities {
		zone.Cities = nil
	}
	zone.IsFree = payload.IsFree
	zone.Price = payload.Price
	if payload.IsFree {
		zone.Price = decimal.Zero
	}
	zone.LeadTimeDays = payload.LeadTimeDays
	zone.IsActive = true
	return zone
}

func rangeFromPayload(cepRange *models.CepRange, payload RangePayload, start, end shipping.CEP) *models.CepRange {
	cepRange.Name = strings.TrimSpace(payload.Name)
	cepRange.CepStart = start.String()
	cepRange.CepEnd = end.String()
	cepRange.Price = payload.Price
	cepRange.LeadTimeDays = payload.LeadTimeDays
	cepRange.IsActive = true
	return cepRange
}

func writeError(err error, action string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, action+": name already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
