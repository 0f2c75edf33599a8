package zones

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
)

type stubRepo struct {
	zones     map[int64]*models.DeliveryZone
	ranges    map[int64]*models.CepRange
	createErr error
	nextID    int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		zones:  map[int64]*models.DeliveryZone{},
		ranges: map[int64]*models.CepRange{},
		nextID: 1,
	}
}

func (s *stubRepo) CreateZone(_ context.Context, zone *models.DeliveryZone) (*models.DeliveryZone, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	zone.ID = s.nextID
	s.nextID++
	s.zones[zone.ID] = zone
	return zone, nil
}

func (s *stubRepo) FindZone(_ context.Context, id int64) (*models.DeliveryZone, error) {
	zone, ok := s.zones[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery zone not found")
	}
	copied := *zone
	return &copied, nil
}

func (s *stubRepo) SaveZone(_ context.Context, zone *models.DeliveryZone) (*models.DeliveryZone, error) {
	s.zones[zone.ID] = zone
	return zone, nil
}

func (s *stubRepo) ListZones(_ context.Context) ([]models.DeliveryZone, error) {
	out := make([]models.DeliveryZone, 0, len(s.zones))
	for _, zone := range s.zones {
		out = append(out, *zone)
	}
	return out, nil
}

func (s *stubRepo) CreateRange(_ context.Context, cepRange *models.CepRange) (*models.CepRange, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	cepRange.ID = s.nextID
	s.nextID++
	s.ranges[cepRange.ID] = cepRange
	return cepRange, nil
}

func (s *stubRepo) FindRange(_ context.Context, id int64) (*models.CepRange, error) {
	cepRange, ok := s.ranges[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cep range not found")
	}
	copied := *cepRange
	return &copied, nil
}

func (s *stubRepo) SaveRange(_ context.Context, cepRange *models.CepRange) (*models.CepRange, error) {
	s.ranges[cepRange.ID] = cepRange
	return cepRange, nil
}

func (s *stubRepo) ListRanges(_ context.Context) ([]models.CepRange, error) {
	out := make([]models.CepRange, 0, len(s.ranges))
	for _, cepRange := range s.ranges {
		out = append(out, *cepRange)
	}
	return out, nil
}

func newZoneService(repo repository) *Service {
	return NewService(repo, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func validZonePayload() ZonePayload {
	return ZonePayload{
		Name:   "bh-capital",
		State:  "mg",
		Cities: []string{" Belo Horizonte "},
		Price:  decimal.NewFromFloat(12),
	}
}

func TestCreateZoneNormalizesFields(t *testing.T) {
	repo := newStubRepo()
	svc := newZoneService(repo)

	zone, err := svc.CreateZone(context.Background(), validZonePayload())
	if err != nil {
		t.Fatalf("CreateZone: %v", err)
	}
	if zone.State != "MG" {
		t.Fatalf("expected uppercased state, got %q", zone.State)
	}
	if len(zone.Cities) != 1 || zone.Cities[0] != "Belo Horizonte" {
		t.Fatalf("expected trimmed cities, got %v", zone.Cities)
	}
	if !zone.IsActive {
		t.Fatal("new zones must be active")
	}
}

func TestCreateZoneFreeForcesZeroPrice(t *testing.T) {
	svc := newZoneService(newStubRepo())

	payload := validZonePayload()
	payload.IsFree = true
	zone, err := svc.CreateZone(context.Background(), payload)
	if err != nil {
		t.Fatalf("CreateZone: %v", err)
	}
	if !zone.Price.IsZero() {
		t.Fatalf("free zones must store a zero price, got %s", zone.Price)
	}
}

func TestCreateZoneAggregatesValidationFailures(t *testing.T) {
	svc := newZoneService(newStubRepo())

	payload := ZonePayload{
		State: "XX",
		Price: decimal.NewFromFloat(-1),
	}
	_, err := svc.CreateZone(context.Background(), payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	fields, _ := details["errors"].([]string)
	if len(fields) != 4 {
		t.Fatalf("expected 4 aggregated failures (name, state, cities, price), got %v", fields)
	}
}

func TestCreateZoneLeadTimeBounds(t *testing.T) {
	svc := newZoneService(newStubRepo())

	// Zero means same-day dispatch and is a valid configuration.
	payload := validZonePayload()
	zero := 0
	payload.LeadTimeDays = &zero
	zone, err := svc.CreateZone(context.Background(), payload)
	if err != nil {
		t.Fatalf("CreateZone with zero lead time: %v", err)
	}
	if zone.LeadTimeDays == nil || *zone.LeadTimeDays != 0 {
		t.Fatalf("expected zero lead time stored, got %v", zone.LeadTimeDays)
	}

	payload = validZonePayload()
	negative := -1
	payload.LeadTimeDays = &negative
	_, err = svc.CreateZone(context.Background(), payload)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION for negative lead time, got %v", err)
	}
}

func TestCreateZoneUniqueNameConflict(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = errors.New(`ERROR: duplicate key value violates unique constraint "delivery_zones_name_key"`)
	svc := newZoneService(repo)

	_, err := svc.CreateZone(context.Background(), validZonePayload())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestUpdateZoneUnknownIDIsNotFound(t *testing.T) {
	svc := newZoneService(newStubRepo())

	_, err := svc.UpdateZone(context.Background(), 99, validZonePayload())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeactivateZone(t *testing.T) {
	repo := newStubRepo()
	svc := newZoneService(repo)

	zone, err := svc.CreateZone(context.Background(), validZonePayload())
	if err != nil {
		t.Fatalf("CreateZone: %v", err)
	}
	if err := svc.DeactivateZone(context.Background(), zone.ID); err != nil {
		t.Fatalf("DeactivateZone: %v", err)
	}
	if repo.zones[zone.ID].IsActive {
		t.Fatal("zone should be inactive")
	}
}

func TestCreateRangeNormalizesBounds(t *testing.T) {
	svc := newZoneService(newStubRepo())

	cepRange, err := svc.CreateRange(context.Background(), RangePayload{
		Name:     "bh-metro",
		CepStart: "30.000-000",
		CepEnd:   "31999-999",
		Price:    decimal.NewFromFloat(25.5),
	})
	if err != nil {
		t.Fatalf("CreateRange: %v", err)
	}
	if cepRange.CepStart != "30000000" || cepRange.CepEnd != "31999999" {
		t.Fatalf("expected normalized bounds, got %s..%s", cepRange.CepStart, cepRange.CepEnd)
	}
}

func TestCreateRangeRejectsInvertedBounds(t *testing.T) {
	svc := newZoneService(newStubRepo())

	_, err := svc.CreateRange(context.Background(), RangePayload{
		Name:     "inverted",
		CepStart: "32000000",
		CepEnd:   "30000000",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
}

func TestCreateRangeRejectsMalformedBounds(t *testing.T) {
	svc := newZoneService(newStubRepo())

	_, err := svc.CreateRange(context.Background(), RangePayload{
		Name:     "short",
		CepStart: "300",
		CepEnd:   "31999999",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
}

func TestDeactivateRange(t *testing.T) {
	repo := newStubRepo()
	svc := newZoneService(repo)

	cepRange, err := svc.CreateRange(context.Background(), RangePayload{
		Name:     "bh-metro",
		CepStart: "30000000",
		CepEnd:   "31999999",
	})
	if err != nil {
		t.Fatalf("CreateRange: %v", err)
	}
	if err := svc.DeactivateRange(context.Background(), cepRange.ID); err != nil {
		t.Fatalf("DeactivateRange: %v", err)
	}
	if repo.ranges[cepRange.ID].IsActive {
		t.Fatal("range should be inactive")
	}
}
