package geo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vitrine-commerce/vitrine-backend/internal/shipping"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
	"github.com/vitrine-commerce/vitrine-backend/pkg/redis"
	"github.com/vitrine-commerce/vitrine-backend/pkg/viacep"
)

const defaultCacheTTL = 24 * time.Hour

type resolver interface {
	Lookup(ctx context.Context, cep string) (*viacep.Address, error)
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GeoKey(cep string) string
}

// Service resolves postal codes to locations, fronting the ViaCEP API with
// a Redis cache. It satisfies the locator contract of the shipping engine:
// an unresolvable code, including any provider failure, comes back as a nil
// location rather than an error.
type Service struct {
	resolver resolver
	cache    cache
	ttl      time.Duration
	log      *logger.Logger
}

// NewService builds the geocoding service. The cache is optional; without
// one every lookup goes to the provider.
func NewService(res resolver, geoCache cache, ttl time.Duration, log *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{
		resolver: res,
		cache:    geoCache,
		ttl:      ttl,
		log:      log,
	}
}

// Locate resolves the postal code to its state and city. Only successful
// resolutions are cached; unknown codes are re-queried so a provider-side
// fix becomes visible without waiting out a TTL.
func (s *Service) Locate(ctx context.Context, cep shipping.CEP) (*shipping.Location, error) {
	code := cep.String()
	ctx = s.log.WithCEP(ctx, code)

	if loc := s.fromCache(ctx, code); loc != nil {
		return loc, nil
	}

	addr, err := s.resolver.Lookup(ctx, code)
	if err != nil {
		s.log.Error(ctx, "geocoding lookup failed", err)
		return nil, nil
	}
	if addr == nil || addr.State == "" {
		return nil, nil
	}

	loc := &shipping.Location{State: addr.State, City: addr.City}
	s.store(ctx, code, loc)
	return loc, nil
}

func (s *Service) fromCache(ctx context.Context, code string) *shipping.Location {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.GeoKey(code))
	if err != nil {
		if !redis.IsMiss(err) {
			s.log.Warn(ctx, "geocoding cache read failed")
		}
		return nil
	}
	var loc shipping.Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		s.log.Warn(ctx, "geocoding cache entry malformed")
		return nil
	}
	if loc.State == "" {
		return nil
	}
	return &loc
}

func (s *Service) store(ctx context.Context, code string, loc *shipping.Location) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.GeoKey(code), string(payload), s.ttl); err != nil {
		s.log.Warn(ctx, "geocoding cache write failed")
	}
}
