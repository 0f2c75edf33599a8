package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
	"github.com/vitrine-commerce/vitrine-backend/pkg/metrics"
)

type ruleSource interface {
	ShippingRulesByProductIDs(ctx context.Context, ids []int64) (map[int64]ProductRule, error)
}

type zoneSource interface {
	ActiveZonesByState(ctx context.Context, state string) ([]models.DeliveryZone, error)
}

type rangeSource interface {
	ActiveRangesContaining(ctx context.Context, cep CEP) ([]models.CepRange, error)
}

// Service resolves shipping quotes. It is stateless and safe for concurrent
// use; every invocation reads the reference data afresh and tolerates
// eventual staleness of the configuration tables.
type Service interface {
	Quote(ctx context.Context, rawCep string, rawItems any) (*Quote, error)
}

type service struct {
	rules   ruleSource
	zones   zoneSource
	ranges  rangeSource
	locator Locator
	metrics *metrics.QuoteMetrics
}

// NewService builds the rate resolution engine.
func NewService(rules ruleSource, zones zoneSource, ranges rangeSource, locator Locator, quoteMetrics *metrics.QuoteMetrics) (Service, error) {
	if rules == nil {
		return nil, fmt.Errorf("product rule source required")
	}
	if zones == nil {
		return nil, fmt.Errorf("zone source required")
	}
	if ranges == nil {
		return nil, fmt.Errorf("range source required")
	}
	if locator == nil {
		return nil, fmt.Errorf("locator required")
	}
	return &service{
		rules:   rules,
		zones:   zones,
		ranges:  ranges,
		locator: locator,
		metrics: quoteMetrics,
	}, nil
}

// Quote normalizes the inputs and resolves price, lead time and the applied
// rule for the destination. Identical inputs over unchanged reference data
// produce a structurally identical quote, which is what lets checkout
// re-derive the price the preview already showed.
func (s *service) Quote(ctx context.Context, rawCep string, rawItems any) (*Quote, error) {
	started := time.Now()
	quote, err := s.resolve(ctx, rawCep, rawItems)
	if err != nil {
		s.metrics.IncFailed(string(pkgerrors.As(err).Code()))
		return nil, err
	}
	s.metrics.ObserveResolved(string(quote.AppliedRule), time.Since(started))
	return quote, nil
}

func (s *service) resolve(ctx context.Context, rawCep string, rawItems any) (*Quote, error) {
	cep, err := NormalizeCEP(rawCep)
	if err != nil {
		return nil, err
	}

	items := NormalizeCartItems(rawItems)
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty or malformed")
	}

	rules, err := s.rules.ShippingRulesByProductIDs(ctx, productIDs(items))
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product shipping rules")
	}

	eval, err := evaluateItems(items, rules)
	if err != nil {
		return nil, err
	}

	loc, err := s.locator.Locate(ctx, cep)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cep location")
	}
	if loc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cep could not be resolved to a location").
			WithDetails(map[string]any{"cep": cep.String()})
	}

	base, err := s.resolveBase(ctx, cep, *loc)
	if err != nil {
		return nil, err
	}

	return consolidate(cep, *base, eval), nil
}

func (s *service) resolveBase(ctx context.Context, cep CEP, loc Location) (*baseQuote, error) {
	zones, err := s.zones.ActiveZonesByState(ctx, loc.State)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery zones")
	}
	if base := resolveZone(zones, loc); base != nil {
		return base, nil
	}

	ranges, err := s.ranges.ActiveRangesContaining(ctx, cep)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cep ranges")
	}
	if base := resolveRange(ranges, cep); base != nil {
		return base, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no delivery coverage for this cep").
		WithDetails(map[string]any{"cep": cep.String()})
}

func productIDs(items []CartItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
