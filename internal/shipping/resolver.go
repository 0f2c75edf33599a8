package shipping

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	"github.com/vitrine-commerce/vitrine-backend/pkg/enums"
)

// Reference rows are ordered here, not in SQL: the most recently created
// entry is authoritative, with the id as the tiebreaker.
func sortZonesNewestFirst(zones []models.DeliveryZone) {
	sort.SliceStable(zones, func(i, j int) bool {
		if !zones[i].CreatedAt.Equal(zones[j].CreatedAt) {
			return zones[i].CreatedAt.After(zones[j].CreatedAt)
		}
		return zones[i].ID > zones[j].ID
	})
}

func sortRangesNewestFirst(ranges []models.CepRange) {
	sort.SliceStable(ranges, func(i, j int) bool {
		if !ranges[i].CreatedAt.Equal(ranges[j].CreatedAt) {
			return ranges[i].CreatedAt.After(ranges[j].CreatedAt)
		}
		return ranges[i].ID > ranges[j].ID
	})
}

// resolveZone picks the zone for the destination, city-specific zones first,
// then a state-wide catch-all. A nil result means no zone applies and the
// caller falls through to the range resolver.
func resolveZone(zones []models.DeliveryZone, loc Location) *baseQuote {
	sortZonesNewestFirst(zones)

	requested := strings.TrimSpace(loc.City)
	for _, zone := range zones {
		if zone.AllCities {
			continue
		}
		if zoneHasCity(zone, requested) {
			return zoneQuote(zone, loc)
		}
	}
	for _, zone := range zones {
		if zone.AllCities {
			return zoneQuote(zone, loc)
		}
	}
	return nil
}

func zoneHasCity(zone models.DeliveryZone, requested string) bool {
	for _, city := range zone.Cities {
		if strings.EqualFold(strings.TrimSpace(city), requested) {
			return true
		}
	}
	return false
}

func zoneQuote(zone models.DeliveryZone, loc Location) *baseQuote {
	price := zone.Price
	if zone.IsFree {
		price = decimal.Zero
	}
	return &baseQuote{
		price:        price,
		leadTimeDays: zone.LeadTimeDays,
		isFree:       zone.IsFree,
		source:       enums.AppliedRuleZone,
		zone: &ZoneRef{
			ID:    zone.ID,
			Name:  zone.Name,
			State: zone.State,
			City:  loc.City,
		},
	}
}

// resolveRange picks the most recently created active range covering the
// postal code. Ranges are closed intervals compared lexicographically over
// the zero-padded 8-digit space.
func resolveRange(ranges []models.CepRange, cep CEP) *baseQuote {
	sortRangesNewestFirst(ranges)

	code := cep.String()
	for _, r := range ranges {
		if r.CepStart <= code && code <= r.CepEnd {
			return &baseQuote{
				price:        r.Price,
				leadTimeDays: r.LeadTimeDays,
				isFree:       r.Price.IsZero(),
				source:       enums.AppliedRuleCepRange,
				zone:         nil,
			}
		}
	}
	return nil
}

// consolidate overlays the product free-shipping evaluation on the regional
// base quote. A per-product free-shipping promise always beats the regional
// price; lead times merge conservatively so the slower source wins.
func consolidate(cep CEP, base baseQuote, eval itemEvaluation) *Quote {
	quote := &Quote{
		Cep:          cep,
		Price:        base.price,
		LeadTimeDays: maxLeadTime(base.leadTimeDays, eval.maxLeadTimeDays),
		IsFree:       base.isFree,
		AppliedRule:  base.source,
		FreeItems:    []FreeItem{},
		Zone:         base.zone,
	}
	if len(eval.freeItems) > 0 {
		quote.Price = decimal.Zero
		quote.IsFree = true
		quote.AppliedRule = enums.AppliedRuleProductFree
		quote.FreeItems = eval.freeItems
	}
	return quote
}
