package shipping

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitrine-commerce/vitrine-backend/pkg/db/models"
	"github.com/vitrine-commerce/vitrine-backend/pkg/enums"
)

func TestResolveZonePrefersCitySpecificMatch(t *testing.T) {
	now := time.Now()
	zones := []models.DeliveryZone{
		{ID: 1, Name: "MG capital", State: "MG", Cities: []string{"belo horizonte"}, Price: decimal.NewFromFloat(12), CreatedAt: now.Add(-time.Hour)},
		{ID: 2, Name: "MG interior", State: "MG", AllCities: true, Price: decimal.NewFromFloat(30), CreatedAt: now},
	}

	base := resolveZone(zones, Location{State: "MG", City: "Belo Horizonte"})
	if base == nil {
		t.Fatal("expected a zone match")
	}
	if base.zone.ID != 1 {
		t.Fatalf("expected city-specific zone 1, got %d", base.zone.ID)
	}
	if base.zone.City != "Belo Horizonte" {
		t.Fatalf("expected requested city on zone ref, got %q", base.zone.City)
	}
	if !base.price.Equal(decimal.NewFromFloat(12)) {
		t.Fatalf("unexpected price %s", base.price)
	}
	if base.source != enums.AppliedRuleZone {
		t.Fatalf("unexpected source %s", base.source)
	}
}

func TestResolveZoneCityMatchIsCaseInsensitiveAndTrimmed(t *testing.T) {
	zones := []models.DeliveryZone{
		{ID: 1, State: "SP", Cities: []string{"  SÃO PAULO  "}, Price: decimal.NewFromFloat(9)},
	}
	base := resolveZone(zones, Location{State: "SP", City: "são paulo"})
	if base == nil {
		t.Fatal("expected city match regardless of case and padding")
	}
}

func TestResolveZoneNewestCityZoneWins(t *testing.T) {
	now := time.Now()
	zones := []models.DeliveryZone{
		{ID: 1, Name: "old", State: "MG", Cities: []string{"uberaba"}, Price: decimal.NewFromFloat(20), CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, Name: "new", State: "MG", Cities: []string{"uberaba"}, Price: decimal.NewFromFloat(15), CreatedAt: now},
	}
	base := resolveZone(zones, Location{State: "MG", City: "Uberaba"})
	if base == nil || base.zone.ID != 2 {
		t.Fatalf("expected newest zone to win, got %+v", base)
	}
}

func TestResolveZoneFallsBackToAllCities(t *testing.T) {
	zones := []models.DeliveryZone{
		{ID: 1, State: "MG", Cities: []string{"uberaba"}, Price: decimal.NewFromFloat(20)},
		{ID: 2, State: "MG", AllCities: true, IsFree: true, Price: decimal.NewFromFloat(5)},
	}
	base := resolveZone(zones, Location{State: "MG", City: "Montes Claros"})
	if base == nil || base.zone.ID != 2 {
		t.Fatalf("expected all-cities zone, got %+v", base)
	}
	if !base.isFree {
		t.Fatal("expected free zone quote")
	}
	if !base.price.IsZero() {
		t.Fatalf("free zone must price at zero, got %s", base.price)
	}
}

func TestResolveZoneNoMatchYieldsNil(t *testing.T) {
	zones := []models.DeliveryZone{
		{ID: 1, State: "MG", Cities: []string{"uberaba"}},
	}
	if base := resolveZone(zones, Location{State: "MG", City: "Ipatinga"}); base != nil {
		t.Fatalf("expected nil, got %+v", base)
	}
	if base := resolveZone(nil, Location{State: "RS", City: "Pelotas"}); base != nil {
		t.Fatalf("expected nil for empty zone list, got %+v", base)
	}
}

func TestResolveRangeContainment(t *testing.T) {
	ranges := []models.CepRange{
		{ID: 1, CepStart: "30000000", CepEnd: "31999999", Price: decimal.NewFromFloat(25.5), LeadTimeDays: intPtr(4)},
	}

	base := resolveRange(ranges, "30140071")
	if base == nil {
		t.Fatal("expected range match")
	}
	if base.source != enums.AppliedRuleCepRange {
		t.Fatalf("unexpected source %s", base.source)
	}
	if base.zone != nil {
		t.Fatal("range quotes carry no zone")
	}
	if !base.price.Equal(decimal.NewFromFloat(25.5)) {
		t.Fatalf("unexpected price %s", base.price)
	}

	if got := resolveRange(ranges, "29999999"); got != nil {
		t.Fatalf("cep below interval should not match, got %+v", got)
	}
	if got := resolveRange(ranges, "32000000"); got != nil {
		t.Fatalf("cep above interval should not match, got %+v", got)
	}
	// closed interval: both endpoints match
	if got := resolveRange(ranges, "30000000"); got == nil {
		t.Fatal("start endpoint should match")
	}
	if got := resolveRange(ranges, "31999999"); got == nil {
		t.Fatal("end endpoint should match")
	}
}

func TestResolveRangeNewestWins(t *testing.T) {
	now := time.Now()
	ranges := []models.CepRange{
		{ID: 1, CepStart: "30000000", CepEnd: "39999999", Price: decimal.NewFromFloat(30), CreatedAt: now.Add(-time.Hour)},
		{ID: 2, CepStart: "30000000", CepEnd: "31999999", Price: decimal.NewFromFloat(18), CreatedAt: now},
	}
	base := resolveRange(ranges, "30140071")
	if base == nil || !base.price.Equal(decimal.NewFromFloat(18)) {
		t.Fatalf("expected newest range to win, got %+v", base)
	}
}

func TestResolveRangeZeroPriceIsFree(t *testing.T) {
	ranges := []models.CepRange{
		{ID: 1, CepStart: "80000000", CepEnd: "80999999", Price: decimal.Zero},
	}
	base := resolveRange(ranges, "80010010")
	if base == nil || !base.isFree {
		t.Fatalf("zero-priced range should be free, got %+v", base)
	}
}

func TestConsolidateProductFreeOverridesRegionalPrice(t *testing.T) {
	base := baseQuote{
		price:        decimal.NewFromFloat(12),
		leadTimeDays: intPtr(2),
		source:       enums.AppliedRuleZone,
		zone:         &ZoneRef{ID: 1, State: "MG", City: "Belo Horizonte"},
	}
	eval := itemEvaluation{
		freeItems:       []FreeItem{{ProductID: 1, Quantity: 1, Reason: "ALWAYS"}},
		maxLeadTimeDays: intPtr(3),
	}

	quote := consolidate("30140071", base, eval)
	if !quote.Price.IsZero() {
		t.Fatalf("expected zero price, got %s", quote.Price)
	}
	if !quote.IsFree {
		t.Fatal("expected free quote")
	}
	if quote.AppliedRule != enums.AppliedRuleProductFree {
		t.Fatalf("expected PRODUCT_FREE, got %s", quote.AppliedRule)
	}
	if len(quote.FreeItems) != 1 {
		t.Fatalf("expected free items to be attached, got %+v", quote.FreeItems)
	}
	if quote.Zone == nil || quote.Zone.ID != 1 {
		t.Fatal("zone metadata should survive the product override")
	}
	if quote.LeadTimeDays == nil || *quote.LeadTimeDays != 3 {
		t.Fatalf("expected merged lead time 3, got %v", quote.LeadTimeDays)
	}
}

func TestConsolidateWithoutFreeItemsKeepsBase(t *testing.T) {
	base := baseQuote{
		price:        decimal.NewFromFloat(25.5),
		leadTimeDays: intPtr(4),
		source:       enums.AppliedRuleCepRange,
	}
	eval := itemEvaluation{maxLeadTimeDays: intPtr(7)}

	quote := consolidate("30140071", base, eval)
	if !quote.Price.Equal(decimal.NewFromFloat(25.5)) {
		t.Fatalf("unexpected price %s", quote.Price)
	}
	if quote.IsFree {
		t.Fatal("expected paid quote")
	}
	if quote.AppliedRule != enums.AppliedRuleCepRange {
		t.Fatalf("expected CEP_RANGE, got %s", quote.AppliedRule)
	}
	if len(quote.FreeItems) != 0 {
		t.Fatalf("expected empty free items, got %+v", quote.FreeItems)
	}
	if quote.LeadTimeDays == nil || *quote.LeadTimeDays != 7 {
		t.Fatalf("expected merged lead time 7, got %v", quote.LeadTimeDays)
	}
}

func TestConsolidateLeadTimeNullIdentity(t *testing.T) {
	quote := consolidate("30140071", baseQuote{source: enums.AppliedRuleZone}, itemEvaluation{})
	if quote.LeadTimeDays != nil {
		t.Fatalf("expected undefined lead time, got %v", quote.LeadTimeDays)
	}

	quote = consolidate("30140071", baseQuote{source: enums.AppliedRuleZone, leadTimeDays: intPtr(5)}, itemEvaluation{})
	if quote.LeadTimeDays == nil || *quote.LeadTimeDays != 5 {
		t.Fatalf("expected base lead time 5, got %v", quote.LeadTimeDays)
	}
}
