package zones

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/vitrine-commerce/vitrine-backend/internal/shipping"
	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
)

// ZonePayload is the admin write shape for a delivery zone.
type ZonePayload struct {
	Name         string          `json:"name"`
	State        string          `json:"state"`
	AllCities    bool            `json:"all_cities"`
	Cities       []string        `json:"cities"`
	IsFree       bool            `json:"is_free"`
	Price        decimal.Decimal `json:"price"`
	LeadTimeDays *int            `json:"lead_time_days"`
}

// RangePayload is the admin write shape for a CEP range.
type RangePayload struct {
	Name         string          `json:"name"`
	CepStart     string          `json:"cep_start"`
	CepEnd       string          `json:"cep_end"`
	Price        decimal.Decimal `json:"price"`
	LeadTimeDays *int            `json:"lead_time_days"`
}

var brStates = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// validate aggregates every field failure so the caller sees the complete
// list in one response.
func (p *ZonePayload) validate() error {
	var errs error
	if strings.TrimSpace(p.Name) == "" {
		errs = multierr.Append(errs, fmt.Errorf("name is required"))
	}
	state := strings.ToUpper(strings.TrimSpace(p.State))
	if _, ok := brStates[state]; !ok {
		errs = multierr.Append(errs, fmt.Errorf("state %q is not a brazilian state code", p.State))
	}
	if !p.AllCities {
		if len(p.trimmedCities()) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("cities is required unless all_cities is set"))
		}
	}
	if p.Price.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("price must not be negative"))
	}
	if p.LeadTimeDays != nil && *p.LeadTimeDays < 0 {
		errs = multierr.Append(errs, fmt.Errorf("lead_time_days must not be negative"))
	}
	return asValidation(errs)
}

func (p *ZonePayload) trimmedCities() []string {
	out := make([]string, 0, len(p.Cities))
	for _, city := range p.Cities {
		if trimmed := strings.TrimSpace(city); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (p *RangePayload) validate() (shipping.CEP, shipping.CEP, error) {
	var errs error
	if strings.TrimSpace(p.Name) == "" {
		errs = multierr.Append(errs, fmt.Errorf("name is required"))
	}
	start, err := shipping.NormalizeCEP(p.CepStart)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("cep_start: %s", pkgerrors.As(err).Message()))
	}
	end, err := shipping.NormalizeCEP(p.CepEnd)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("cep_end: %s", pkgerrors.As(err).Message()))
	}
	if start != "" && end != "" && start > end {
		errs = multierr.Append(errs, fmt.Errorf("cep_start must not exceed cep_end"))
	}
	if p.Price.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("price must not be negative"))
	}
	if p.LeadTimeDays != nil && *p.LeadTimeDays < 0 {
		errs = multierr.Append(errs, fmt.Errorf("lead_time_days must not be negative"))
	}
	if errs != nil {
		return "", "", asValidation(errs)
	}
	return start, end, nil
}

func asValidation(errs error) error {
	if errs == nil {
		return nil
	}
	fields := make([]string, 0)
	for _, err := range multierr.Errors(errs) {
		fields = append(fields, err.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid payload").
		WithDetails(map[string]any{"errors": fields})
}
