package enums

import "fmt"

// AppliedRule identifies which rule source produced a shipping quote.
type AppliedRule string

const (
	AppliedRuleProductFree AppliedRule = "PRODUCT_FREE"
	AppliedRuleZone        AppliedRule = "ZONE"
	AppliedRuleCepRange    AppliedRule = "CEP_RANGE"
)

var validAppliedRules = []AppliedRule{
	AppliedRuleProductFree,
	AppliedRuleZone,
	AppliedRuleCepRange,
}

// String implements fmt.Stringer.
func (a AppliedRule) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AppliedRule.
func (a AppliedRule) IsValid() bool {
	for _, candidate := range validAppliedRules {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAppliedRule converts raw input into an AppliedRule.
func ParseAppliedRule(value string) (AppliedRule, error) {
	for _, candidate := range validAppliedRules {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid applied rule %q", value)
}
