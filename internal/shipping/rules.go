package shipping

import (
	"fmt"
	"sort"

	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
)

const freeReasonAlways = "ALWAYS"

// freeEligibility is the outcome of evaluating one cart line against its
// product rule.
type freeEligibility struct {
	ok     bool
	reason string
}

// qualifiesFree decides whether a line ships free under its product rule.
// A non-positive FreeFromQty on a free-shipping product is treated as
// "always free"; see DESIGN.md for the data-quality caveat.
func qualifiesFree(rule ProductRule, quantity int) freeEligibility {
	if !rule.FreeShipping {
		return freeEligibility{}
	}
	if rule.FreeFromQty == nil || *rule.FreeFromQty <= 0 {
		return freeEligibility{ok: true, reason: freeReasonAlways}
	}
	if quantity >= *rule.FreeFromQty {
		return freeEligibility{ok: true, reason: fmt.Sprintf("FROM_QTY_%d", *rule.FreeFromQty)}
	}
	return freeEligibility{}
}

// itemEvaluation aggregates the per-line rule pass over the whole cart.
type itemEvaluation struct {
	freeItems []FreeItem
	// maxLeadTimeDays spans every line, eligible or not: a slow free item
	// still delays the whole shipment.
	maxLeadTimeDays *int
}

// evaluateItems runs the free-shipping rules over the cart in input order.
// Every referenced product must have a rule; missing ids fail validation
// with the complete id list.
func evaluateItems(items []CartItem, rules map[int64]ProductRule) (itemEvaluation, error) {
	missing := make([]int64, 0)
	seen := make(map[int64]struct{})
	for _, item := range items {
		if _, ok := rules[item.ProductID]; ok {
			continue
		}
		if _, dup := seen[item.ProductID]; dup {
			continue
		}
		seen[item.ProductID] = struct{}{}
		missing = append(missing, item.ProductID)
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return itemEvaluation{}, pkgerrors.New(pkgerrors.CodeValidation, "cart references unknown products").
			WithDetails(map[string]any{"missing_product_ids": missing})
	}

	eval := itemEvaluation{freeItems: make([]FreeItem, 0, len(items))}
	for _, item := range items {
		rule := rules[item.ProductID]
		if rule.LeadTimeDays != nil {
			eval.maxLeadTimeDays = maxLeadTime(eval.maxLeadTimeDays, rule.LeadTimeDays)
		}
		if elig := qualifiesFree(rule, item.Quantity); elig.ok {
			eval.freeItems = append(eval.freeItems, FreeItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Reason:    elig.reason,
			})
		}
	}
	return eval, nil
}

// maxLeadTime merges two optional lead times; an absent side acts as the
// identity so the defined side wins.
func maxLeadTime(a, b *int) *int {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *b > *a {
		return b
	}
	return a
}
