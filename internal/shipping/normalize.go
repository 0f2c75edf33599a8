package shipping

import (
	"encoding/json"
	"strconv"
	"strings"

	pkgerrors "github.com/vitrine-commerce/vitrine-backend/pkg/errors"
)

const cepLength = 8

// Accepted payload key aliases, applied once at the boundary. The first
// alias present on an entry wins.
var (
	productIDAliases = []string{"id", "productId", "product_id", "produto_id"}
	quantityAliases  = []string{"quantity", "qty", "quantidade", "amount"}
)

// NormalizeCEP strips every non-digit character, truncates to 8 characters
// and requires exactly 8 digits to remain.
func NormalizeCEP(raw string) (CEP, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == cepLength {
				break
			}
		}
	}
	if digits.Len() != cepLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cep must contain exactly 8 digits").
			WithDetails(map[string]any{"cep": raw})
	}
	return CEP(digits.String()), nil
}

// NormalizeCartItems accepts a structured list, a JSON-encoded string, or an
// already-normalized slice, and returns the valid cart lines in input order.
// Entries with a non-positive id or quantity are dropped, not coerced. A nil
// result means the input was empty or could not be parsed; the caller decides
// how to report that.
func NormalizeCartItems(raw any) []CartItem {
	switch v := raw.(type) {
	case nil:
		return nil
	case []CartItem:
		return filterItems(v)
	case string:
		var decoded []any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			return normalizeEntries(decoded)
		}
		// A quote endpoint body can carry the cart as a JSON string field,
		// which arrives here still quoted. Unwrap once and retry.
		var quoted string
		if err := json.Unmarshal([]byte(v), &quoted); err != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(quoted), &decoded); err != nil {
			return nil
		}
		return normalizeEntries(decoded)
	case []any:
		return normalizeEntries(v)
	case []map[string]any:
		entries := make([]any, 0, len(v))
		for _, entry := range v {
			entries = append(entries, entry)
		}
		return normalizeEntries(entries)
	default:
		return nil
	}
}

func filterItems(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeEntries(entries []any) []CartItem {
	items := make([]CartItem, 0, len(entries))
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, ok := intFromAliases(fields, productIDAliases)
		if !ok || id <= 0 {
			continue
		}
		qty, ok := intFromAliases(fields, quantityAliases)
		if !ok || qty <= 0 {
			continue
		}
		items = append(items, CartItem{ProductID: id, Quantity: int(qty)})
	}
	if len(items) == 0 {
		return nil
	}
	return items
}

func intFromAliases(fields map[string]any, aliases []string) (int64, bool) {
	for _, alias := range aliases {
		value, present := fields[alias]
		if !present {
			continue
		}
		return coerceInt(value)
	}
	return 0, false
}

func coerceInt(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
